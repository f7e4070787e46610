package ir

// PatchFlag is the bit field baked into a VNode at compile time telling
// the runtime which parts may have changed (spec §6 "Patch-flag wire
// contract"). Values match the framework's own wire contract exactly,
// since C7's output must stay interoperable with an external renderer
// that was not reimplemented here (spec §1 "Out of scope: the
// virtual-DOM diff/patch algorithm").
type PatchFlag int

const (
	PatchText            PatchFlag = 1 << 0
	PatchClass           PatchFlag = 1 << 1
	PatchStyle           PatchFlag = 1 << 2
	PatchProps           PatchFlag = 1 << 3
	PatchFullProps       PatchFlag = 1 << 4
	PatchHydrateEvents   PatchFlag = 1 << 5
	PatchStableFragment  PatchFlag = 1 << 6
	PatchKeyedFragment   PatchFlag = 1 << 7
	PatchUnkeyedFragment PatchFlag = 1 << 8
	PatchNeedPatch       PatchFlag = 1 << 9
	PatchDynamicSlots    PatchFlag = 1 << 10
	PatchDevRootFragment PatchFlag = 1 << 11

	// PatchHoisted and PatchBail are negative sentinels, not bits:
	// HOISTED marks a vnode with no dynamic children at all, BAIL opts a
	// subtree entirely out of the block-tracking optimization.
	PatchHoisted PatchFlag = -1
	PatchBail    PatchFlag = -2
)

// Has reports whether flag is set. Meaningless for the two negative
// sentinels, which are never combined with other bits.
func (f PatchFlag) Has(bit PatchFlag) bool {
	return f > 0 && f&bit != 0
}

// SlotFlag tags a synthesized slots object as stable, dynamic, or
// forwarded (spec §3 "Slot flags").
type SlotFlag int

const (
	SlotStable SlotFlag = iota + 1
	SlotDynamic
	SlotForwarded
)

func (f SlotFlag) String() string {
	switch f {
	case SlotStable:
		return "STABLE"
	case SlotDynamic:
		return "DYNAMIC"
	case SlotForwarded:
		return "FORWARDED"
	default:
		return "UNKNOWN"
	}
}
