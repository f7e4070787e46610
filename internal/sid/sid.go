// Package sid computes stable, content-addressed identifiers for AST
// nodes. Per spec §9's "AST back-references" design note — "a NodeId plus
// a side-table from NodeId -> ScopeId avoids aliasing pitfalls" — every
// memoization table in this compiler (scope ownership, resolved type
// elements, props-cache entries) is keyed by NodeID rather than by
// pointer identity, so two runs over the same unchanged source produce
// identical keys.
package sid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// NodeID is a stable identifier for an AST node: the same node, in the
// same file, produces the same NodeID on every compile.
type NodeID string

// NewNodeID computes a NodeID from a node's owning file path, its byte
// span, its NodeKind, and its path of child indices from the nearest
// cached ancestor. Formula: hash(canonical_path | start | end | kind |
// child_path), truncated to 16 hex characters for brevity in logs.
func NewNodeID(path string, start, end int, kind string, childPath []int) NodeID {
	canonPath := canonicalizePath(path)

	parts := make([]string, 0, 4+len(childPath))
	parts = append(parts, canonPath)
	parts = append(parts, fmt.Sprintf("%d", start))
	parts = append(parts, fmt.Sprintf("%d", end))
	parts = append(parts, kind)
	for _, idx := range childPath {
		parts = append(parts, fmt.Sprintf("%d", idx))
	}

	input := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(input))
	return NodeID(hex.EncodeToString(hash[:])[:16])
}

// canonicalizePath normalizes a file path so the same file always hashes
// to the same NodeID regardless of how it was referenced (relative vs
// absolute, symlinked, or on a case-insensitive filesystem).
func canonicalizePath(path string) string {
	path = filepath.Clean(path)

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	// NodeID stability only; actual file resolution uses real FS semantics.
	if isCaseInsensitive() {
		path = strings.ToLower(path)
	}

	return filepath.ToSlash(path)
}

func isCaseInsensitive() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
