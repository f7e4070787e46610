// Package scope builds and caches the per-file Scope graph the type
// resolver walks for cross-file lookups (spec §4.1). It is adapted from
// the teacher's internal/module package: the same mutex-guarded
// path-keyed cache, the same load-stack cycle detection, and the same
// "classify declarations then resolve imports lazily" two-pass shape,
// retargeted from AILANG module resolution onto TypeScript
// import/type/declare graphs.
package scope

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/sourcefile"
	"github.com/kinetic-sfc/compiler/internal/tsparser"
)

// Imported records where a locally-bound name came from (spec §3 Scope
// "imports" field).
type Imported struct {
	Source   string
	Imported string // name, "*" (namespace), or "default"
}

// Scope is the per-file (or per-module-block) record spec §3 describes.
// A module declaration's body scope sets Parent to its enclosing Scope
// and prototype-inherits lookups from it (spec §3: "a module declaration
// carries a lazily built _resolvedChildScope prototyped on its parent").
type Scope struct {
	Filename string
	Source   string
	Offset   int
	Parent   *Scope

	Imports          map[string]Imported
	Types            map[string]ast.Node
	Declares         map[string]ast.Node
	ExportedTypes    map[string]ast.Node
	ExportedDeclares map[string]ast.Node

	// ResolvedImportSources caches import-path -> absolute-path, spec §3.
	ResolvedImportSources map[string]string

	// namespaces tracks the "_ns" attachment spec §4.1 step 5 describes
	// for a module+non-module name collision: the module is attached to
	// the non-module declaration under this side table rather than as a
	// struct field on every declaration node (same NodeID-keyed
	// side-table idiom internal/ast's package doc recommends).
	namespaces map[string]*ast.ModuleDecl
}

func newScope(filename, source string, offset int) *Scope {
	return &Scope{
		Filename:              filename,
		Source:                source,
		Offset:                offset,
		Imports:               make(map[string]Imported),
		Types:                 make(map[string]ast.Node),
		Declares:              make(map[string]ast.Node),
		ExportedTypes:         make(map[string]ast.Node),
		ExportedDeclares:      make(map[string]ast.Node),
		ResolvedImportSources: make(map[string]string),
		namespaces:            make(map[string]*ast.ModuleDecl),
	}
}

// Namespace returns the module declaration attached to name via the
// "_ns" merge rule, if any.
func (s *Scope) Namespace(name string) (*ast.ModuleDecl, bool) {
	m, ok := s.namespaces[name]
	return m, ok
}

// Graph owns the process-wide, path-keyed Scope cache (spec §5's
// "shared resources" (b) and (c): fileToScopeCache, tsConfigCache,
// tsConfigRefMap). One Graph is shared across a whole compile session so
// repeated lookups of the same imported file are free after the first.
type Graph struct {
	mu     sync.RWMutex
	fs     sourcefile.FS
	logger *slog.Logger

	cache          map[uint64]*Scope
	cachePath      map[uint64]string // reverse index for InvalidateTypeCache
	loading        map[string]bool   // load-stack cycle detection, keyed by path
	globalTypeFiles []string

	tsConfigCache  map[string]*TSConfig
	tsConfigRefMap map[string][]string // referenced path -> owning tsconfig paths
}

// NewGraph constructs a Graph backed by fs. logger defaults to
// slog.Default() when nil, matching compiler.Options.Logger's contract.
func NewGraph(fs sourcefile.FS, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		fs:             fs,
		logger:         logger,
		cache:          make(map[uint64]*Scope),
		cachePath:      make(map[uint64]string),
		loading:        make(map[string]bool),
		tsConfigCache:  make(map[string]*TSConfig),
		tsConfigRefMap: make(map[string][]string),
	}
}

// SetGlobalTypeFiles registers ambient global scopes consulted as the
// last step of Resolve's lookup order (spec §6 `globalTypeFiles`).
func (g *Graph) SetGlobalTypeFiles(paths []string) {
	g.globalTypeFiles = paths
}

func cacheKey(path string) uint64 {
	return xxhash.Sum64String(filepath.ToSlash(filepath.Clean(path)))
}

// Scope returns the cached Scope for path, building it if this is the
// first request (spec §3 "created lazily, cached per-file").
func (g *Graph) Scope(path string) (*Scope, error) {
	key := cacheKey(path)

	g.mu.RLock()
	if s, ok := g.cache[key]; ok {
		g.mu.RUnlock()
		g.logger.Debug("scope cache hit", "path", path)
		return s, nil
	}
	g.mu.RUnlock()

	g.mu.Lock()
	if g.loading[path] {
		g.mu.Unlock()
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.SCP002, Phase: "scope",
			Message: fmt.Sprintf("circular import detected while loading %s", path),
		})
	}
	g.loading[path] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.loading, path)
		g.mu.Unlock()
	}()

	s, err := g.build(path)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.cache[key] = s
	g.cachePath[key] = path
	g.mu.Unlock()
	g.logger.Debug("scope built", "path", path, "types", len(s.Types), "imports", len(s.Imports))
	return s, nil
}

// InvalidateTypeCache clears path's Scope and any tsconfig that
// references it, matching spec §6's HMR contract exactly.
func (g *Graph) InvalidateTypeCache(path string) {
	key := cacheKey(path)
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.cache, key)
	delete(g.cachePath, key)
	delete(g.tsConfigCache, path)
	for ref, owners := range g.tsConfigRefMap {
		if ref == path {
			for _, owner := range owners {
				delete(g.tsConfigCache, owner)
			}
			delete(g.tsConfigRefMap, ref)
		}
	}
	g.logger.Debug("scope cache invalidated", "path", path)
}

func (g *Graph) build(path string) (*Scope, error) {
	text, err := g.fs.ReadFile(path)
	if err != nil {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.SCP005, Phase: "scope",
			Message: fmt.Sprintf("reading %s: %v", path, err),
		})
	}

	src := text
	offset := 0
	if strings.HasSuffix(path, ".vue") {
		sf := sourcefile.ParseSFC(text)
		src, offset = sf.ScriptText()
	}

	nodes, err := tsparser.ParseProgram(src, path)
	if err != nil {
		return nil, err
	}

	s := newScope(path, src, offset)
	if err := g.classify(s, nodes, path); err != nil {
		return nil, err
	}
	return s, nil
}

// classify implements spec §4.1 steps 2-5: imports, types/declares
// classification, export handling, and declaration-merge rules.
func (g *Graph) classify(s *Scope, nodes []ast.Node, path string) error {
	dir := filepath.Dir(path)

	for _, n := range nodes {
		switch d := n.(type) {
		case *ast.ImportDecl:
			g.recordImport(s, d)
		case *ast.ExportDecl:
			if err := g.classifyExport(s, d, dir); err != nil {
				return err
			}
		case *ast.ExportStarDecl:
			if err := g.classifyExportStar(s, d, dir); err != nil {
				return err
			}
		default:
			mergeDeclaration(s, n)
		}
	}
	return nil
}

func (g *Graph) recordImport(s *Scope, d *ast.ImportDecl) {
	if d.DefaultName != "" {
		s.Imports[d.DefaultName] = Imported{Source: d.Source, Imported: "default"}
	}
	for _, spec := range d.Specifiers {
		imported := spec.Imported
		if imported == "" {
			imported = spec.Local
		}
		s.Imports[spec.Local] = Imported{Source: d.Source, Imported: imported}
	}
}

func (g *Graph) classifyExport(s *Scope, d *ast.ExportDecl, dir string) error {
	if d.Decl != nil {
		key := declName(d.Decl)
		if d.IsDefault {
			key = "default"
		}
		mergeDeclaration(s, d.Decl)
		if isDeclareKind(d.Decl) {
			s.ExportedDeclares[key] = d.Decl
		} else {
			s.ExportedTypes[key] = d.Decl
		}
		return nil
	}
	if len(d.Specifiers) > 0 {
		for _, spec := range d.Specifiers {
			if d.Source != "" {
				// "export {local as exported} from './x'" registers a
				// synthetic import plus a re-export type reference
				// (spec §4.1 step 4).
				s.Imports[spec.Exported] = Imported{Source: d.Source, Imported: spec.Local}
				s.ExportedTypes[spec.Exported] = &ast.TypeReference{Name: spec.Local}
			} else if local, ok := s.Types[spec.Local]; ok {
				s.ExportedTypes[spec.Exported] = local
			} else if local, ok := s.Declares[spec.Local]; ok {
				s.ExportedDeclares[spec.Exported] = local
			}
		}
	}
	return nil
}

func (g *Graph) classifyExportStar(s *Scope, d *ast.ExportStarDecl, dir string) error {
	target, err := g.resolveRelative(dir, d.Source)
	if err != nil {
		return err
	}
	targetScope, err := g.Scope(target)
	if err != nil {
		return err
	}
	for name, node := range targetScope.ExportedTypes {
		s.ExportedTypes[name] = node
	}
	return nil
}

// declName extracts the binding name a declaration node introduces, used
// as the key under Types/Declares (spec §4.1 step 3).
func declName(n ast.Node) string {
	switch d := n.(type) {
	case *ast.InterfaceDecl:
		return d.Name
	case *ast.TypeAliasDecl:
		return d.Name
	case *ast.EnumDecl:
		return d.Name
	case *ast.ClassDecl:
		return d.Name
	case *ast.ModuleDecl:
		return d.Name
	case *ast.FunctionDecl:
		return d.Name
	case *ast.VarDecl:
		if id, ok := d.Name.(*ast.Identifier); ok {
			return id.Name
		}
	case *ast.AmbientDecl:
		return d.Name
	}
	return ""
}

func isDeclareKind(n ast.Node) bool {
	switch d := n.(type) {
	case *ast.FunctionDecl:
		return d.Ambient
	case *ast.VarDecl:
		return d.Ambient
	case *ast.AmbientDecl:
		return true
	default:
		return false
	}
}

// mergeDeclaration classifies n into Types or Declares, applying spec
// §4.1 step 5's duplicate-name merge rules when a name is reused.
func mergeDeclaration(s *Scope, n ast.Node) {
	name := declName(n)
	if name == "" {
		return
	}

	target := s.Types
	if isDeclareKind(n) {
		target = s.Declares
	}

	existing, dup := target[name]
	if !dup {
		target[name] = n
		return
	}

	switch old := existing.(type) {
	case *ast.InterfaceDecl:
		if neu, ok := n.(*ast.InterfaceDecl); ok {
			old.Extends = append(old.Extends, neu.Extends...)
			if neu.Body != nil {
				if old.Body == nil {
					old.Body = neu.Body
				} else {
					old.Body.Members = append(old.Body.Members, neu.Body.Members...)
				}
			}
			return
		}
	case *ast.ModuleDecl:
		if neu, ok := n.(*ast.ModuleDecl); ok {
			old.Body = append(old.Body, neu.Body...)
			return
		}
		// module + non-module: attach old module under "_ns" on the new
		// declaration (spec §4.1 step 5), then let the new declaration
		// take over the name.
		target[name] = n
		s.namespaces[name] = old
		return
	default:
		if neu, ok := n.(*ast.ModuleDecl); ok {
			s.namespaces[name] = neu
			return
		}
	}
	// Any other duplicate-name combination (e.g. two type aliases) is
	// not a legal TypeScript merge; the later declaration simply wins,
	// matching a permissive "last write" fallback rather than erroring
	// out of the whole scope build for a non-fatal redeclaration.
	target[name] = n
}

// resolveRelative implements spec §4.1's relative-import resolution
// order: try the bare path, then .ts/.d.ts, then an index file under it.
func (g *Graph) resolveRelative(dir, importPath string) (string, error) {
	base := filepath.Join(dir, importPath)
	candidates := []string{
		base,
		base + ".ts",
		base + ".d.ts",
		filepath.Join(base, "index.ts"),
		filepath.Join(base, "index.d.ts"),
	}
	for _, c := range candidates {
		if g.fs.FileExists(c) {
			return c, nil
		}
	}
	return "", errors.WrapReport(&errors.Report{
		Schema: "sfc.error/v1", Code: errors.SCP001, Phase: "scope",
		Message: fmt.Sprintf("cannot resolve import %q from %s", importPath, dir),
		Data:    map[string]any{"candidates": candidates},
	})
}

// Resolve implements spec §4.1's invariant: "For any lookup
// resolve(name, scope, onlyExported), lookup order is: file imports ->
// file local types/declares (or exported-only if onlyExported) ->
// globally configured scopes."
func (g *Graph) Resolve(name string, s *Scope, onlyExported bool) (ast.Node, *Scope, bool) {
	if imp, ok := s.Imports[name]; ok {
		target, err := g.resolveImportSource(s, imp.Source)
		if err == nil {
			targetScope, err := g.Scope(target)
			if err == nil {
				lookupName := imp.Imported
				if lookupName == "*" {
					return nil, targetScope, true // namespace import: caller indexes the scope itself
				}
				if lookupName == "default" {
					lookupName = "default"
				}
				if node, ok := targetScope.ExportedTypes[lookupName]; ok {
					return node, targetScope, true
				}
				if node, ok := targetScope.ExportedDeclares[lookupName]; ok {
					return node, targetScope, true
				}
			}
		}
	}

	types := s.Types
	declares := s.Declares
	if onlyExported {
		types = s.ExportedTypes
		declares = s.ExportedDeclares
	}
	if node, ok := types[name]; ok {
		return node, s, true
	}
	if node, ok := declares[name]; ok {
		return node, s, true
	}

	for _, path := range g.globalTypeFiles {
		globalScope, err := g.Scope(path)
		if err != nil {
			continue
		}
		if node, ok := globalScope.ExportedTypes[name]; ok {
			return node, globalScope, true
		}
		if node, ok := globalScope.Types[name]; ok {
			return node, globalScope, true
		}
	}
	return nil, nil, false
}

// resolveImportSource resolves and caches an import source string
// relative to s.Filename (spec §3 "resolvedImportSources: cache of
// import-path -> absolute-path").
func (g *Graph) resolveImportSource(s *Scope, importPath string) (string, error) {
	if cached, ok := s.ResolvedImportSources[importPath]; ok {
		return cached, nil
	}
	var resolved string
	var err error
	if strings.HasPrefix(importPath, ".") {
		resolved, err = g.resolveRelative(filepath.Dir(s.Filename), importPath)
	} else {
		resolved, err = g.resolveNonRelative(s.Filename, importPath)
	}
	if err != nil {
		return "", err
	}
	s.ResolvedImportSources[importPath] = resolved
	return resolved, nil
}

// resolveNonRelative requires a TS-compatible resolver with tsconfig
// path mapping (spec §4.1). Every resolved path is registered against
// the owning tsconfig in tsConfigRefMap so InvalidateTypeCache can find
// it later.
func (g *Graph) resolveNonRelative(fromFile, importPath string) (string, error) {
	cfg, cfgPath, err := g.loadTSConfigFor(fromFile)
	if err != nil || cfg == nil {
		return "", errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.SCP001, Phase: "scope",
			Message: fmt.Sprintf("no tsconfig path mapping available to resolve %q", importPath),
		})
	}
	for pattern, targets := range cfg.CompilerOptions.Paths {
		if matched, rest := matchPathPattern(pattern, importPath); matched {
			for _, target := range targets {
				candidate := strings.Replace(target, "*", rest, 1)
				resolved := filepath.Join(filepath.Dir(cfgPath), cfg.CompilerOptions.BaseURL, candidate)
				if g.fs.FileExists(resolved) {
					g.mu.Lock()
					g.tsConfigRefMap[resolved] = append(g.tsConfigRefMap[resolved], cfgPath)
					g.mu.Unlock()
					return resolved, nil
				}
			}
		}
	}
	return "", errors.WrapReport(&errors.Report{
		Schema: "sfc.error/v1", Code: errors.SCP001, Phase: "scope",
		Message: fmt.Sprintf("cannot resolve non-relative import %q via tsconfig paths", importPath),
	})
}

// matchPathPattern matches tsconfig's limited glob form: at most one "*"
// wildcard. Returns the substring the wildcard captured.
func matchPathPattern(pattern, importPath string) (bool, string) {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return pattern == importPath, ""
	}
	prefix, suffix := pattern[:star], pattern[star+1:]
	if !strings.HasPrefix(importPath, prefix) || !strings.HasSuffix(importPath, suffix) {
		return false, ""
	}
	return true, importPath[len(prefix) : len(importPath)-len(suffix)]
}
