// Package symbols implements the Global Symbol Map: the
// per-compile registry of templates, customs, variable groups, namespaces,
// origins, imports, and configurations, plus the three-step name
// resolution order used during the resolver pass.
package symbols

import (
	"sort"
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/loc"

	"github.com/iancoleman/strcase"
)

// key identifies a template/custom registration within one namespace.
type key struct {
	kind ast.DefKind
	name string
}

// namespaceScope holds everything registered directly inside one namespace
// path ("" is the global namespace).
type namespaceScope struct {
	templates map[key]ast.NodeID
	customs   map[key]ast.NodeID
	varGroups map[string]ast.NodeID
	children  map[string]*namespaceScope
}

func newScope() *namespaceScope {
	return &namespaceScope{
		templates: make(map[key]ast.NodeID),
		customs:   make(map[key]ast.NodeID),
		varGroups: make(map[string]ast.NodeID),
		children:  make(map[string]*namespaceScope),
	}
}

// OriginRecord is a registered named [Origin] body, keyed "kind:name".
type OriginRecord struct {
	Kind ast.OriginKind
	Name string
	Node ast.NodeID
}

// ImportRecord is the resolved, cached content of one [Import] directive.
type ImportRecord struct {
	Path       string
	SourceText string
	Node       ast.NodeID
}

// ConfigRecord backs one [Configuration] block.
type ConfigRecord struct {
	Name              string
	Values            map[string]string
	NameOverrides     map[string][]string
	OriginTypeAliases map[string]string
	// Disabled turns off a whole bracket-keyword family (e.g. "Custom")
	// when true, a feature supplemented from original_source/CHTLContext.hpp.
	Disabled map[string]bool
}

func NewConfigRecord(name string) *ConfigRecord {
	return &ConfigRecord{
		Name:              name,
		Values:            make(map[string]string),
		NameOverrides:     make(map[string][]string),
		OriginTypeAliases: make(map[string]string),
		Disabled:          make(map[string]bool),
	}
}

// canonicalKey normalizes a configuration key alias to snake_case so
// "MyOption", "my-option", and "my_option" register as one canonical key.
func canonicalKey(k string) string {
	return strcase.ToSnake(k)
}

func (c *ConfigRecord) Set(k, v string) {
	c.Values[canonicalKey(k)] = v
}

func (c *ConfigRecord) Get(k string) (string, bool) {
	v, ok := c.Values[canonicalKey(k)]
	return v, ok
}

// AddAlias registers alias as another spelling of canonical.
func (c *ConfigRecord) AddAlias(canonical, alias string) {
	ck := canonicalKey(canonical)
	c.NameOverrides[ck] = append(c.NameOverrides[ck], alias)
}

// ResolveAlias maps any known spelling of a key (canonical or alias) back
// to its canonical form.
func (c *ConfigRecord) ResolveAlias(name string) string {
	ck := canonicalKey(name)
	if _, ok := c.Values[ck]; ok {
		return ck
	}
	for canonical, aliases := range c.NameOverrides {
		for _, a := range aliases {
			if strcase.ToSnake(a) == ck {
				return canonical
			}
		}
	}
	return ck
}

// Table is the Global Symbol Map. One Table belongs to one compile
// pipeline instance; it is mutated during parsing/resolver pre-pass and
// treated as read-only by the generator.
type Table struct {
	root *namespaceScope

	origins map[string]OriginRecord // keyed "kind:name"
	imports map[string]ImportRecord // keyed resolved path
	configs map[string]*ConfigRecord
	active  string
}

func NewTable() *Table {
	return &Table{
		root:    newScope(),
		origins: make(map[string]OriginRecord),
		imports: make(map[string]ImportRecord),
		configs: make(map[string]*ConfigRecord),
	}
}

func splitPath(namespace string) []string {
	if namespace == "" {
		return nil
	}
	return strings.Split(namespace, ".")
}

// scopeFor returns the namespaceScope for the given dotted path, creating
// intermediate namespaces as needed: registering a namespace merges into
// any existing scope of the same dotted path rather than replacing it.
func (t *Table) scopeFor(namespace string, create bool) *namespaceScope {
	scope := t.root
	for _, part := range splitPath(namespace) {
		next, ok := scope.children[part]
		if !ok {
			if !create {
				return nil
			}
			next = newScope()
			scope.children[part] = next
		}
		scope = next
	}
	return scope
}

// RegisterTemplate registers a [Template] definition. Returns false if the
// (kind, namespace, name) triple is already registered.
func (t *Table) RegisterTemplate(kind ast.DefKind, namespace, name string, node ast.NodeID) bool {
	scope := t.scopeFor(namespace, true)
	k := key{kind, name}
	if _, exists := scope.templates[k]; exists {
		return false
	}
	scope.templates[k] = node
	return true
}

// RegisterCustom registers a [Custom] definition, same duplicate policy.
func (t *Table) RegisterCustom(kind ast.DefKind, namespace, name string, node ast.NodeID) bool {
	scope := t.scopeFor(namespace, true)
	k := key{kind, name}
	if _, exists := scope.customs[k]; exists {
		return false
	}
	scope.customs[k] = node
	return true
}

// RegisterVarGroup registers a `[Template] @Var` / `[Custom] @Var` group.
func (t *Table) RegisterVarGroup(namespace, name string, node ast.NodeID) bool {
	scope := t.scopeFor(namespace, true)
	if _, exists := scope.varGroups[name]; exists {
		return false
	}
	scope.varGroups[name] = node
	return true
}

// RegisterNamespace ensures the given dotted path exists, merging with any
// previously registered namespace of the same path.
func (t *Table) RegisterNamespace(path string) {
	t.scopeFor(path, true)
}

func (t *Table) RegisterOrigin(kind ast.OriginKind, name string, node ast.NodeID) bool {
	k := originKey(kind, name)
	if _, exists := t.origins[k]; exists {
		return false
	}
	t.origins[k] = OriginRecord{Kind: kind, Name: name, Node: node}
	return true
}

func (t *Table) LookupOrigin(kind ast.OriginKind, name string) (OriginRecord, bool) {
	rec, ok := t.origins[originKey(kind, name)]
	return rec, ok
}

func originKey(kind ast.OriginKind, name string) string {
	kinds := []string{"html", "style", "javascript", "custom"}
	idx := int(kind)
	if idx < 0 || idx >= len(kinds) {
		idx = 0
	}
	return kinds[idx] + ":" + name
}

func (t *Table) RegisterImport(path string, rec ImportRecord) bool {
	if _, exists := t.imports[path]; exists {
		return false
	}
	t.imports[path] = rec
	return true
}

func (t *Table) LookupImport(path string) (ImportRecord, bool) {
	rec, ok := t.imports[path]
	return rec, ok
}

// RegisterConfiguration registers a [Configuration] block under name (the
// empty string names the unnamed default configuration).
func (t *Table) RegisterConfiguration(name string, rec *ConfigRecord) bool {
	if _, exists := t.configs[name]; exists {
		return false
	}
	t.configs[name] = rec
	if t.active == "" {
		t.active = name
	}
	return true
}

// SetActiveConfiguration selects which registered configuration is "live"
// for parsing/resolution. Returns false if name was never registered.
func (t *Table) SetActiveConfiguration(name string) bool {
	if _, ok := t.configs[name]; !ok {
		return false
	}
	t.active = name
	return true
}

// ActiveConfiguration returns the currently selected configuration, or nil
// if none has been registered yet.
func (t *Table) ActiveConfiguration() *ConfigRecord {
	return t.configs[t.active]
}

// IsDisabled reports whether the active configuration turns off the named
// bracket-keyword family.
func (t *Table) IsDisabled(featureName string) bool {
	cfg := t.ActiveConfiguration()
	if cfg == nil {
		return false
	}
	return cfg.Disabled[featureName]
}

// LookupResult reports whether a reference resolved, and to which node.
// lookup never sets Ambiguous: the first match in the resolution order wins.
type LookupResult struct {
	Node      ast.NodeID
	Found     bool
	Ambiguous bool
}

// LookupTemplate resolves a template reference 's
// three-step order: relative (current namespace chain, inside-out), then
// the `from` clause if present, then global.
func (t *Table) LookupTemplate(kind ast.DefKind, name string, currentChain []string, fromClause string) LookupResult {
	return t.lookup(name, currentChain, fromClause, func(s *namespaceScope) (ast.NodeID, bool) {
		id, ok := s.templates[key{kind, name}]
		return id, ok
	})
}

func (t *Table) LookupCustom(kind ast.DefKind, name string, currentChain []string, fromClause string) LookupResult {
	return t.lookup(name, currentChain, fromClause, func(s *namespaceScope) (ast.NodeID, bool) {
		id, ok := s.customs[key{kind, name}]
		return id, ok
	})
}

func (t *Table) LookupVarGroup(name string, currentChain []string, fromClause string) LookupResult {
	return t.lookup(name, currentChain, fromClause, func(s *namespaceScope) (ast.NodeID, bool) {
		id, ok := s.varGroups[name]
		return id, ok
	})
}

func (t *Table) lookup(name string, currentChain []string, fromClause string, find func(*namespaceScope) (ast.NodeID, bool)) LookupResult {
	// Step 1: relative, inside-out through the current namespace chain
	// (the global root itself is step 3).
	for i := len(currentChain); i > 0; i-- {
		scope := t.scopeFor(strings.Join(currentChain[:i], "."), false)
		if scope == nil {
			continue
		}
		if id, ok := find(scope); ok {
			return LookupResult{Node: id, Found: true}
		}
	}
	// Step 2: qualified by the `from` clause.
	if fromClause != "" {
		scope := t.scopeFor(fromClause, false)
		if scope != nil {
			if id, ok := find(scope); ok {
				return LookupResult{Node: id, Found: true}
			}
		}
	}
	// Step 3: global.
	if id, ok := find(t.root); ok {
		return LookupResult{Node: id, Found: true}
	}
	return LookupResult{Found: false}
}

// DiagnosticForDuplicate builds the standard "duplicate registration"
// diagnostic for a register_* call that returned false.
func DiagnosticForDuplicate(l loc.Loc, what, name string) *loc.ErrorWithRange {
	return &loc.ErrorWithRange{
		Code:  loc.ERROR_DUPLICATE_REGISTRATION,
		Kind:  loc.KindSemantic,
		Text:  "duplicate " + what + " registration: " + name,
		Range: loc.Range{Loc: l, Len: 1},
	}
}

// DiagnosticForUnknown builds the standard "unknown reference" diagnostic.
func DiagnosticForUnknown(l loc.Loc, what, name string) *loc.ErrorWithRange {
	return &loc.ErrorWithRange{
		Code:  loc.ERROR_UNKNOWN_REFERENCE,
		Kind:  loc.KindSemantic,
		Text:  "unknown " + what + ": " + name,
		Range: loc.Range{Loc: l, Len: 1},
	}
}

// DiagnosticForAmbiguous builds the standard "ambiguous reference"
// diagnostic.
func DiagnosticForAmbiguous(l loc.Loc, what, name string) *loc.ErrorWithRange {
	return &loc.ErrorWithRange{
		Code:  loc.ERROR_AMBIGUOUS_REFERENCE,
		Kind:  loc.KindSemantic,
		Text:  "ambiguous " + what + ": " + name,
		Range: loc.Range{Loc: l, Len: 1},
	}
}

// ConfigNames returns every registered configuration name, sorted, for
// deterministic debug output.
func (t *Table) ConfigNames() []string {
	names := make([]string, 0, len(t.configs))
	for n := range t.configs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
