package symbols_test

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/symbols"
	"github.com/stretchr/testify/assert"
)

func TestRegisterTemplateDuplicate(t *testing.T) {
	tbl := symbols.NewTable()
	assert.True(t, tbl.RegisterTemplate(ast.DefStyle, "", "Big", 1))
	assert.False(t, tbl.RegisterTemplate(ast.DefStyle, "", "Big", 2))
}

func TestLookupUniqueRegistration(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.RegisterTemplate(ast.DefElement, "", "Box", 42)
	res := tbl.LookupTemplate(ast.DefElement, "Box", nil, "")
	assert.True(t, res.Found)
	assert.Equal(t, ast.NodeID(42), res.Node)
}

func TestLookupResolutionOrderRelativeFirst(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.RegisterTemplate(ast.DefStyle, "", "Big", 1)        // global
	tbl.RegisterTemplate(ast.DefStyle, "ui", "Big", 2)      // namespace "ui"
	tbl.RegisterTemplate(ast.DefStyle, "ui.forms", "Big", 3) // namespace "ui.forms"

	res := tbl.LookupTemplate(ast.DefStyle, "Big", []string{"ui", "forms"}, "")
	assert.True(t, res.Found)
	assert.Equal(t, ast.NodeID(3), res.Node, "innermost namespace wins over outer and global")

	res = tbl.LookupTemplate(ast.DefStyle, "Big", []string{"ui"}, "")
	assert.Equal(t, ast.NodeID(2), res.Node)
}

func TestLookupFallsBackToFromClauseThenGlobal(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.RegisterTemplate(ast.DefStyle, "", "Big", 1)   // global
	tbl.RegisterTemplate(ast.DefStyle, "lib", "Big", 2) // namespace "lib"

	res := tbl.LookupTemplate(ast.DefStyle, "Big", []string{"other"}, "lib")
	assert.True(t, res.Found)
	assert.Equal(t, ast.NodeID(2), res.Node, "from-clause qualifier wins when relative chain misses")

	res = tbl.LookupTemplate(ast.DefStyle, "Big", []string{"other"}, "")
	assert.Equal(t, ast.NodeID(1), res.Node, "falls back to global")
}

func TestLookupMissing(t *testing.T) {
	tbl := symbols.NewTable()
	res := tbl.LookupTemplate(ast.DefStyle, "Nope", nil, "")
	assert.False(t, res.Found)
}

func TestConfigKeyAliasCanonicalization(t *testing.T) {
	cfg := symbols.NewConfigRecord("default")
	cfg.Set("MyOption", "1")
	v, ok := cfg.Get("my-option")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = cfg.Get("my_option")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestConfigAliasResolution(t *testing.T) {
	cfg := symbols.NewConfigRecord("default")
	cfg.Set("indexInitialCount", "0")
	cfg.AddAlias("indexInitialCount", "INDEX_INITIAL_COUNT")
	assert.Equal(t, "index_initial_count", cfg.ResolveAlias("INDEX_INITIAL_COUNT"))
}

func TestActiveConfigurationDefaultsToFirstRegistered(t *testing.T) {
	tbl := symbols.NewTable()
	cfg := symbols.NewConfigRecord("main")
	tbl.RegisterConfiguration("main", cfg)
	assert.Equal(t, cfg, tbl.ActiveConfiguration())
}

func TestSetActiveConfigurationUnknownFails(t *testing.T) {
	tbl := symbols.NewTable()
	assert.False(t, tbl.SetActiveConfiguration("nope"))
}

func TestDisabledNameGroup(t *testing.T) {
	tbl := symbols.NewTable()
	cfg := symbols.NewConfigRecord("main")
	cfg.Disabled["Custom"] = true
	tbl.RegisterConfiguration("main", cfg)
	assert.True(t, tbl.IsDisabled("Custom"))
	assert.False(t, tbl.IsDisabled("Template"))
}

func TestOriginRegistrationKeyedByKindAndName(t *testing.T) {
	tbl := symbols.NewTable()
	assert.True(t, tbl.RegisterOrigin(ast.OriginHtml, "box", 7))
	rec, ok := tbl.LookupOrigin(ast.OriginHtml, "box")
	assert.True(t, ok)
	assert.Equal(t, ast.NodeID(7), rec.Node)

	_, ok = tbl.LookupOrigin(ast.OriginStyle, "box")
	assert.False(t, ok, "different kind with same name is a distinct registration")
}
