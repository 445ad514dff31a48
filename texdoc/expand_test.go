package texdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMacros() *MacroTable {
	t := NewMacroTable()
	t.Define(`\name`, 0, "World")
	t.Define("pair", 2, "(#1,#2)")
	t.Define("outer", 1, `\inner{#1}!`)
	t.Define("inner", 1, "[#1]")
	t.Define("loop", 0, `\loop x`)
	return t
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no macros used", in: `plain \textbf{text}`, want: `plain \textbf{text}`},
		{name: "zero arguments keeps the space", in: `Hello \name and bye`, want: "Hello World and bye"},
		{name: "punctuation after call", in: `Hello \name!`, want: "Hello World!"},
		{name: "arguments", in: `\pair{a}{b}`, want: "(a,b)"},
		{name: "arguments across spaces", in: `\pair {a} {b}`, want: "(a,b)"},
		{name: "optional group skipped", in: `\pair[x]{a}{b}`, want: "(a,b)"},
		{name: "nested definitions", in: `\outer{x}`, want: "[x]!"},
		{name: "missing argument kept", in: `\pair{a} end`, want: `\pair{a} end`},
		{name: "longer name not matched", in: `\names`, want: `\names`},
		{
			name: "verbatim untouched",
			in:   "\\name\n\\begin{verbatim}\\name\\end{verbatim}\n\\name",
			want: "World\n\\begin{verbatim}\\name\\end{verbatim}\nWorld",
		},
	}
	e := NewExpander(testMacros(), 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Expand(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, e.Expand(got))
		})
	}
}

func TestExpandSelfReference(t *testing.T) {
	c, _ := newTestConverter(t, DefaultOptions())
	c.ParsePreamble(`\newcommand{\self}{\self}`)
	require.True(t, c.Macros().Has("self"))

	got := c.expander.Expand(`\self`)
	assert.LessOrEqual(t, strings.Count(got, `\self`), 1)
	assert.Equal(t, `\self`, got)
}

func TestExpandStopsAtPassLimit(t *testing.T) {
	e := NewExpander(testMacros(), 3)
	got := e.Expand(`\loop`)
	assert.True(t, strings.HasPrefix(got, `\loop`))
	assert.Equal(t, 3, strings.Count(got, "x"))

	e = NewExpander(testMacros(), 0)
	assert.Equal(t, DefaultMaxExpansion, e.MaxPasses)
	assert.Equal(t, DefaultMaxExpansion, strings.Count(e.Expand(`\loop`), "x"))
}

func TestMacroTable(t *testing.T) {
	table := NewMacroTable()
	table.Define(`\greet`, 1, "Hi #1")
	table.Define("bad", 10, "ignored")
	table.Define("", 0, "ignored")
	require.Equal(t, 1, table.Len())

	m, ok := table.Lookup("greet")
	require.True(t, ok)
	assert.Equal(t, "greet", m.Name)
	assert.Equal(t, "Hi you", m.Instantiate([]string{"you"}))
	assert.False(t, table.Has("bad"))

	table.Define("greet", 0, "Hello")
	m, _ = table.Lookup("greet")
	assert.Equal(t, "Hello", m.Instantiate(nil))
}

func TestMacroInstantiate(t *testing.T) {
	m := &Macro{Name: "m", ArgCount: 2, Template: "#2-#1 ## #3"}
	assert.Equal(t, "b-a # #3", m.Instantiate([]string{"a", "b"}))
}
