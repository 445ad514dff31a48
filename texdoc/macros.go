package texdoc

import "strings"

// Macro is a user defined text substitution command.
type Macro struct {
	Name     string // without the backslash
	ArgCount int
	Template string // uses #1..#9 for the arguments
}

// MacroTable holds the macros of one conversion. Redefinitions replace
// previous ones.
type MacroTable struct {
	macros map[string]*Macro
}

func NewMacroTable() *MacroTable {
	return &MacroTable{macros: map[string]*Macro{}}
}

// Define adds or replaces a macro. A leading backslash in name is ignored.
func (t *MacroTable) Define(name string, argCount int, template string) {
	name = strings.TrimPrefix(strings.TrimSpace(name), `\`)
	if name == "" || argCount < 0 || argCount > 9 {
		return
	}
	t.macros[name] = &Macro{Name: name, ArgCount: argCount, Template: template}
}

// Lookup returns the macro called name.
func (t *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// Has reports whether name is defined.
func (t *MacroTable) Has(name string) bool {
	_, ok := t.macros[name]
	return ok
}

// Len returns the number of macros defined.
func (t *MacroTable) Len() int {
	return len(t.macros)
}

// Instantiate substitutes args into the template of m.
func (m *Macro) Instantiate(args []string) string {
	if m.ArgCount == 0 {
		return m.Template
	}
	var b strings.Builder
	tmpl := m.Template
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c == '#' && i+1 < len(tmpl) {
			n := tmpl[i+1]
			if n >= '1' && n <= '9' && int(n-'0') <= len(args) {
				b.WriteString(args[n-'1'])
				i++
				continue
			}
			if n == '#' {
				b.WriteByte('#')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
