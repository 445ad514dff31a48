package texdoc

import "strings"

// DefaultMaxExpansion is the number of expansion passes after which
// expansion stops even if the text still changes.
const DefaultMaxExpansion = 10

// Expander substitutes macro invocations until the text stops changing or
// the pass limit is reached. Verbatim-like environments are left untouched.
type Expander struct {
	Macros    *MacroTable
	MaxPasses int
}

func NewExpander(macros *MacroTable, maxPasses int) *Expander {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxExpansion
	}
	return &Expander{Macros: macros, MaxPasses: maxPasses}
}

// Expand returns text with every macro invocation replaced.
// Reaching the pass limit is not an error: the remaining invocations are kept verbatim.
func (e *Expander) Expand(text string) string {
	if e.Macros == nil || e.Macros.Len() == 0 || !strings.Contains(text, `\`) {
		return text
	}
	protected := protectedRegions(text)
	if len(protected) == 0 {
		return e.expandSegment(text)
	}
	var b strings.Builder
	last := 0
	for _, r := range protected {
		b.WriteString(e.expandSegment(text[last:r.start]))
		b.WriteString(text[r.start:r.end])
		last = r.end
	}
	b.WriteString(e.expandSegment(text[last:]))
	return b.String()
}

func (e *Expander) expandSegment(text string) string {
	for pass := 0; pass < e.MaxPasses; pass++ {
		next, changed := e.expandOnce(text)
		if !changed || next == text {
			return next
		}
		text = next
	}
	return text
}

// expandOnce replaces, left to right, the invocations present in text.
// Replacement text is not rescanned in the same pass.
func (e *Expander) expandOnce(s string) (string, bool) {
	var b strings.Builder
	changed := false
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		name, next := readControlWord(s, i)
		if name == "" {
			break
		}
		m, ok := e.Macros.Lookup(name)
		if !ok {
			i = next - 1
			continue
		}
		end, args, ok := readInvocation(s, next, m.ArgCount)
		if !ok {
			i = next - 1
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(m.Instantiate(args))
		last = end
		i = end - 1
		changed = true
	}
	if !changed {
		return s, false
	}
	b.WriteString(s[last:])
	return b.String(), true
}

// readInvocation reads the arguments of a macro call starting at pos, just
// after the macro name. An optional bracket group right after the name is
// skipped for macros taking arguments.
func readInvocation(s string, pos, argCount int) (end int, args []string, ok bool) {
	if argCount == 0 {
		return pos, nil, true
	}
	j := pos
	if _, next, found := readOptional(s, j); found {
		j = next
	}
	args = make([]string, 0, argCount)
	for k := 0; k < argCount; k++ {
		j = skipArgSpace(s, j)
		content, next, found := readGroup(s, j)
		if !found {
			return pos, nil, false
		}
		args = append(args, content)
		j = next
	}
	return j, args, true
}
