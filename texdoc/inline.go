package texdoc

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ParseInline parses a macro expanded text span into runs. Every text run
// carries base plus the attributes of the commands enclosing it.
// The result never holds empty text runs nor two consecutive text runs with
// the same formatting.
func (c *Converter) ParseInline(text string, base Formatting) []Run {
	var runs []Run
	c.scanInline(text, base, &runs)
	return finalizeRuns(runs)
}

// scanInline walks s with a cursor, appending runs to out. Plain stretches
// are cleaned and emitted when a command, a group or math interrupts them.
func (c *Converter) scanInline(s string, f Formatting, out *[]Run) {
	last := 0
	flush := func(end int) {
		if end > last {
			*out = append(*out, &TextRun{Text: Clean(s[last:end]), Formatting: f})
		}
	}

	for i := 0; i < len(s); {
		switch s[i] {
		case '\\':
			name, next := readControlWord(s, i)
			if name == "" {
				i = next
				continue
			}
			if !isLetter(name[0]) {
				switch name {
				case "(", "[":
					closing := `\)`
					if name == "[" {
						closing = `\]`
					}
					end := strings.Index(s[next:], closing)
					if end < 0 {
						// unclosed: drop the delimiter
						flush(i)
						i, last = next, next
						continue
					}
					end += next + len(closing)
					flush(i)
					*out = append(*out, &TextRun{Text: s[i:end], Formatting: f})
					i, last = end, end
				default:
					i = next
					if accentMarks[name] != "" && next < len(s) && s[next] == '{' {
						if _, end, ok := readGroup(s, next); ok {
							i = end
						}
					}
				}
				continue
			}
			if isTextCommand(name) {
				i = next
				if next < len(s) && s[next] == '{' {
					if _, end, ok := readGroup(s, next); ok {
						i = end
					}
				}
				continue
			}
			flush(i)
			i = c.inlineCommand(s, name, next, f, out)
			last = i

		case '{':
			flush(i)
			content, next, ok := readGroup(s, i)
			if !ok {
				i++
				last = i
				continue
			}
			c.scanInline(content, f, out)
			i, last = next, next

		case '}':
			flush(i)
			i++
			last = i

		case '$':
			end := mathEnd(s, i)
			if end == i+1 {
				i++
				continue
			}
			flush(i)
			*out = append(*out, &TextRun{Text: s[i:end], Formatting: f})
			i, last = end, end

		default:
			i++
		}
	}
	flush(len(s))
}

// mathEnd returns the index after the math span opened by the dollar at s[i],
// or i+1 when it is not closed.
func mathEnd(s string, i int) int {
	delim := "$"
	if strings.HasPrefix(s[i:], "$$") {
		delim = "$$"
	}
	for j := i + len(delim); j < len(s); j++ {
		if s[j] == '\\' {
			j++
			continue
		}
		if strings.HasPrefix(s[j:], delim) {
			return j + len(delim)
		}
	}
	return i + 1
}

// inlineCommand handles the command \name whose name ends at next.
// It returns the index where scanning resumes.
func (c *Converter) inlineCommand(s, name string, next int, f Formatting, out *[]Run) int {
	switch commandKind(name) {

	case FormatCommand:
		arg, end, ok := readArg(s, next)
		if !ok {
			return c.unknownCommand(s, name, next, f, out)
		}
		nf := f
		formatCommands[name](&nf)
		c.scanInline(arg, nf, out)
		return end

	case DeclarationCommand:
		nf := f
		if apply, ok := declarations[name]; ok {
			apply(&nf)
		} else {
			nf.FontSize = fontSizes[name]
		}
		c.scanInline(strings.TrimLeft(s[next:], " \t\n"), nf, out)
		return len(s)

	case WrapperCommand:
		arg, end, ok := readArg(s, next)
		if !ok {
			return next
		}
		c.scanInline(arg, f, out)
		return end

	case ColorCommand, ColorDeclaration:
		j := next
		model, k, hasModel := readOptionalArg(s, j)
		if hasModel {
			j = k
		}
		spec, j, ok := readArg(s, j)
		if !ok {
			return c.unknownCommand(s, name, next, f, out)
		}
		nf := f
		if hex, ok := c.colorValue(model, spec, hasModel); ok {
			nf.Color = hex
		}
		if name == "color" {
			c.scanInline(s[j:], nf, out)
			return len(s)
		}
		text, end, ok := readArg(s, j)
		if !ok {
			return j
		}
		c.scanInline(text, nf, out)
		return end

	case HighlightCommand:
		// \hl{text} highlights in yellow, \colorbox[model]{spec}{text} in any color.
		j := next
		model, spec, hasModel := "", "yellow", false
		if name != "hl" {
			var k int
			var ok bool
			if model, k, hasModel = readOptionalArg(s, j); hasModel {
				j = k
			}
			if spec, j, ok = readArg(s, j); !ok {
				return c.unknownCommand(s, name, next, f, out)
			}
		}
		text, end, ok := readArg(s, j)
		if !ok {
			return j
		}
		nf := f
		if hex, ok := c.colorValue(model, spec, hasModel); ok {
			nf.Highlight = hex
		}
		c.scanInline(text, nf, out)
		return end

	case CaseCommand:
		arg, end, ok := readArg(s, next)
		if !ok {
			return next
		}
		caser := cases.Upper(language.Und)
		if name == "MakeLowercase" || name == "lowercase" {
			caser = cases.Lower(language.Und)
		}
		for _, r := range c.ParseInline(arg, f) {
			if t, ok := r.(*TextRun); ok {
				r = &TextRun{Text: caser.String(t.Text), Formatting: t.Formatting}
			}
			*out = append(*out, r)
		}
		return end

	case URLCommand:
		arg, end, ok := readArg(s, next)
		if !ok {
			return next
		}
		url := unescapeURL(strings.TrimSpace(arg))
		*out = append(*out, &LinkRun{URL: url, Text: url})
		return end

	case HrefCommand:
		target, j, ok := readArg(s, next)
		if !ok {
			return next
		}
		text, end, ok := readArg(s, j)
		if !ok {
			return j
		}
		url := unescapeURL(strings.TrimSpace(target))
		display := strings.TrimSpace(PlainText(c.ParseInline(text, f)))
		if display == "" {
			display = url
		}
		*out = append(*out, &LinkRun{URL: url, Text: display})
		return end

	case CitationCommand:
		j := next
		if j < len(s) && s[j] == '*' {
			j++
		}
		var notes []string
		for len(notes) < 2 {
			note, k, ok := readOptionalArg(s, j)
			if !ok {
				break
			}
			notes = append(notes, strings.TrimSpace(Clean(note)))
			j = k
		}
		keys, end, ok := readArg(s, j)
		if !ok {
			return c.unknownCommand(s, name, next, f, out)
		}
		var prenote, postnote string
		if len(notes) > 0 {
			prenote = notes[0]
		}
		if len(notes) > 1 {
			postnote = notes[1]
		}
		list := splitList(keys)
		if len(list) == 0 {
			c.warn("citation without keys", "command", name)
			return end
		}
		*out = append(*out, c.newCitation(name, list, prenote, postnote))
		return end

	case ReferenceCommand:
		arg, end, ok := readArg(s, next)
		if !ok {
			return next
		}
		label := strings.TrimSpace(arg)
		code := "REF"
		if name == "pageref" {
			code = "PAGEREF"
		}
		*out = append(*out, &FieldRun{
			FieldCode:   fmt.Sprintf(`%s %s \h`, code, bookmarkName(label)),
			DisplayText: label,
		})
		return end

	case ImageCommand:
		j := next
		opts, k, hasOpts := readOptionalArg(s, j)
		if hasOpts {
			j = k
		}
		path, end, ok := readArg(s, j)
		if !ok {
			return c.unknownCommand(s, name, next, f, out)
		}
		*out = append(*out, c.imageRun(strings.TrimSpace(path), opts, ""))
		return end

	case DateCommand:
		*out = append(*out, &TextRun{Text: c.now().Format("January 2, 2006"), Formatting: f})
		if strings.HasPrefix(s[next:], "{}") {
			return next + 2
		}
		return next
	}

	return c.unknownCommand(s, name, next, f, out)
}

// unknownCommand drops an unrecognized command. The brace groups that follow
// it immediately, after an optional bracket group, are dropped too.
func (c *Converter) unknownCommand(s, name string, next int, f Formatting, out *[]Run) int {
	j := next
	if j < len(s) && s[j] == '*' {
		j++
	}
	if _, k, ok := readOptional(s, j); ok {
		j = k
	}
	if j < len(s) && s[j] == '{' {
		for j < len(s) && s[j] == '{' {
			_, k, ok := readGroup(s, j)
			if !ok {
				break
			}
			j = k
		}
		return j
	}
	if c.opts.MarkUnhandled {
		*out = append(*out, &TextRun{Text: `[Unhandled: \` + name + `]`, Formatting: f})
	}
	return next
}

// colorValue resolves a color given by name or by an explicit model and spec.
func (c *Converter) colorValue(model, spec string, hasModel bool) (string, bool) {
	spec = strings.TrimSpace(spec)
	if hasModel {
		hex, err := ParseColorSpec(model, spec)
		if err != nil {
			c.warn("malformed color specification", "model", model, "spec", spec, "error", err)
			return "", false
		}
		return hex, true
	}
	hex, ok := c.colors.Resolve(spec)
	if !ok {
		c.warn("unresolved color name", "color", spec)
	}
	return hex, ok
}

// unescapeURL removes the backslash of escaped characters in a URL.
func unescapeURL(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte(`%&#$_{}~`, s[i+1]) >= 0 {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
