package texdoc

import "strings"

var listEnvironments = []string{"itemize", "enumerate", "description"}

// list parses the content of a list environment. Nested lists become the
// sublist of the item holding them; further nested lists in the same item
// add their items to that sublist.
func (c *Converter) list(env, content string, level int) *List {
	l := &List{Type: BulletList, Level: level}
	if env == "enumerate" {
		l.Type = NumberedList
	}
	for _, raw := range splitItems(content) {
		label := ""
		j := skipWhiteSpace(raw, 0)
		if opt, k, ok := readOptional(raw, j); ok {
			label, raw = strings.TrimSpace(opt), raw[k:]
		}
		if item := c.listItem(env, label, raw, level); item != nil {
			l.Items = append(l.Items, item)
		}
	}
	return l
}

// splitItems returns the text of each \item at the top level of content.
// Text before the first \item is dropped.
func splitItems(content string) []string {
	var items []string
	start := -1
	depth, envDepth := 0, 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '\\':
			name, next := readControlWord(content, i)
			switch {
			case name == "begin":
				envDepth++
			case name == "end":
				if envDepth > 0 {
					envDepth--
				}
			case name == "item" && depth == 0 && envDepth == 0:
				if start >= 0 {
					items = append(items, content[start:i])
				}
				start = next
			}
			i = next - 1
		}
	}
	if start >= 0 {
		items = append(items, content[start:])
	}
	return items
}

// findFirstEnvironment finds the first top level \begin{name} in s for one of names.
// It returns the start of \begin, the content and the index after \end.
func findFirstEnvironment(s string, names []string) (env string, start int, content string, end int, found bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
			continue
		case '}':
			if depth > 0 {
				depth--
			}
			continue
		case '\\':
		default:
			continue
		}
		name, next := readControlWord(s, i)
		if name != "begin" || depth > 0 {
			i = next - 1
			continue
		}
		arg, from, ok := readGroup(s, next)
		if !ok {
			continue
		}
		arg = strings.TrimSpace(arg)
		if !containsString(names, arg) {
			// skip the whole environment so that its inner ones are not top level
			_, e, _ := findEnvironmentEnd(s, arg, from, true)
			i = e - 1
			continue
		}
		contentEnd, e, _ := findEnvironmentEnd(s, arg, from, true)
		return arg, i, s[from:contentEnd], e, true
	}
	return "", -1, "", -1, false
}

// listItem parses one item. When all its runs share a formatting, the
// formatting is moved to the item and the text stored directly.
func (c *Converter) listItem(env, label, body string, level int) *ListItem {
	var sublist *List
	text := body
	for {
		name, start, content, end, ok := findFirstEnvironment(text, listEnvironments)
		if !ok {
			break
		}
		nested := c.list(name, content, level+1)
		switch {
		case sublist == nil:
			sublist = nested
		case nested.Type != sublist.Type:
			c.warn("nested list merged into a sublist of another type", "environment", name)
			fallthrough
		default:
			sublist.Items = append(sublist.Items, nested.Items...)
		}
		text = strings.TrimRight(text[:start], " \t\r\n") + " " + strings.TrimLeft(text[end:], " \t\r\n")
	}

	runs := trimRuns(c.ParseInline(normalizeSpace(text), Formatting{}))
	if env == "description" && label != "" {
		term := c.ParseInline(normalizeSpace(label), Formatting{Bold: true})
		term = append(term, &TextRun{Text: " ", Formatting: Formatting{}})
		runs = finalizeRuns(append(term, runs...))
	}
	if len(runs) == 0 && sublist == nil {
		return nil
	}

	item := &ListItem{Sublist: sublist}
	if len(runs) == 1 {
		if t, ok := runs[0].(*TextRun); ok {
			item.Text = t.Text
			if !t.Formatting.IsZero() {
				f := t.Formatting
				item.Formatting = &f
			}
			return item
		}
	}
	item.Text = PlainText(runs)
	if len(runs) > 0 {
		item.Content = runs
	}
	return item
}
