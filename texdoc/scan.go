package texdoc

import "strings"

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// skipWhiteSpace advances over blanks and tabs.
func skipWhiteSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// skipArgSpace advances over the white space allowed between the arguments
// of a command: blanks and at most one line break.
func skipArgSpace(s string, i int) int {
	i = skipWhiteSpace(s, i)
	if i < len(s) && s[i] == '\r' {
		i++
	}
	if i < len(s) && s[i] == '\n' {
		i = skipWhiteSpace(s, i+1)
	}
	return i
}

// readControlWord reads the command starting at s[i], which must be a backslash.
// It returns the name without the backslash and the index just after it.
// Control symbols like \% have a one character name.
func readControlWord(s string, i int) (name string, next int) {
	if i >= len(s) || s[i] != '\\' {
		return "", i
	}
	j := i + 1
	if j >= len(s) {
		return "", j
	}
	if !isLetter(s[j]) {
		return s[j : j+1], j + 1
	}
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	return s[i+1 : j], j
}

// readGroup reads the brace group starting at s[i]. It returns the text
// between the braces and the index after the closing one.
// Escaped braces do not count for nesting.
func readGroup(s string, i int) (content string, next int, ok bool) {
	if i >= len(s) || s[i] != '{' {
		return "", i, false
	}
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[i+1 : j], j + 1, true
			}
		}
	}
	return "", i, false
}

// readOptional reads the bracket group starting at s[i]. Brackets inside
// braces do not close the group.
func readOptional(s string, i int) (content string, next int, ok bool) {
	if i >= len(s) || s[i] != '[' {
		return "", i, false
	}
	braces, brackets := 0, 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			if braces == 0 {
				brackets++
			}
		case ']':
			if braces == 0 {
				brackets--
				if brackets == 0 {
					return s[i+1 : j], j + 1, true
				}
			}
		}
	}
	return "", i, false
}

// readArg reads a mandatory argument after optional white space. A single
// token without braces is accepted too, as TeX does.
func readArg(s string, i int) (content string, next int, ok bool) {
	j := skipArgSpace(s, i)
	if j >= len(s) {
		return "", i, false
	}
	switch s[j] {
	case '{':
		return readGroup(s, j)
	case '\\':
		name, k := readControlWord(s, j)
		if name == "" {
			return "", i, false
		}
		return s[j:k], k, true
	case '}', '[', ']', '\n', '\r':
		return "", i, false
	}
	return s[j : j+1], j + 1, true
}

// readOptionalArg reads an optional bracket argument after white space.
func readOptionalArg(s string, i int) (content string, next int, ok bool) {
	j := skipArgSpace(s, i)
	if j < len(s) && s[j] == '[' {
		return readOptional(s, j)
	}
	return "", i, false
}

// findCommand returns the index of the next occurrence of the control word
// \name at or after from, skipping longer names with the same prefix and escaped backslashes.
func findCommand(s, name string, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		word, next := readControlWord(s, i)
		if word == name {
			return i
		}
		if word == "\\" {
			i = next - 1
		}
	}
	return -1
}

// findEnvironmentEnd finds the \end{name} matching a \begin{name} whose
// content starts at from. With nested set, inner environments of the same
// name are balanced. It returns the end of the content and the index after \end{name}.
func findEnvironmentEnd(s, name string, from int, nested bool) (contentEnd, next int, ok bool) {
	begin := `\begin{` + name + `}`
	end := `\end{` + name + `}`
	depth := 1
	i := from
	for {
		e := strings.Index(s[i:], end)
		if e < 0 {
			return len(s), len(s), false
		}
		e += i
		if nested {
			if b := strings.Index(s[i:e], begin); b >= 0 {
				depth++
				i += b + len(begin)
				continue
			}
		}
		depth--
		if depth == 0 {
			return e, e + len(end), true
		}
		i = e + len(end)
	}
}

// splitTopLevel splits s on sep when it occurs outside braces and
// environments. A separator preceded by a backslash is not a split point,
// unless sep itself starts with one.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth, envDepth, start := 0, 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], sep) && depth == 0 && envDepth == 0:
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		case s[i] == '\\':
			switch {
			case strings.HasPrefix(s[i:], `\begin{`):
				envDepth++
			case strings.HasPrefix(s[i:], `\end{`):
				if envDepth > 0 {
					envDepth--
				}
			}
			i++
		case s[i] == '{':
			depth++
		case s[i] == '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return append(parts, s[start:])
}

// splitList splits a comma separated list, trimming entries and dropping empty ones.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseKeyValues parses options like "width=0.5\textwidth, keepaspectratio".
// Keys without a value map to the empty string. Outer braces around values are removed.
func parseKeyValues(s string) map[string]string {
	opts := map[string]string{}
	for _, part := range splitTopLevel(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if inner, next, ok := readGroup(value, 0); ok && next == len(value) {
			value = strings.TrimSpace(inner)
		}
		opts[key] = value
	}
	return opts
}

// isEscaped reports whether s[i] is preceded by an odd number of backslashes.
func isEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
