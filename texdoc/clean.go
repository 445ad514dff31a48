package texdoc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// combining marks for the accent commands, composed with NFC.
var accentMarks = map[string]string{
	"'":  "́",
	"`":  "̀",
	"^":  "̂",
	"\"": "̈",
	"~":  "̃",
	"=":  "̄",
	".":  "̇",
	"u":  "̆",
	"v":  "̌",
	"H":  "̋",
	"c":  "̧",
	"k":  "̨",
	"r":  "̊",
	"d":  "̣",
	"b":  "̱",
}

// textSymbols are control words standing for a character or a word.
var textSymbols = map[string]string{
	"newline": "\n", "linebreak": "\n",
	"ss": "ß", "o": "ø", "O": "Ø", "ae": "æ", "AE": "Æ", "oe": "œ", "OE": "Œ",
	"aa": "å", "AA": "Å", "l": "ł", "L": "Ł", "i": "ı", "j": "ȷ",
	"ldots": "…", "dots": "…", "textellipsis": "…",
	"textbackslash": `\`, "textasciitilde": "~", "textasciicircum": "^", "textunderscore": "_",
	"textendash": "–", "textemdash": "—", "textbullet": "•", "textperiodcentered": "·",
	"copyright": "©", "textcopyright": "©", "textregistered": "®", "texttrademark": "™",
	"S": "§", "P": "¶", "pounds": "£", "euro": "€", "textdegree": "°",
	"LaTeX": "LaTeX", "TeX": "TeX", "LaTeXe": "LaTeX2e",
	"quad": " ", "qquad": " ", "noindent": "", "par": "\n",
}

// isTextCommand reports whether the control word is rendered by Clean.
func isTextCommand(name string) bool {
	if _, ok := textSymbols[name]; ok {
		return true
	}
	_, ok := accentMarks[name]
	return ok && isLetter(name[0])
}

// Clean normalizes a leaf text: ~ becomes a space, escaped special
// characters lose their backslash, accent commands become the accented
// character and \\ or \newline become a line break.
// Unknown commands are kept as they are.
func Clean(text string) string {
	if !strings.ContainsAny(text, `\~`) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		if c == '~' {
			b.WriteByte(' ')
			i++
			continue
		}
		if c != '\\' || i+1 >= len(text) {
			b.WriteByte(c)
			i++
			continue
		}
		name, next := readControlWord(text, i)
		switch {
		case name == `\`:
			b.WriteByte('\n')
			i = skipLineBreakOptions(text, next)
		case strings.Contains(`%&#$_{}`, name) && len(name) == 1:
			b.WriteString(name)
			i = next
		case name == " " || name == ",", name == ";", name == ":":
			b.WriteByte(' ')
			i = next
		case name == "@", name == "-", name == "/":
			i = next
		case accentMarks[name] != "":
			accented, end := readAccentTarget(text, next)
			if accented == "" {
				b.WriteString(text[i:next])
				i = next
				continue
			}
			b.WriteString(norm.NFC.String(accented + accentMarks[name]))
			i = end
		case textSymbols[name] != "" || isEmptySymbol(name):
			b.WriteString(textSymbols[name])
			i = next
			if strings.HasPrefix(text[i:], "{}") {
				i += 2
			}
		default:
			b.WriteString(text[i:next])
			i = next
		}
	}
	return b.String()
}

func isEmptySymbol(name string) bool {
	v, ok := textSymbols[name]
	return ok && v == ""
}

// skipLineBreakOptions skips the star and spacing argument of \\.
func skipLineBreakOptions(s string, i int) int {
	if i < len(s) && s[i] == '*' {
		i++
	}
	if _, next, ok := readOptional(s, i); ok {
		return next
	}
	return i
}

// readAccentTarget reads the letter an accent applies to: {e}, e, \i or,
// after a letter accent like \c, an optional space before the letter.
func readAccentTarget(s string, i int) (target string, next int) {
	if i < len(s) && s[i] == ' ' {
		i++
	}
	if i >= len(s) {
		return "", i
	}
	switch s[i] {
	case '{':
		content, end, ok := readGroup(s, i)
		if !ok {
			return "", i
		}
		content = strings.TrimSpace(content)
		switch content {
		case `\i`:
			content = "i"
		case `\j`:
			content = "j"
		}
		return content, end
	case '\\':
		name, end := readControlWord(s, i)
		switch name {
		case "i":
			return "i", end
		case "j":
			return "j", end
		}
		return "", i
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i : i+size], i + size
}
