package texdoc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hesusruiz/texdoc/sliceedit"
)

// Metadata is what the preamble tells about the document.
type Metadata struct {
	Title     string // plain text
	Author    string // plain text
	TitleRuns []Run
}

var reAuthorSeparator = regexp.MustCompile(`\s*\\and\b\s*`)

// ParsePreamble registers the macro and color definitions, the graphics
// paths and the page geometry found in text, and returns the title and author.
func (c *Converter) ParsePreamble(text string) Metadata {
	text = c.extractDefinitions(text)

	var meta Metadata
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		name, next := readControlWord(text, i)
		switch name {
		case "title":
			j := next
			if _, k, ok := readOptionalArg(text, j); ok {
				j = k
			}
			arg, end, ok := readArg(text, j)
			if !ok {
				continue
			}
			meta.TitleRuns = c.ParseInline(normalizeSpace(c.expander.Expand(arg)), Formatting{})
			meta.Title = plainMetadata(meta.TitleRuns)
			i = end - 1
		case "author":
			j := next
			if _, k, ok := readOptionalArg(text, j); ok {
				j = k
			}
			arg, end, ok := readArg(text, j)
			if !ok {
				continue
			}
			arg = reAuthorSeparator.ReplaceAllString(c.expander.Expand(arg), ", ")
			meta.Author = plainMetadata(c.ParseInline(normalizeSpace(arg), Formatting{}))
			i = end - 1
		case "graphicspath":
			arg, end, ok := readArg(text, next)
			if !ok {
				continue
			}
			c.graphicsPaths = append(c.graphicsPaths, parseGraphicsPath(arg)...)
			i = end - 1
		case "documentclass":
			if opts, _, ok := readOptionalArg(text, next); ok {
				c.applyClassOptions(parseKeyValues(opts))
			}
		case "usepackage":
			opts, k, hasOpts := readOptionalArg(text, next)
			pkgs, end, ok := readArg(text, k)
			if !ok {
				continue
			}
			if hasOpts && containsString(splitList(pkgs), "geometry") {
				c.applyGeometry(parseKeyValues(opts))
			}
			i = end - 1
		case "geometry":
			arg, end, ok := readArg(text, next)
			if !ok {
				continue
			}
			c.applyGeometry(parseKeyValues(arg))
			i = end - 1
		case "addbibresource":
			if _, k, ok := readOptionalArg(text, next); ok {
				next = k
			}
			arg, end, ok := readArg(text, next)
			if !ok {
				continue
			}
			c.bibResources = append(c.bibResources, strings.TrimSpace(arg))
			i = end - 1
		case "bibliographystyle":
			arg, end, ok := readArg(text, next)
			if !ok {
				continue
			}
			c.bibStyle = strings.TrimSpace(arg)
			i = end - 1
		case `\`:
			i = next - 1
		}
	}
	return meta
}

// plainMetadata is the single line form of runs used for document properties.
func plainMetadata(runs []Run) string {
	return strings.Join(strings.Fields(PlainText(runs)), " ")
}

// parseGraphicsPath splits "{figs/}{img/}" into its prefixes.
func parseGraphicsPath(arg string) []string {
	var out []string
	j := skipArgSpace(arg, 0)
	for j < len(arg) && arg[j] == '{' {
		p, next, ok := readGroup(arg, j)
		if !ok {
			break
		}
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
		j = skipArgSpace(arg, next)
	}
	if len(out) == 0 && strings.TrimSpace(arg) != "" {
		out = append(out, strings.TrimSpace(arg))
	}
	return out
}

func (c *Converter) applyClassOptions(opts map[string]string) {
	for key := range opts {
		switch key {
		case "landscape":
			c.layout.Orientation = "landscape"
		case "10pt", "11pt", "12pt":
			c.fontSize, _ = strconv.ParseFloat(strings.TrimSuffix(key, "pt"), 64)
		}
	}
}

// applyGeometry reads the margins and orientation options of the geometry package.
func (c *Converter) applyGeometry(opts map[string]string) {
	m := &c.layout.Margins
	targets := map[string][]*float64{
		"margin":  {&m.Top, &m.Bottom, &m.Left, &m.Right},
		"hmargin": {&m.Left, &m.Right},
		"vmargin": {&m.Top, &m.Bottom},
		"top":     {&m.Top}, "tmargin": {&m.Top},
		"bottom": {&m.Bottom}, "bmargin": {&m.Bottom},
		"left": {&m.Left}, "lmargin": {&m.Left}, "inner": {&m.Left},
		"right": {&m.Right}, "rmargin": {&m.Right}, "outer": {&m.Right},
	}
	// margin goes first so that specific sides override it
	for _, key := range []string{"margin", "hmargin", "vmargin", "top", "tmargin", "bottom", "bmargin", "left", "lmargin", "inner", "right", "rmargin", "outer"} {
		value, ok := opts[key]
		if !ok {
			continue
		}
		inches, valid := parseLength(value, c.metrics())
		if !valid {
			c.warn("malformed dimension in page geometry", "option", key, "value", value)
			continue
		}
		for _, t := range targets[key] {
			*t = inches
		}
	}
	if _, ok := opts["landscape"]; ok {
		c.layout.Orientation = "landscape"
	}
	if _, ok := opts["portrait"]; ok {
		c.layout.Orientation = "portrait"
	}
}

func (c *Converter) metrics() Metrics {
	return Metrics{TextWidth: c.opts.TextWidth, FontSize: c.fontSize}
}

// definitionCommands register macros or colors and produce no output.
var definitionCommands = map[string]bool{
	"newcommand": true, "renewcommand": true, "providecommand": true,
	"DeclareRobustCommand": true, "def": true, "definecolor": true,
}

// extractDefinitions registers every macro and color definition in text and
// returns text without them.
func (c *Converter) extractDefinitions(text string) string {
	if !strings.Contains(text, `\`) {
		return text
	}
	protected := protectedRegions(text)
	buf := sliceedit.NewBufferString(text)
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		name, next := readControlWord(text, i)
		if name == `\` {
			i = next - 1
			continue
		}
		if !definitionCommands[name] || inRegions(protected, i) {
			continue
		}
		var end int
		switch name {
		case "definecolor":
			end = c.defineColor(text, next)
		case "def":
			end = c.defineTeXMacro(text, next)
		default:
			end = c.defineMacro(text, name, next)
		}
		if end > next {
			buf.Delete(i, end)
			i = end - 1
		}
	}
	return buf.String()
}

// defineMacro parses \newcommand{\name}[n]{template} and its variants from
// pos, just after the command name, and returns the end of the definition.
func (c *Converter) defineMacro(s, command string, pos int) int {
	j := pos
	if j < len(s) && s[j] == '*' {
		j++
	}
	j = skipArgSpace(s, j)
	var name string
	switch {
	case j < len(s) && s[j] == '{':
		content, next, ok := readGroup(s, j)
		if !ok {
			return pos
		}
		name, j = strings.TrimSpace(content), next
	case j < len(s) && s[j] == '\\':
		word, next := readControlWord(s, j)
		name, j = `\`+word, next
	default:
		return pos
	}
	if !strings.HasPrefix(name, `\`) || len(name) < 2 {
		c.warn("malformed macro definition", "command", command, "name", name)
		return pos
	}

	argCount := 0
	rejected := false
	if count, next, ok := readOptionalArg(s, j); ok {
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 || n > 9 {
			c.warn("malformed macro argument count", "name", name, "count", count)
			rejected = true
		}
		argCount, j = n, next
		if _, next, ok := readOptionalArg(s, j); ok {
			c.info("macro with optional argument not supported, definition ignored", "name", name)
			rejected = true
			j = next
		}
	}

	template, end, ok := readArg(s, j)
	if !ok {
		c.warn("macro definition without body", "name", name)
		return j
	}
	if rejected {
		return end
	}
	if command == "providecommand" && c.macros.Has(name[1:]) {
		return end
	}
	c.macros.Define(name, argCount, template)
	return end
}

// defineTeXMacro parses \def\name#1#2{template}.
func (c *Converter) defineTeXMacro(s string, pos int) int {
	j := skipArgSpace(s, pos)
	word, next := readControlWord(s, j)
	if word == "" || !isLetter(word[0]) {
		return pos
	}
	j = next
	argCount := 0
	for j < len(s) && s[j] != '{' {
		if s[j] == '#' && j+1 < len(s) && s[j+1] >= '1' && s[j+1] <= '9' {
			argCount++
			j += 2
			continue
		}
		if s[j] == '\n' {
			return pos
		}
		j++
	}
	template, end, ok := readGroup(s, j)
	if !ok {
		return pos
	}
	c.macros.Define(word, argCount, template)
	return end
}

// defineColor parses \definecolor{name}{model}{spec}. Malformed definitions
// are removed from the text but not registered.
func (c *Converter) defineColor(s string, pos int) int {
	name, j, ok := readArg(s, pos)
	if !ok {
		return pos
	}
	model, j, ok := readArg(s, j)
	if !ok {
		return pos
	}
	spec, end, ok := readArg(s, j)
	if !ok {
		return pos
	}
	if err := c.colors.Define(name, model, spec); err != nil {
		c.warn("color definition dropped", "name", name, "model", model, "spec", spec, "error", err)
	}
	return end
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// normalizeSpace turns every run of white space holding a line break into a
// single blank, as TeX does inside a paragraph.
func normalizeSpace(s string) string {
	if !strings.Contains(s, "\n") {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if !isSpace(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if strings.ContainsRune(s[i:j], '\n') {
			b.WriteByte(' ')
		} else {
			b.WriteString(s[i:j])
		}
		i = j
	}
	return strings.TrimSpace(b.String())
}
