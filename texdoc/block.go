package texdoc

import (
	"regexp"
	"strings"
)

var headingLevels = map[string]int{
	"section":       1,
	"subsection":    2,
	"subsubsection": 3,
}

var pageBreakCommands = map[string]bool{
	"newpage": true, "clearpage": true, "pagebreak": true, "cleardoublepage": true,
}

// mathEnvironments are passed through as literal text.
var mathEnvironments = map[string]bool{
	"equation": true, "equation*": true, "align": true, "align*": true,
	"gather": true, "gather*": true, "multline": true, "multline*": true,
	"eqnarray": true, "eqnarray*": true, "displaymath": true, "math": true,
	"flalign": true, "flalign*": true,
}

var alignmentEnvironments = map[string]string{
	"center":      "center",
	"flushleft":   "left",
	"flushright":  "right",
	"raggedright": "left",
}

const (
	tocFieldCode     = `TOC \o "1-3" \h \z \u`
	figuresFieldCode = `TOC \h \z \c "Figure"`
	tablesFieldCode  = `TOC \h \z \c "Table"`
)

var reBlankLine = regexp.MustCompile(`\n[ \t]*\n\s*`)

// ParseBody splits the body of a document into blocks, in document order.
// Comments are removed, definitions are registered and macros are expanded
// before the blocks are located.
func (c *Converter) ParseBody(text string) []Block {
	text = StripComments(text)
	text = c.extractDefinitions(text)
	text = c.expander.Expand(text)
	return c.parseBlocks(text)
}

// parseBlocks locates the block level constructs of s. The text between
// them is split into paragraphs.
func (c *Converter) parseBlocks(s string) []Block {
	var blocks []Block
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '$':
			if end := mathEnd(s, i); end > i+1 {
				i = end - 1
			}
			continue
		case '\\':
		default:
			continue
		}
		name, next := readControlWord(s, i)
		if name == `\` || name == "$" {
			i = next - 1
			continue
		}
		found, end, ok := c.blockCommand(s, name, next)
		if !ok {
			continue
		}
		blocks = append(blocks, c.paragraphs(s[last:i])...)
		blocks = append(blocks, found...)
		last = end
		i = end - 1
	}
	return append(blocks, c.paragraphs(s[last:])...)
}

// blockCommand handles the command \name ending at next, if it starts a block.
// It returns the blocks produced, possibly none, and where scanning resumes.
func (c *Converter) blockCommand(s, name string, next int) ([]Block, int, bool) {
	if level, ok := headingLevels[name]; ok {
		return c.heading(s, level, next)
	}
	if pageBreakCommands[name] {
		end := next
		if _, k, ok := readOptional(s, end); ok {
			end = k
		}
		return []Block{&PageBreak{Command: name}}, end, true
	}

	switch name {
	case "begin":
		return c.environment(s, next)

	case "bibliography":
		arg, end, ok := readArg(s, next)
		if !ok {
			return nil, next, false
		}
		b := &Bibliography{Kind: BibliographyImport, Command: name, Files: splitList(arg)}
		if c.bibStyle != "" {
			b.Options = map[string]string{"style": c.bibStyle}
		}
		return []Block{b}, end, true

	case "printbibliography":
		end := next
		b := &Bibliography{Kind: BibliographyPrint, Command: name, FieldCode: zoteroBibliography}
		if opts, k, ok := readOptionalArg(s, next); ok {
			b.Options = parseKeyValues(opts)
			end = k
		}
		if len(c.bibResources) > 0 {
			b.Files = append([]string(nil), c.bibResources...)
		}
		return []Block{b}, end, true

	case "addbibresource", "bibliographystyle":
		j := next
		if _, k, ok := readOptionalArg(s, j); ok {
			j = k
		}
		arg, end, ok := readArg(s, j)
		if !ok {
			return nil, next, false
		}
		if name == "bibliographystyle" {
			c.bibStyle = strings.TrimSpace(arg)
		} else {
			c.bibResources = append(c.bibResources, strings.TrimSpace(arg))
		}
		return nil, end, true

	case "tableofcontents":
		return []Block{fieldParagraph(tocFieldCode, "Table of Contents")}, next, true
	case "listoffigures":
		return []Block{fieldParagraph(figuresFieldCode, "List of Figures")}, next, true
	case "listoftables":
		return []Block{fieldParagraph(tablesFieldCode, "List of Tables")}, next, true

	case "maketitle", "appendix":
		return nil, next, true
	}
	return nil, next, false
}

func fieldParagraph(code, display string) *Paragraph {
	return &Paragraph{Kind: NormalParagraph, Content: []Run{&FieldRun{FieldCode: code, DisplayText: display}}}
}

// heading parses \section*[short]{title}.
func (c *Converter) heading(s string, level, next int) ([]Block, int, bool) {
	j := next
	unnumbered := false
	if j < len(s) && s[j] == '*' {
		unnumbered = true
		j++
	}
	if _, k, ok := readOptionalArg(s, j); ok {
		j = k
	}
	title, end, ok := readArg(s, j)
	if !ok {
		return nil, next, false
	}
	p := &Paragraph{
		Kind:       HeadingParagraph,
		Level:      level,
		Content:    trimRuns(c.ParseInline(normalizeSpace(title), Formatting{})),
		Unnumbered: unnumbered,
	}
	return []Block{p}, end, true
}

// environment handles \begin{name}...\end{name}; pos is just after \begin.
func (c *Converter) environment(s string, pos int) ([]Block, int, bool) {
	name, from, ok := readArg(s, pos)
	if !ok {
		return nil, pos, false
	}
	name = strings.TrimSpace(name)
	nested := !containsString(verbatimEnvironments, name)
	contentEnd, end, closed := findEnvironmentEnd(s, name, from, nested)
	if !closed {
		c.warn("environment not closed", "environment", name)
	}
	content := s[from:contentEnd]

	switch {
	case name == "figure" || name == "figure*":
		return c.figure(content), end, true
	case name == "table" || name == "table*":
		return []Block{c.tableFloat(name, content)}, end, true
	case containsString(tabularEnvironments, name):
		return []Block{c.tabular(name, content)}, end, true
	case name == "itemize" || name == "enumerate" || name == "description":
		return []Block{c.list(name, content, 0)}, end, true
	case name == "quotation" || name == "quote":
		return []Block{c.quotation(content)}, end, true
	case name == "verbatim" || name == "verbatim*" || name == "Verbatim":
		return []Block{c.verbatim(name, content)}, end, true
	case name == "lstlisting" || name == "minted":
		return c.listing(name, content), end, true
	case mathEnvironments[name]:
		return []Block{c.displayMath(content)}, end, true
	case name == "comment":
		return nil, end, true
	case alignmentEnvironments[name] != "":
		blocks := c.parseBlocks(content)
		for _, b := range blocks {
			if p, ok := b.(*Paragraph); ok && p.Formatting == nil {
				p.Formatting = &ParagraphFormatting{Alignment: alignmentEnvironments[name]}
			}
		}
		return blocks, end, true
	}

	// Other environments are transparent: their content is parsed in place.
	return c.parseBlocks(skipEnvironmentArgs(content)), end, true
}

// paragraphs splits text on blank lines and parses each paragraph.
func (c *Converter) paragraphs(text string) []Block {
	var out []Block
	for _, p := range reBlankLine.Split(text, -1) {
		p = normalizeSpace(p)
		if p == "" {
			continue
		}
		runs := trimRuns(c.ParseInline(p, Formatting{}))
		if len(runs) == 0 || isBlankRuns(runs) {
			continue
		}
		out = append(out, &Paragraph{Kind: NormalParagraph, Content: runs})
	}
	return out
}

// trimRuns removes the white space at the start of the first run and at the
// end of the last one, when they are text.
func trimRuns(runs []Run) []Run {
	if len(runs) == 0 {
		return runs
	}
	if t, ok := runs[0].(*TextRun); ok {
		runs[0] = &TextRun{Text: strings.TrimLeft(t.Text, " \t"), Formatting: t.Formatting}
	}
	if t, ok := runs[len(runs)-1].(*TextRun); ok {
		runs[len(runs)-1] = &TextRun{Text: strings.TrimRight(t.Text, " \t"), Formatting: t.Formatting}
	}
	return finalizeRuns(runs)
}

func (c *Converter) quotation(content string) *Paragraph {
	return &Paragraph{
		Kind:       NormalParagraph,
		Content:    trimRuns(c.ParseInline(normalizeSpace(content), Formatting{})),
		Formatting: &ParagraphFormatting{LeftIndent: 0.5, RightIndent: 0.5},
	}
}

// verbatim keeps the content as it is, except for the line breaks right
// after \begin and right before \end.
func (c *Converter) verbatim(name, content string) *Paragraph {
	if name == "Verbatim" {
		if _, k, ok := readOptional(content, 0); ok {
			content = content[k:]
		}
	}
	content = trimDelimiterNewlines(content)
	return &Paragraph{
		Kind:    NormalParagraph,
		Content: finalizeRuns([]Run{&TextRun{Text: content, Formatting: Formatting{FontName: MonospaceFont}}}),
	}
}

func trimDelimiterNewlines(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 && strings.TrimSpace(s[:i]) == "" {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '\n'); i >= 0 && strings.TrimSpace(s[i:]) == "" {
		s = s[:i]
	}
	return s
}

// displayMath keeps the source of a display math environment as centered text.
func (c *Converter) displayMath(content string) *Paragraph {
	return &Paragraph{
		Kind:       NormalParagraph,
		Content:    finalizeRuns([]Run{&TextRun{Text: strings.TrimSpace(content)}}),
		Formatting: &ParagraphFormatting{Alignment: "center"},
	}
}

// skipEnvironmentArgs drops the bracket and brace groups written right after
// \begin{name}, like the width of a minipage.
func skipEnvironmentArgs(content string) string {
	j := 0
	for j < len(content) {
		var k int
		var ok bool
		switch content[j] {
		case '[':
			_, k, ok = readOptional(content, j)
		case '{':
			_, k, ok = readGroup(content, j)
		}
		if !ok {
			break
		}
		j = k
	}
	return content[j:]
}
