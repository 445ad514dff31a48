package texdoc

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// listing renders an lstlisting or minted environment as a monospace
// paragraph colored by the configured style. A caption option becomes an
// italic paragraph before the code.
func (c *Converter) listing(env, content string) []Block {
	var language, caption string
	j := 0
	if opt, k, ok := readOptional(content, 0); ok {
		opts := parseKeyValues(opt)
		language, caption = opts["language"], opts["caption"]
		j = k
	}
	if env == "minted" {
		if arg, k, ok := readArg(content, j); ok {
			language, j = strings.TrimSpace(arg), k
		}
	}
	code := trimDelimiterNewlines(content[j:])

	var blocks []Block
	if caption != "" {
		runs := c.ParseInline(normalizeSpace(caption), Formatting{Italic: true})
		blocks = append(blocks, &Paragraph{Kind: NormalParagraph, Content: runs})
	}
	return append(blocks, &Paragraph{Kind: NormalParagraph, Content: c.highlight(code, language)})
}

// highlight tokenises code and turns every token into a text run with the
// color and weight the style gives to its type.
func (c *Converter) highlight(code, language string) []Run {
	plain := []Run{&TextRun{Text: code, Formatting: Formatting{FontName: MonospaceFont}}}

	var l chroma.Lexer
	if language != "" {
		l = lexers.Get(language)
	}
	if l == nil {
		l = lexers.Analyse(code)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	style := styles.Get(c.opts.CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	it, err := l.Tokenise(nil, code)
	if err != nil {
		c.warn("cannot tokenise code listing", "language", language, "error", err)
		return finalizeRuns(plain)
	}

	var runs []Run
	for _, token := range it.Tokens() {
		entry := style.Get(token.Type)
		f := Formatting{
			FontName:  MonospaceFont,
			Bold:      entry.Bold == chroma.Yes,
			Italic:    entry.Italic == chroma.Yes,
			Underline: entry.Underline == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			f.Color = strings.ToUpper(entry.Colour.String())
		}
		runs = append(runs, &TextRun{Text: token.Value, Formatting: f})
	}
	return finalizeRuns(runs)
}
