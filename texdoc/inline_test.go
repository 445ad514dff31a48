package texdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInline(t *testing.T) {
	bold := Formatting{Bold: true}
	italic := Formatting{Italic: true}
	mono := Formatting{FontName: MonospaceFont}

	tests := []struct {
		name string
		in   string
		want []Run
	}{
		{name: "plain", in: "just text", want: []Run{textRun("just text")}},
		{name: "empty", in: "", want: []Run{}},
		{
			name: "bold in the middle",
			in:   `a \textbf{b} c`,
			want: []Run{textRun("a "), styledRun("b", bold), textRun(" c")},
		},
		{
			name: "nested attributes accumulate",
			in:   `\textbf{x \textit{y}}`,
			want: []Run{styledRun("x ", bold), styledRun("y", Formatting{Bold: true, Italic: true})},
		},
		{
			name: "adjacent spans merge",
			in:   `\emph{a}\textit{b}`,
			want: []Run{styledRun("ab", italic)},
		},
		{
			name: "declaration scoped by group",
			in:   `{\bfseries bold} plain`,
			want: []Run{styledRun("bold", bold), textRun(" plain")},
		},
		{
			name: "font size declaration",
			in:   `{\large big}`,
			want: []Run{styledRun("big", Formatting{FontSize: 12})},
		},
		{name: "teletype", in: `\texttt{code}`, want: []Run{styledRun("code", mono)}},
		{
			name: "strike and underline",
			in:   `\sout{gone}\underline{here}`,
			want: []Run{styledRun("gone", Formatting{Strike: true}), styledRun("here", Formatting{Underline: true})},
		},
		{name: "wrapper", in: `\mbox{kept}`, want: []Run{textRun("kept")}},
		{name: "accents cleaned", in: "caf\\'e \\& cr\\`{e}me", want: []Run{textRun("café & crème")}},
		{name: "inline math literal", in: `$x^2$ grows`, want: []Run{textRun("$x^2$ grows")}},
		{name: "paren math literal", in: `see \(a_b\)`, want: []Run{textRun(`see \(a_b\)`)}},
		{name: "unclosed paren math", in: `see \(unclosed`, want: []Run{textRun("see unclosed")}},
		{name: "unclosed bracket math", in: `\[x`, want: []Run{textRun("x")}},
		{name: "escaped dollar", in: `\$5 and \$6`, want: []Run{textRun("$5 and $6")}},
		{name: "unknown command with argument", in: `\foo{bar} baz`, want: []Run{textRun(" baz")}},
		{name: "unknown command alone", in: `\foo baz`, want: []Run{textRun(" baz")}},
		{name: "stray brace", in: "a}b", want: []Run{textRun("ab")}},
		{name: "uppercase", in: `\MakeUppercase{abc \textbf{d}}`, want: []Run{textRun("ABC "), styledRun("D", bold)}},
		{
			name: "url",
			in:   `\url{https://example.org/a\_b}`,
			want: []Run{&LinkRun{URL: "https://example.org/a_b", Text: "https://example.org/a_b"}},
		},
		{
			name: "href",
			in:   `\href{https://example.org}{the \emph{site}}`,
			want: []Run{&LinkRun{URL: "https://example.org", Text: "the site"}},
		},
		{
			name: "reference",
			in:   `Figure~\ref{fig:one}`,
			want: []Run{textRun("Figure "), &FieldRun{FieldCode: `REF _fig_one \h`, DisplayText: "fig:one"}},
		},
		{
			name: "page reference",
			in:   `\pageref{sec}`,
			want: []Run{&FieldRun{FieldCode: `PAGEREF _sec \h`, DisplayText: "sec"}},
		},
		{name: "today", in: `\today`, want: []Run{textRun("March 5, 2024")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConverter(t, DefaultOptions())
			assert.Equal(t, tt.want, c.ParseInline(tt.in, Formatting{}))
		})
	}
}

func TestParseInlineBaseFormatting(t *testing.T) {
	c, _ := newTestConverter(t, DefaultOptions())
	base := Formatting{Italic: true}
	got := c.ParseInline(`cap \textbf{x}`, base)
	assert.Equal(t, []Run{styledRun("cap ", base), styledRun("x", Formatting{Italic: true, Bold: true})}, got)
}

func TestParseInlineColors(t *testing.T) {
	c, _ := newTestConverter(t, DefaultOptions())
	require.NoError(t, c.Colors().Define("brand", "HTML", "123456"))

	tests := []struct {
		name string
		in   string
		want []Run
	}{
		{name: "named", in: `\textcolor{red}{hot}`, want: []Run{styledRun("hot", Formatting{Color: "#FF0000"})}},
		{name: "explicit model", in: `\textcolor[rgb]{0,0.5,0}{go}`, want: []Run{styledRun("go", Formatting{Color: "#007F00"})}},
		{name: "user defined", in: `\textcolor{brand}{b}`, want: []Run{styledRun("b", Formatting{Color: "#123456"})}},
		{name: "color declaration", in: `{\color{blue}sky} sea`, want: []Run{styledRun("sky", Formatting{Color: "#0000FF"}), textRun(" sea")}},
		{name: "colorbox", in: `\colorbox{yellow}{note}`, want: []Run{styledRun("note", Formatting{Highlight: "#FFFF00"})}},
		{name: "highlighter", in: `\hl{mark}`, want: []Run{styledRun("mark", Formatting{Highlight: "#FFFF00"})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ParseInline(tt.in, Formatting{}))
		})
	}
	assert.Empty(t, c.Warnings())
}

func TestHighlighterUsesColorTable(t *testing.T) {
	c, _ := newTestConverter(t, DefaultOptions())
	require.NoError(t, c.Colors().Define("yellow", "HTML", "FFF3A0"))
	assert.Equal(t, []Run{styledRun("mark", Formatting{Highlight: "#FFF3A0"})}, c.ParseInline(`\hl{mark}`, Formatting{}))
}

func TestParseInlineBadColor(t *testing.T) {
	c, _ := newTestConverter(t, DefaultOptions())
	got := c.ParseInline(`\textcolor{nosuch}{x}\textcolor[rgb]{9,9,9}{y}`, Formatting{})
	assert.Equal(t, []Run{textRun("xy")}, got)
	require.Len(t, c.Warnings(), 2)
	assert.Equal(t, "unresolved color name", c.Warnings()[0].Msg)
	assert.Equal(t, "malformed color specification", c.Warnings()[1].Msg)
}

func TestParseInlineMarkUnhandled(t *testing.T) {
	opts := DefaultOptions()
	opts.MarkUnhandled = true
	c, _ := newTestConverter(t, opts)
	assert.Equal(t, []Run{textRun(`[Unhandled: \foo] baz`)}, c.ParseInline(`\foo baz`, Formatting{}))
}

func TestParseInlineCitations(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantStyle   string
		wantKeys    []string
		wantDisplay string
		wantPre     string
		wantPost    string
	}{
		{name: "cite", in: `\cite{a, b}`, wantStyle: "cite", wantKeys: []string{"a", "b"}, wantDisplay: "(a, b)"},
		{name: "citep", in: `\citep{a,b}`, wantStyle: "citep", wantKeys: []string{"a", "b"}, wantDisplay: "(a, b)"},
		{name: "single note is the prenote", in: `\citep[p.~5]{k}`, wantStyle: "citep", wantKeys: []string{"k"}, wantDisplay: "(p. 5; k)", wantPre: "p. 5"},
		{name: "both notes", in: `\parencite[see][ch. 2]{k}`, wantStyle: "parencite", wantKeys: []string{"k"}, wantDisplay: "(see; k, ch. 2)", wantPre: "see", wantPost: "ch. 2"},
		{name: "textual", in: `\citet{smith}`, wantStyle: "citet", wantKeys: []string{"smith"}, wantDisplay: "smith"},
		{name: "author", in: `\citeauthor{smith}`, wantStyle: "citeauthor", wantKeys: []string{"smith"}, wantDisplay: "smith"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConverter(t, DefaultOptions())
			runs := c.ParseInline(tt.in, Formatting{})
			require.Len(t, runs, 1)
			cite, ok := runs[0].(*CitationRun)
			require.True(t, ok)
			assert.Equal(t, tt.wantStyle, cite.Style)
			assert.Equal(t, tt.wantKeys, cite.Keys)
			assert.Equal(t, tt.wantDisplay, cite.DisplayText)
			assert.Equal(t, tt.wantPre, cite.Prenote)
			assert.Equal(t, tt.wantPost, cite.Postnote)
			assert.True(t, strings.HasPrefix(cite.FieldCode, zoteroCitationCode))
			require.NotNil(t, cite.FieldData)
			assert.Equal(t, "cite-1", cite.FieldData.CitationID)
			require.Len(t, cite.FieldData.CitationItems, len(tt.wantKeys))
			assert.Equal(t, zoteroItemPrefix+tt.wantKeys[0], cite.FieldData.CitationItems[0].URIs[0])
		})
	}
}

func TestParseInlineCitationWithoutKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty group", in: `See \cite{}.`},
		{name: "only separators", in: `See \cite{ , }.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConverter(t, DefaultOptions())
			runs := c.ParseInline(tt.in, Formatting{})
			assert.Equal(t, []Run{textRun("See .")}, runs)
			require.Len(t, c.Warnings(), 1)
			assert.Equal(t, "citation without keys", c.Warnings()[0].Msg)
		})
	}
}

func TestCitationRunJSON(t *testing.T) {
	c, _ := newTestConverter(t, DefaultOptions())
	runs := c.ParseInline(`\citeyear{k}`, Formatting{})
	require.Len(t, runs, 1)
	data, err := runs[0].(*CitationRun).MarshalJSON()
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"type":"citation"`)
	assert.Contains(t, s, `"keys":["k"]`)
	assert.Contains(t, s, `"suppress-author":true`)
}
