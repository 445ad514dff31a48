package texdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseBody(t *testing.T, body string) ([]Block, *Converter) {
	t.Helper()
	c, _ := newTestConverter(t, DefaultOptions())
	return c.ParseBody(body), c
}

func TestParseBodyParagraphs(t *testing.T) {
	blocks, _ := parseBody(t, "Hello\nworld.\n\n  \nSecond \\textbf{one}.\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, &Paragraph{Kind: NormalParagraph, Content: []Run{textRun("Hello world.")}}, blocks[0])
	assert.Equal(t, &Paragraph{
		Kind:    NormalParagraph,
		Content: []Run{textRun("Second "), styledRun("one", Formatting{Bold: true}), textRun(".")},
	}, blocks[1])
}

func TestParseBodyHeadings(t *testing.T) {
	blocks, _ := parseBody(t, "\\section{Intro}\nText.\n\\subsection*{Details}\n\\subsubsection[short]{Deep \\emph{dive}}")
	require.Len(t, blocks, 4)

	h1 := blocks[0].(*Paragraph)
	assert.Equal(t, "heading1", h1.BlockType())
	assert.Equal(t, []Run{textRun("Intro")}, h1.Content)
	assert.False(t, h1.Unnumbered)

	assert.Equal(t, "normal", blocks[1].BlockType())

	h2 := blocks[2].(*Paragraph)
	assert.Equal(t, "heading2", h2.BlockType())
	assert.True(t, h2.Unnumbered)

	h3 := blocks[3].(*Paragraph)
	assert.Equal(t, 3, h3.Level)
	assert.Equal(t, []Run{textRun("Deep "), styledRun("dive", Formatting{Italic: true})}, h3.Content)
}

func TestParseBodyItemize(t *testing.T) {
	blocks, _ := parseBody(t, "\\begin{itemize}\n  \\item One\n  \\item Two\n  \\item \\textbf{Three}\n\\end{itemize}")
	require.Len(t, blocks, 1)
	list, ok := blocks[0].(*List)
	require.True(t, ok)
	assert.Equal(t, BulletList, list.Type)
	assert.Equal(t, 0, list.Level)
	require.Len(t, list.Items, 3)
	assert.Equal(t, &ListItem{Text: "One"}, list.Items[0])
	assert.Equal(t, &ListItem{Text: "Two"}, list.Items[1])
	assert.Equal(t, &ListItem{Text: "Three", Formatting: &Formatting{Bold: true}}, list.Items[2])
}

func TestParseBodyNestedList(t *testing.T) {
	src := `\begin{enumerate}
\item First
  \begin{itemize}
  \item Inner
  \end{itemize}
\item Mixed \emph{runs}
\end{enumerate}`
	blocks, _ := parseBody(t, src)
	require.Len(t, blocks, 1)
	list := blocks[0].(*List)
	assert.Equal(t, NumberedList, list.Type)
	require.Len(t, list.Items, 2)

	first := list.Items[0]
	assert.Equal(t, "First", first.Text)
	require.NotNil(t, first.Sublist)
	assert.Equal(t, BulletList, first.Sublist.Type)
	assert.Equal(t, 1, first.Sublist.Level)
	assert.Equal(t, []*ListItem{{Text: "Inner"}}, first.Sublist.Items)

	second := list.Items[1]
	assert.Equal(t, "Mixed runs", second.Text)
	assert.Equal(t, []Run{textRun("Mixed "), styledRun("runs", Formatting{Italic: true})}, second.Content)
}

func TestParseBodyItemWithSeveralNestedLists(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantType     ListType
		wantItems    []*ListItem
		wantWarnings int
	}{
		{
			name:      "same type",
			in:        `\begin{itemize}\item A \begin{itemize}\item x\end{itemize} mid \begin{itemize}\item y\end{itemize}\end{itemize}`,
			wantType:  BulletList,
			wantItems: []*ListItem{{Text: "x"}, {Text: "y"}},
		},
		{
			name:         "different types",
			in:           `\begin{itemize}\item A \begin{itemize}\item x\end{itemize} mid \begin{enumerate}\item y\end{enumerate}\end{itemize}`,
			wantType:     BulletList,
			wantItems:    []*ListItem{{Text: "x"}, {Text: "y"}},
			wantWarnings: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, c := parseBody(t, tt.in)
			require.Len(t, blocks, 1)
			list := blocks[0].(*List)
			require.Len(t, list.Items, 1)
			item := list.Items[0]
			assert.Equal(t, "A mid", item.Text)
			require.NotNil(t, item.Sublist)
			assert.Equal(t, tt.wantType, item.Sublist.Type)
			assert.Equal(t, 1, item.Sublist.Level)
			assert.Equal(t, tt.wantItems, item.Sublist.Items)
			assert.Len(t, c.Warnings(), tt.wantWarnings)
		})
	}
}

func TestParseBodyDescription(t *testing.T) {
	blocks, _ := parseBody(t, "\\begin{description}\\item[Term] meaning\\end{description}")
	require.Len(t, blocks, 1)
	item := blocks[0].(*List).Items[0]
	assert.Equal(t, "Term meaning", item.Text)
	assert.Equal(t, []Run{styledRun("Term", Formatting{Bold: true}), textRun(" meaning")}, item.Content)
}

func TestParseBodyTables(t *testing.T) {
	src := `\begin{table}[h]
\centering
\caption{Results}
\label{tab:r}
\begin{tabular}{|l|r|}
\hline
Name & \textbf{Value} \\ \hline
\multicolumn{2}{c}{Total} \\
a & \\
\hline
\end{tabular}
\end{table}`
	blocks, _ := parseBody(t, src)
	require.Len(t, blocks, 1)
	table := blocks[0].(*Table)
	assert.Equal(t, "table", table.Environment)
	assert.Equal(t, "|l|r|", table.ColumnSpec)
	assert.Equal(t, []Run{textRun("Results")}, table.Caption)
	assert.Equal(t, "tab:r", table.Label)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, [][]Run{{textRun("Name")}, {styledRun("Value", Formatting{Bold: true})}}, table.Rows[0].Cells)
	assert.Equal(t, [][]Run{{textRun("Total")}}, table.Rows[1].Cells)
	assert.Equal(t, [][]Run{{textRun("a")}, {}}, table.Rows[2].Cells)
}

func TestParseBodyEmptyTable(t *testing.T) {
	blocks, _ := parseBody(t, "\\begin{tabular}{ll}\n\\hline\n\\end{tabular}")
	require.Len(t, blocks, 1)
	table := blocks[0].(*Table)
	assert.Equal(t, "tabular", table.Environment)
	assert.NotNil(t, table.Rows)
	assert.Len(t, table.Rows, 0)

	data, err := table.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data":[]`)
}

func TestParseBodyTableFloatWithoutTabular(t *testing.T) {
	blocks, _ := parseBody(t, "\\begin{table}\\caption{Nothing}\\end{table}")
	require.Len(t, blocks, 1)
	table := blocks[0].(*Table)
	assert.Equal(t, []*TableRow{}, table.Rows)
	assert.Equal(t, []Run{textRun("Nothing")}, table.Caption)
}

func TestParseBodyLongtable(t *testing.T) {
	blocks, _ := parseBody(t, "\\begin{longtable}{ll}\n\\caption{Long}\\label{tab:l}\\\\\nx & y \\\\\n\\end{longtable}")
	require.Len(t, blocks, 1)
	table := blocks[0].(*Table)
	assert.Equal(t, []Run{textRun("Long")}, table.Caption)
	assert.Equal(t, "tab:l", table.Label)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, [][]Run{{textRun("x")}, {textRun("y")}}, table.Rows[0].Cells)
}

func TestParseBodyFigureMissingImage(t *testing.T) {
	src := `\begin{figure}[ht]
\centering
\includegraphics[width=0.5\textwidth]{missing}
\caption{A \emph{cat}}
\label{fig:cat}
\end{figure}`
	blocks, c := parseBody(t, src)
	require.Len(t, blocks, 1)
	p := blocks[0].(*Paragraph)
	require.NotNil(t, p.Formatting)
	assert.Equal(t, "center", p.Formatting.Alignment)
	require.Len(t, p.Content, 1)
	assert.Equal(t, &ImageRun{
		Path:                "missing",
		Width:               3.25,
		PreserveAspectRatio: true,
		Caption:             "A cat",
		AltText:             "A cat",
		Found:               false,
	}, p.Content[0])

	warnings := c.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "image not found", warnings[0].Msg)
}

func TestParseBodyFigureSizes(t *testing.T) {
	tests := []struct {
		name       string
		options    string
		wantWidth  float64
		wantHeight float64
	}{
		{name: "natural size", options: "", wantWidth: 2, wantHeight: 1},
		{name: "scaled", options: "scale=0.5", wantWidth: 1, wantHeight: 0.5},
		{name: "width keeps aspect", options: "width=4in", wantWidth: 4, wantHeight: 2},
		{name: "height keeps aspect", options: "height=2.54cm", wantWidth: 2, wantHeight: 1},
		{name: "both given", options: "width=1in,height=3in", wantWidth: 1, wantHeight: 3},
		{name: "relative width", options: `width=\linewidth`, wantWidth: 6.5, wantHeight: 3.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, images := newTestConverter(t, DefaultOptions())
			images.sizes["plot"] = [2]float64{192, 96}
			blocks := c.ParseBody(`\begin{figure}\includegraphics[` + tt.options + `]{plot}\end{figure}`)
			require.Len(t, blocks, 1)
			img := blocks[0].(*Paragraph).Content[0].(*ImageRun)
			assert.True(t, img.Found)
			assert.Equal(t, "images/plot", img.Path)
			assert.InDelta(t, tt.wantWidth, img.Width, 1e-4)
			assert.InDelta(t, tt.wantHeight, img.Height, 1e-4)
			assert.Nil(t, blocks[0].(*Paragraph).Formatting)
			assert.Empty(t, c.Warnings())
		})
	}
}

func TestParseBodyWideImageIsCapped(t *testing.T) {
	c, images := newTestConverter(t, DefaultOptions())
	images.sizes["wide"] = [2]float64{1248, 96}
	runs := c.ParseInline(`\includegraphics{wide}`, Formatting{})
	require.Len(t, runs, 1)
	img := runs[0].(*ImageRun)
	assert.InDelta(t, 6.5, img.Width, 1e-4)
	assert.InDelta(t, 0.5, img.Height, 1e-4)
	assert.Equal(t, "wide", img.AltText)
}

func TestParseBodyFigureWithoutImage(t *testing.T) {
	blocks, c := parseBody(t, `\begin{figure}\caption{Only words}\end{figure}`)
	require.Len(t, blocks, 1)
	assert.Equal(t, []Run{styledRun("Only words", Formatting{Italic: true})}, blocks[0].(*Paragraph).Content)
	require.Len(t, c.Warnings(), 1)
	assert.Equal(t, "figure without image", c.Warnings()[0].Msg)
}

func TestParseBodyBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Block
	}{
		{
			name: "page breaks",
			in:   "a\n\\newpage\nb\\clearpage",
			want: []Block{
				&Paragraph{Content: []Run{textRun("a")}},
				&PageBreak{Command: "newpage"},
				&Paragraph{Content: []Run{textRun("b")}},
				&PageBreak{Command: "clearpage"},
			},
		},
		{
			name: "quotation",
			in:   "\\begin{quote}\nSaid\nonce.\n\\end{quote}",
			want: []Block{&Paragraph{
				Content:    []Run{textRun("Said once.")},
				Formatting: &ParagraphFormatting{LeftIndent: 0.5, RightIndent: 0.5},
			}},
		},
		{
			name: "verbatim",
			in:   "\\begin{verbatim}\n  x = 1 % kept\n\\textbf{raw}\n\\end{verbatim}",
			want: []Block{&Paragraph{Content: []Run{
				styledRun("  x = 1 % kept\n\\textbf{raw}", Formatting{FontName: MonospaceFont}),
			}}},
		},
		{
			name: "display math",
			in:   "\\begin{equation}\nE = mc^2\n\\end{equation}",
			want: []Block{&Paragraph{
				Content:    []Run{textRun("E = mc^2")},
				Formatting: &ParagraphFormatting{Alignment: "center"},
			}},
		},
		{
			name: "dollar math stays in paragraph",
			in:   "Value $$\\section{x}$$ here",
			want: []Block{&Paragraph{Content: []Run{textRun("Value $$\\section{x}$$ here")}}},
		},
		{
			name: "alignment environment",
			in:   "\\begin{flushright}\nSigned\n\\end{flushright}",
			want: []Block{&Paragraph{
				Content:    []Run{textRun("Signed")},
				Formatting: &ParagraphFormatting{Alignment: "right"},
			}},
		},
		{
			name: "transparent environment",
			in:   "\\begin{minipage}[t]{0.5\\textwidth}\nInside\n\\end{minipage}",
			want: []Block{&Paragraph{Content: []Run{textRun("Inside")}}},
		},
		{
			name: "comment environment",
			in:   "Keep\n\\begin{comment}\nDrop\n\\end{comment}",
			want: []Block{&Paragraph{Content: []Run{textRun("Keep")}}},
		},
		{
			name: "table of contents",
			in:   "\\tableofcontents",
			want: []Block{&Paragraph{Content: []Run{&FieldRun{FieldCode: tocFieldCode, DisplayText: "Table of Contents"}}}},
		},
		{
			name: "maketitle dropped",
			in:   "\\maketitle\nBody",
			want: []Block{&Paragraph{Content: []Run{textRun("Body")}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, _ := parseBody(t, tt.in)
			assert.Equal(t, tt.want, blocks)
		})
	}
}

func TestParseBodyBibliography(t *testing.T) {
	blocks, _ := parseBody(t, "\\addbibresource{refs.bib}\n\\printbibliography[title=Sources]")
	require.Len(t, blocks, 1)
	assert.Equal(t, &Bibliography{
		Kind:      BibliographyPrint,
		Command:   "printbibliography",
		Files:     []string{"refs.bib"},
		Options:   map[string]string{"title": "Sources"},
		FieldCode: zoteroBibliography,
	}, blocks[0])

	blocks, _ = parseBody(t, "\\bibliographystyle{plain}\n\\bibliography{a, b}")
	require.Len(t, blocks, 1)
	assert.Equal(t, &Bibliography{
		Kind:    BibliographyImport,
		Command: "bibliography",
		Files:   []string{"a", "b"},
		Options: map[string]string{"style": "plain"},
	}, blocks[0])
}

func TestParseBodyMacros(t *testing.T) {
	src := `\newcommand{\name}{World}
\newcommand{\pair}[2]{#1 and #2}
Hello \name! \pair{x}{\textbf{y}}
\begin{verbatim}
\name
\end{verbatim}`
	blocks, c := parseBody(t, src)
	require.Len(t, blocks, 2)
	assert.Equal(t, []Run{textRun("Hello World! x and "), styledRun("y", Formatting{Bold: true})}, blocks[0].(*Paragraph).Content)
	assert.Equal(t, []Run{styledRun(`\name`, Formatting{FontName: MonospaceFont})}, blocks[1].(*Paragraph).Content)
	assert.Equal(t, 2, c.Macros().Len())
}
