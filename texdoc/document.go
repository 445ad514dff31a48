package texdoc

import (
	"encoding/json"
	"strconv"
)

// Document is the root of the converted tree. It owns all its blocks and runs.
type Document struct {
	Properties   Properties `json:"properties"`
	TemplatePath string     `json:"template_path,omitempty"`
	PageLayout   PageLayout `json:"page_layout"`
	Content      []Block    `json:"content"`
}

// Properties is the document metadata.
type Properties struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Created string `json:"created"`
}

const (
	DefaultTitle  = "Untitled Document"
	DefaultAuthor = "Unknown Author"
)

// PageLayout describes orientation and margins (in inches).
type PageLayout struct {
	Orientation string  `json:"orientation"`
	Margins     Margins `json:"margins"`
}

type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// DefaultPageLayout is a portrait page with one inch margins.
func DefaultPageLayout() PageLayout {
	return PageLayout{
		Orientation: "portrait",
		Margins:     Margins{Top: 1.0, Bottom: 1.0, Left: 1.0, Right: 1.0},
	}
}

// Block is a top-level structural unit of the document content.
type Block interface {
	BlockType() string
}

// A ParagraphKind is the role of a paragraph block.
type ParagraphKind uint32

const (
	NormalParagraph ParagraphKind = iota
	HeadingParagraph
	TitleParagraph
)

// String returns a string representation of the ParagraphKind.
func (k ParagraphKind) String() string {
	switch k {
	case NormalParagraph:
		return "Normal"
	case HeadingParagraph:
		return "Heading"
	case TitleParagraph:
		return "Title"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// Paragraph is a normal paragraph, a heading or the title paragraph.
type Paragraph struct {
	Kind       ParagraphKind
	Level      int // heading level, 1 to 3
	Content    []Run
	Formatting *ParagraphFormatting
	Unnumbered bool // starred sectioning command
}

func (p *Paragraph) BlockType() string {
	switch p.Kind {
	case HeadingParagraph:
		return "heading" + strconv.Itoa(p.Level)
	case TitleParagraph:
		return "title_paragraph"
	}
	return "normal"
}

func (p *Paragraph) MarshalJSON() ([]byte, error) {
	content := p.Content
	if content == nil {
		content = []Run{}
	}
	return json.Marshal(struct {
		Type       string               `json:"type"`
		Content    []Run                `json:"content"`
		Formatting *ParagraphFormatting `json:"paragraph_formatting,omitempty"`
		Unnumbered bool                 `json:"unnumbered,omitempty"`
	}{p.BlockType(), content, p.Formatting, p.Unnumbered})
}

// ListType is the renderer's name for the kind of list.
type ListType string

const (
	BulletList   ListType = "bullet"
	NumberedList ListType = "number"
)

// List is an itemize, enumerate or description environment.
type List struct {
	Type  ListType
	Level int
	Items []*ListItem
}

// ListItem holds its text directly when all its runs share one formatting,
// and the mixed runs in Content otherwise.
type ListItem struct {
	Text       string      `json:"text"`
	Formatting *Formatting `json:"formatting,omitempty"`
	Content    []Run       `json:"content,omitempty"`
	Sublist    *List       `json:"sublist,omitempty"`
}

func (l *List) BlockType() string { return "list" }

func (l *List) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []*ListItem{}
	}
	return json.Marshal(struct {
		Type     string      `json:"type"`
		ListType ListType    `json:"list_type"`
		Level    int         `json:"level"`
		Items    []*ListItem `json:"items"`
	}{l.BlockType(), l.Type, l.Level, items})
}

// Table is a tabular environment, possibly wrapped in a table float.
type Table struct {
	Environment string
	ColumnSpec  string
	Caption     []Run
	Label       string
	Rows        []*TableRow
}

// TableRow is an ordered list of cells, each one a run sequence.
type TableRow struct {
	Cells [][]Run `json:"cells"`
}

func (t *Table) BlockType() string { return "table" }

func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.Rows
	if rows == nil {
		rows = []*TableRow{}
	}
	return json.Marshal(struct {
		Type        string      `json:"type"`
		Environment string      `json:"environment_type"`
		ColumnSpec  string      `json:"column_spec,omitempty"`
		Caption     []Run       `json:"caption,omitempty"`
		Label       string      `json:"label,omitempty"`
		Rows        []*TableRow `json:"data"`
	}{t.BlockType(), t.Environment, t.ColumnSpec, t.Caption, t.Label, rows})
}

// PageBreak is produced by \newpage and its relatives.
type PageBreak struct {
	Command string `json:"command"`
}

func (b *PageBreak) BlockType() string { return "page_break" }

func (b *PageBreak) MarshalJSON() ([]byte, error) {
	type alias PageBreak
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{b.BlockType(), (*alias)(b)})
}

// BibliographyKind tells a bibliography import from the place where it is printed.
type BibliographyKind string

const (
	BibliographyImport BibliographyKind = "import"
	BibliographyPrint  BibliographyKind = "print"
)

// Bibliography marks a \bibliography or \printbibliography command.
type Bibliography struct {
	Kind      BibliographyKind  `json:"kind"`
	Command   string            `json:"command"`
	Files     []string          `json:"bib_files,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	FieldCode string            `json:"field_code,omitempty"`
}

func (b *Bibliography) BlockType() string { return "bibliography" }

func (b *Bibliography) MarshalJSON() ([]byte, error) {
	type alias Bibliography
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{b.BlockType(), (*alias)(b)})
}
