package texdoc

import (
	"encoding/json"
	"strings"
)

// Formatting holds the character attributes of a text run.
// Attributes are independent and accumulate when spans are nested.
// Two values are equal when every attribute matches, so they can be
// compared with ==.
type Formatting struct {
	Bold        bool    `json:"bold,omitempty"`
	Italic      bool    `json:"italic,omitempty"`
	Underline   bool    `json:"underline,omitempty"`
	Strike      bool    `json:"strike,omitempty"`
	Superscript bool    `json:"superscript,omitempty"`
	Subscript   bool    `json:"subscript,omitempty"`
	FontName    string  `json:"font_name,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	Color       string  `json:"color,omitempty"`
	Highlight   string  `json:"highlight,omitempty"`
}

// IsZero reports whether no attribute is set.
func (f Formatting) IsZero() bool {
	return f == Formatting{}
}

// ParagraphFormatting is applied to a whole paragraph block.
type ParagraphFormatting struct {
	LeftIndent  float64 `json:"left_indent,omitempty"`
	RightIndent float64 `json:"right_indent,omitempty"`
	Alignment   string  `json:"alignment,omitempty"`
}

// MonospaceFont is the font used for teletype text, verbatim blocks and code listings.
const MonospaceFont = "Courier New"

// Run is a leaf content node inside a block.
type Run interface {
	RunType() string
}

// TextRun is a span of text with uniform formatting.
type TextRun struct {
	Text       string
	Formatting Formatting
}

func (r *TextRun) RunType() string { return "text" }

func (r *TextRun) MarshalJSON() ([]byte, error) {
	out := struct {
		Type       string      `json:"type"`
		Text       string      `json:"text"`
		Formatting *Formatting `json:"formatting,omitempty"`
	}{Type: r.RunType(), Text: r.Text}
	if !r.Formatting.IsZero() {
		f := r.Formatting
		out.Formatting = &f
	}
	return json.Marshal(out)
}

// CitationRun is a reference to one or more bibliography keys.
// FieldCode carries the Zotero citation field the renderer inserts in the document.
type CitationRun struct {
	Keys        []string     `json:"keys"`
	Style       string       `json:"style"`
	DisplayText string       `json:"display_text"`
	Prenote     string       `json:"prenote,omitempty"`
	Postnote    string       `json:"postnote,omitempty"`
	FieldCode   string       `json:"field_code"`
	FieldData   *CSLCitation `json:"field_data,omitempty"`
}

func (r *CitationRun) RunType() string { return "citation" }

func (r *CitationRun) MarshalJSON() ([]byte, error) {
	type alias CitationRun
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{r.RunType(), (*alias)(r)})
}

// LinkRun is a hyperlink.
type LinkRun struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

func (r *LinkRun) RunType() string { return "link" }

func (r *LinkRun) MarshalJSON() ([]byte, error) {
	type alias LinkRun
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{r.RunType(), (*alias)(r)})
}

// ImageRun is an embedded picture. Sizes are in inches, zero meaning
// that the renderer chooses.
type ImageRun struct {
	Path                string  `json:"path"`
	Width               float64 `json:"width_inches,omitempty"`
	Height              float64 `json:"height_inches,omitempty"`
	PreserveAspectRatio bool    `json:"preserve_aspect_ratio"`
	Caption             string  `json:"caption,omitempty"`
	AltText             string  `json:"alt_text,omitempty"`
	Found               bool    `json:"found"`
}

func (r *ImageRun) RunType() string { return "image" }

func (r *ImageRun) MarshalJSON() ([]byte, error) {
	type alias ImageRun
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{r.RunType(), (*alias)(r)})
}

// FieldRun is a raw word-processor field with its cached display text.
type FieldRun struct {
	FieldCode   string `json:"field_code"`
	DisplayText string `json:"display_text"`
}

func (r *FieldRun) RunType() string { return "field" }

func (r *FieldRun) MarshalJSON() ([]byte, error) {
	type alias FieldRun
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{r.RunType(), (*alias)(r)})
}

// finalizeRuns drops empty text runs and merges every maximal sequence of
// consecutive text runs sharing the same formatting.
func finalizeRuns(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		t, isText := r.(*TextRun)
		if isText && t.Text == "" {
			continue
		}
		if isText && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*TextRun); ok && prev.Formatting == t.Formatting {
				merged := *prev
				merged.Text += t.Text
				out[len(out)-1] = &merged
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// PlainText flattens runs into their visible text.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		switch v := r.(type) {
		case *TextRun:
			b.WriteString(v.Text)
		case *CitationRun:
			b.WriteString(v.DisplayText)
		case *LinkRun:
			b.WriteString(v.Text)
		case *FieldRun:
			b.WriteString(v.DisplayText)
		}
	}
	return b.String()
}

// isBlankRuns reports whether runs carry no visible content.
func isBlankRuns(runs []Run) bool {
	for _, r := range runs {
		t, ok := r.(*TextRun)
		if !ok || strings.TrimSpace(t.Text) != "" {
			return false
		}
	}
	return true
}
