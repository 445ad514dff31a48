package texdoc

import (
	"encoding/json"
	"strings"
)

const (
	cslSchemaURL       = "https://github.com/citation-style-language/schema/raw/master/csl-citation.json"
	zoteroItemPrefix   = "http://zotero.org/users/local/placeholder/items/"
	zoteroCitationCode = "ADDIN ZOTERO_ITEM CSL_CITATION "
	zoteroBibliography = `ADDIN ZOTERO_BIBL {"uncited":[],"omitted":[],"custom":[]} CSL_BIBLIOGRAPHY`
)

// CSLCitation is the payload of a Zotero citation field.
type CSLCitation struct {
	CitationID    string            `json:"citationID"`
	Properties    CSLProperties     `json:"properties"`
	CitationItems []CSLCitationItem `json:"citationItems"`
	Schema        string            `json:"schema"`
}

type CSLProperties struct {
	FormattedCitation string `json:"formattedCitation"`
	PlainCitation     string `json:"plainCitation"`
	NoteIndex         int    `json:"noteIndex"`
}

type CSLCitationItem struct {
	ID           string      `json:"id"`
	URIs         []string    `json:"uris"`
	ItemData     CSLItemData `json:"itemData"`
	Prefix       string      `json:"prefix,omitempty"`
	Suffix       string      `json:"suffix,omitempty"`
	SuppressAuth bool        `json:"suppress-author,omitempty"`
	AuthorOnly   bool        `json:"author-only,omitempty"`
}

type CSLItemData struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// citationStyle groups the citation commands by how they are displayed.
type citationStyle int

const (
	parentheticalCitation citationStyle = iota
	textualCitation
	authorCitation
	yearCitation
)

var citationStyles = map[string]citationStyle{
	"cite":        parentheticalCitation,
	"citep":       parentheticalCitation,
	"parencite":   parentheticalCitation,
	"autocite":    parentheticalCitation,
	"citeyearpar": parentheticalCitation,
	"citet":       textualCitation,
	"textcite":    textualCitation,
	"citeauthor":  authorCitation,
	"citeyear":    yearCitation,
}

func isCitationCommand(name string) bool {
	_, ok := citationStyles[name]
	return ok
}

// citationDisplay builds the text shown for a citation before the word
// processor refreshes the field.
func citationDisplay(style string, keys []string, prenote, postnote string) string {
	joined := strings.Join(keys, ", ")
	switch citationStyles[style] {
	case textualCitation:
		out := joined
		if prenote != "" {
			out += ", " + prenote
		}
		if postnote != "" {
			out += ", " + postnote
		}
		return out
	case authorCitation, yearCitation:
		return joined
	}
	inner := joined
	if prenote != "" {
		inner = prenote + "; " + inner
	}
	if postnote != "" {
		inner += ", " + postnote
	}
	return "(" + inner + ")"
}

// newCitation returns the run for a citation command.
func (c *Converter) newCitation(style string, keys []string, prenote, postnote string) *CitationRun {
	display := citationDisplay(style, keys, prenote, postnote)
	payload := &CSLCitation{
		CitationID: c.newID(),
		Properties: CSLProperties{FormattedCitation: display, PlainCitation: display},
		Schema:     cslSchemaURL,
	}
	for i, key := range keys {
		item := CSLCitationItem{
			ID:       key,
			URIs:     []string{zoteroItemPrefix + key},
			ItemData: CSLItemData{ID: key, Type: "book", Title: key},
		}
		if i == 0 {
			item.Prefix = prenote
		}
		if i == len(keys)-1 {
			item.Suffix = postnote
		}
		switch citationStyles[style] {
		case authorCitation:
			item.AuthorOnly = true
		case yearCitation:
			item.SuppressAuth = true
		}
		payload.CitationItems = append(payload.CitationItems, item)
	}
	run := &CitationRun{
		Keys:        keys,
		Style:       style,
		DisplayText: display,
		Prenote:     prenote,
		Postnote:    postnote,
		FieldData:   payload,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		c.warn("cannot encode citation field", "keys", keys, "error", err)
		return run
	}
	run.FieldCode = zoteroCitationCode + string(data)
	return run
}
