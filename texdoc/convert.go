package texdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hesusruiz/texdoc/sliceedit"
	"go.uber.org/zap"
)

var (
	ErrUnreadableInput = errors.New("unreadable input")
	ErrValidation      = errors.New("document does not conform to the schema")
)

// Converter turns LaTeX source into a Document. All the tables it uses
// (macros, colors, image paths) belong to the converter and are reset on
// every conversion, so independent converters can run in parallel.
// A Converter must not be used by several goroutines at once.
type Converter struct {
	opts      Options
	log       *zap.SugaredLogger
	images    ImageResolver
	validator Validator
	now       func() time.Time
	newID     func() string

	fileName      string
	baseDir       string
	macros        *MacroTable
	colors        *ColorTable
	expander      *Expander
	graphicsPaths []string
	bibResources  []string
	bibStyle      string
	fontSize      float64
	layout        PageLayout
	diagnostics   []*Diagnostic
}

// NewConverter returns a converter ready to parse, using the local filesystem
// for images and the built-in schema for validation.
func NewConverter(opts Options) *Converter {
	c := &Converter{
		opts:   opts,
		log:    zap.NewNop().Sugar(),
		images: NewFileImageResolver(),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	c.reset("")
	return c
}

// SetLogger sets the logger that receives the diagnostics.
func (c *Converter) SetLogger(logger *zap.SugaredLogger) {
	if logger != nil {
		c.log = logger
	}
}

func (c *Converter) SetImageResolver(r ImageResolver) {
	c.images = r
}

// SetValidator replaces the schema validation collaborator. A nil validator disables validation.
func (c *Converter) SetValidator(v Validator) {
	if v == nil {
		v = NopValidator{}
	}
	c.validator = v
}

// SetClock sets the time source used for the creation date and \today.
func (c *Converter) SetClock(now func() time.Time) {
	c.now = now
}

// Macros returns the macro table of the current conversion.
func (c *Converter) Macros() *MacroTable { return c.macros }

// Colors returns the color table of the current conversion.
func (c *Converter) Colors() *ColorTable { return c.colors }

// GraphicsPaths returns the image search prefixes declared by \graphicspath.
func (c *Converter) GraphicsPaths() []string { return c.graphicsPaths }

func (c *Converter) reset(fileName string) {
	c.fileName = fileName
	c.baseDir = "."
	if fileName != "" {
		c.baseDir = filepath.Dir(fileName)
	}
	c.macros = NewMacroTable()
	c.colors = NewColorTable()
	c.expander = NewExpander(c.macros, c.opts.MaxExpansion)
	c.graphicsPaths = nil
	c.bibResources = nil
	c.bibStyle = ""
	c.fontSize = c.opts.FontSize
	if c.fontSize <= 0 {
		c.fontSize = 10
	}
	c.layout = c.opts.PageLayout
	if c.layout.Orientation == "" {
		c.layout = DefaultPageLayout()
	}
	c.diagnostics = nil
}

// ConvertFile reads and converts a file. Failing to read it is the only fatal error.
func (c *Converter) ConvertFile(fileName string) (*Document, error) {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableInput, err)
	}
	return c.Convert(fileName, src)
}

// Convert converts LaTeX source. fileName is used in diagnostics and as the
// base directory for images.
// The document is returned even when it fails schema validation; in strict
// mode the error wrapping ErrValidation is returned with it.
func (c *Converter) Convert(fileName string, src []byte) (*Document, error) {
	c.reset(fileName)

	text := StripComments(normalizeSource(src))

	preamble, body, found := splitDocument(text)
	if !found {
		c.info("no document environment, converting the whole file as body")
		preamble, body = text, text
	}

	meta := c.ParsePreamble(preamble)

	doc := &Document{
		Properties: Properties{
			Title:   DefaultTitle,
			Author:  DefaultAuthor,
			Subject: c.opts.Subject,
			Created: c.now().UTC().Format("2006-01-02T15:04:05Z"),
		},
		TemplatePath: c.opts.TemplatePath,
	}
	if meta.Title != "" {
		doc.Properties.Title = meta.Title
		doc.Content = append(doc.Content, &Paragraph{Kind: TitleParagraph, Content: meta.TitleRuns})
	}
	if meta.Author != "" {
		doc.Properties.Author = meta.Author
	}

	doc.Content = append(doc.Content, c.ParseBody(body)...)
	doc.PageLayout = c.layout

	normalizeDocument(doc)

	if err := c.validate(doc); err != nil {
		if c.opts.Strict {
			return doc, err
		}
	}
	return doc, nil
}

// ConvertFromBytes converts src with the default options.
func ConvertFromBytes(fileName string, src []byte) (*Document, error) {
	return NewConverter(DefaultOptions()).Convert(fileName, src)
}

// ConvertFromFile converts a file with the default options.
func ConvertFromFile(fileName string) (*Document, error) {
	return NewConverter(DefaultOptions()).ConvertFile(fileName)
}

// normalizeSource removes byte order marks and turns CRLF and lone CR line
// endings into LF.
func normalizeSource(src []byte) string {
	buf := sliceedit.NewBuffer(src)
	buf.DeleteAllString("\uFEFF")
	buf.ReplaceAllString("\r\n", "\n")
	// the CR of a CRLF is already queued and refused here
	buf.ReplaceAllString("\r", "\n")
	if buf.Edits() == 0 {
		return string(src)
	}
	return buf.String()
}

// splitDocument separates the preamble from the content of the document environment.
func splitDocument(text string) (preamble, body string, found bool) {
	const begin = `\begin{document}`
	start := strings.Index(text, begin)
	if start < 0 {
		return "", text, false
	}
	from := start + len(begin)
	end, _, ok := findEnvironmentEnd(text, "document", from, false)
	if !ok {
		end = len(text)
	}
	return text[:start], text[from:end], true
}

// normalizeDocument guarantees the fields the renderer relies on.
func normalizeDocument(doc *Document) {
	if doc.Content == nil {
		doc.Content = []Block{}
	}
	for _, b := range doc.Content {
		switch v := b.(type) {
		case *Paragraph:
			if v.Content == nil {
				v.Content = []Run{}
			}
		case *List:
			normalizeList(v)
		case *Table:
			if v.Rows == nil {
				v.Rows = []*TableRow{}
			}
		}
	}
}

func normalizeList(l *List) {
	if l.Type == "" {
		l.Type = BulletList
	}
	if l.Items == nil {
		l.Items = []*ListItem{}
	}
	for _, it := range l.Items {
		if it.Sublist != nil {
			normalizeList(it.Sublist)
		}
	}
}

// validate runs the schema collaborator. Failures are diagnostics, and
// errors only in strict mode.
func (c *Converter) validate(doc *Document) error {
	if c.validator == nil {
		v, err := c.defaultValidator()
		if err != nil {
			c.warn("schema unavailable, validation skipped", "error", err)
			v = NopValidator{}
		}
		c.validator = v
	}
	err := c.validator.Validate(doc)
	if err == nil {
		return nil
	}
	c.warn("schema validation failed", "error", err)
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
