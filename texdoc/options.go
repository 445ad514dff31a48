package texdoc

import (
	"strconv"

	"github.com/hesusruiz/vcutils/yaml"
)

// Options tune a conversion.
type Options struct {
	// Strict makes schema validation failures fatal.
	Strict bool
	// PreserveAspectRatio computes the missing image dimension from the natural size.
	PreserveAspectRatio bool
	// TextWidth is the width of the text block, in inches.
	TextWidth float64
	// DPI converts natural image sizes in pixels to inches.
	DPI float64
	// FontSize is the base font size in points, used for em and ex.
	FontSize float64
	// MaxExpansion bounds the number of macro expansion passes.
	MaxExpansion int
	// MarkUnhandled emits a visible marker for unrecognized commands.
	MarkUnhandled bool
	// CodeStyle is the chroma style used to color code listings.
	CodeStyle string
	// SchemaFile replaces the built-in output schema.
	SchemaFile   string
	Subject      string
	TemplatePath string
	PageLayout   PageLayout
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		PreserveAspectRatio: true,
		TextWidth:           6.5,
		DPI:                 96,
		FontSize:            10,
		MaxExpansion:        DefaultMaxExpansion,
		CodeStyle:           "github",
		PageLayout:          DefaultPageLayout(),
	}
}

// LoadOptions reads options from a YAML file, starting from the defaults.
//
//	texdoc:
//	  strict: true
//	  textWidth: 6.0
//	page:
//	  orientation: landscape
//	  margins:
//	    left: 1.25
func LoadOptions(fileName string) (Options, error) {
	cfg, err := yaml.ParseYamlFile(fileName)
	if err != nil {
		return DefaultOptions(), err
	}
	return OptionsFromYAML(cfg), nil
}

// OptionsFromYAML maps a parsed configuration onto Options.
func OptionsFromYAML(cfg *yaml.YAML) Options {
	o := DefaultOptions()
	o.Strict = cfg.Bool("texdoc.strict")
	o.MarkUnhandled = cfg.Bool("texdoc.markUnhandled")
	if v := cfg.String("texdoc.preserveAspectRatio", ""); v != "" {
		o.PreserveAspectRatio, _ = strconv.ParseBool(v)
	}
	o.TextWidth = yamlFloat(cfg, "texdoc.textWidth", o.TextWidth)
	o.DPI = yamlFloat(cfg, "texdoc.dpi", o.DPI)
	o.FontSize = yamlFloat(cfg, "texdoc.fontSize", o.FontSize)
	o.MaxExpansion = int(yamlFloat(cfg, "texdoc.maxExpansion", float64(o.MaxExpansion)))
	o.CodeStyle = cfg.String("texdoc.codeStyle", o.CodeStyle)
	o.SchemaFile = cfg.String("texdoc.schema", "")
	o.Subject = cfg.String("texdoc.subject", "")
	o.TemplatePath = cfg.String("texdoc.templatePath", "")

	o.PageLayout.Orientation = cfg.String("page.orientation", o.PageLayout.Orientation)
	m := &o.PageLayout.Margins
	m.Top = yamlFloat(cfg, "page.margins.top", m.Top)
	m.Bottom = yamlFloat(cfg, "page.margins.bottom", m.Bottom)
	m.Left = yamlFloat(cfg, "page.margins.left", m.Left)
	m.Right = yamlFloat(cfg, "page.margins.right", m.Right)
	return o
}

// yamlFloat reads a number, keeping def when the value is missing or invalid.
func yamlFloat(cfg *yaml.YAML, path string, def float64) float64 {
	v := cfg.String(path, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
