package texdoc

import "strconv"

// A CommandKind tells how the inline parser treats a command.
type CommandKind uint32

const (
	// UnknownCommand is dropped, together with its brace groups.
	UnknownCommand CommandKind = iota
	// FormatCommand parses its argument with one more attribute, like \textbf{..}.
	FormatCommand
	// DeclarationCommand changes the formatting up to the end of the group, like \bfseries.
	DeclarationCommand
	// WrapperCommand parses its argument with the current formatting, like \mbox{..}.
	WrapperCommand
	ColorCommand
	ColorDeclaration
	HighlightCommand
	CaseCommand
	URLCommand
	HrefCommand
	CitationCommand
	ReferenceCommand
	ImageCommand
	DateCommand
)

// String returns a string representation of the CommandKind.
func (k CommandKind) String() string {
	switch k {
	case UnknownCommand:
		return "Unknown"
	case FormatCommand:
		return "Format"
	case DeclarationCommand:
		return "Declaration"
	case WrapperCommand:
		return "Wrapper"
	case ColorCommand:
		return "Color"
	case ColorDeclaration:
		return "ColorDeclaration"
	case HighlightCommand:
		return "Highlight"
	case CaseCommand:
		return "Case"
	case URLCommand:
		return "URL"
	case HrefCommand:
		return "Href"
	case CitationCommand:
		return "Citation"
	case ReferenceCommand:
		return "Reference"
	case ImageCommand:
		return "Image"
	case DateCommand:
		return "Date"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

var formatCommands = map[string]func(f *Formatting){
	"textbf":          func(f *Formatting) { f.Bold = true },
	"textit":          func(f *Formatting) { f.Italic = true },
	"emph":            func(f *Formatting) { f.Italic = true },
	"textsl":          func(f *Formatting) { f.Italic = true },
	"underline":       func(f *Formatting) { f.Underline = true },
	"uline":           func(f *Formatting) { f.Underline = true },
	"texttt":          func(f *Formatting) { f.FontName = MonospaceFont },
	"sout":            func(f *Formatting) { f.Strike = true },
	"st":              func(f *Formatting) { f.Strike = true },
	"textsuperscript": func(f *Formatting) { f.Superscript = true },
	"textsubscript":   func(f *Formatting) { f.Subscript = true },
}

// fontSizes are the declarations of the standard classes at 10pt.
var fontSizes = map[string]float64{
	"tiny": 5, "scriptsize": 7, "footnotesize": 8, "small": 9, "normalsize": 10,
	"large": 12, "Large": 14.4, "LARGE": 17.28, "huge": 20.74, "Huge": 24.88,
}

var declarations = map[string]func(f *Formatting){
	"bfseries": func(f *Formatting) { f.Bold = true },
	"bf":       func(f *Formatting) { f.Bold = true },
	"itshape":  func(f *Formatting) { f.Italic = true },
	"it":       func(f *Formatting) { f.Italic = true },
	"em":       func(f *Formatting) { f.Italic = true },
	"slshape":  func(f *Formatting) { f.Italic = true },
	"sl":       func(f *Formatting) { f.Italic = true },
	"ttfamily": func(f *Formatting) { f.FontName = MonospaceFont },
	"tt":       func(f *Formatting) { f.FontName = MonospaceFont },
}

var inlineCommands = map[string]CommandKind{
	"mbox": WrapperCommand, "hbox": WrapperCommand, "text": WrapperCommand,
	"textrm": WrapperCommand, "textsf": WrapperCommand, "textsc": WrapperCommand,
	"textup": WrapperCommand, "textnormal": WrapperCommand, "textmd": WrapperCommand,
	"textcolor": ColorCommand,
	"color":     ColorDeclaration,
	"colorbox":  HighlightCommand,
	"hl":        HighlightCommand,
	"MakeUppercase": CaseCommand, "MakeLowercase": CaseCommand,
	"uppercase": CaseCommand, "lowercase": CaseCommand,
	"url":  URLCommand,
	"href": HrefCommand,
	"ref":  ReferenceCommand, "pageref": ReferenceCommand, "eqref": ReferenceCommand,
	"autoref": ReferenceCommand, "cref": ReferenceCommand, "Cref": ReferenceCommand,
	"includegraphics": ImageCommand,
	"today":           DateCommand,
}

// commandKind classifies an inline command name.
func commandKind(name string) CommandKind {
	if _, ok := formatCommands[name]; ok {
		return FormatCommand
	}
	if _, ok := declarations[name]; ok {
		return DeclarationCommand
	}
	if _, ok := fontSizes[name]; ok {
		return DeclarationCommand
	}
	if isCitationCommand(name) {
		return CitationCommand
	}
	return inlineCommands[name]
}

// bookmarkName turns a LaTeX label into a valid bookmark name.
func bookmarkName(label string) string {
	b := []byte(label)
	for i, c := range b {
		if !isLetter(c) && !(c >= '0' && c <= '9') {
			b[i] = '_'
		}
	}
	if len(b) > 40 {
		b = b[:40]
	}
	return "_" + string(b)
}
