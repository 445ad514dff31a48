package texdoc

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrBadDimension = errors.New("malformed dimension")

// Dimension is a LaTeX length: a value and a unit. Relative units
// (\textwidth, \linewidth, %) are fractions of the text width.
type Dimension struct {
	Value float64
	Unit  string
}

var reDimension = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*(pt|bp|in|cm|mm|em|ex|pc|%|\\textwidth|\\linewidth|\\columnwidth|\\hsize)?$`)

// ParseDimension parses strings like "0.5\textwidth", "3cm" or "12".
// A missing unit means points. A bare \textwidth or \linewidth is a full text width.
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(s)
	switch s {
	case `\textwidth`, `\linewidth`, `\columnwidth`, `\hsize`:
		return Dimension{Value: 1, Unit: s}, nil
	}
	m := reDimension.FindStringSubmatch(s)
	if m == nil {
		return Dimension{}, fmt.Errorf("%w: %q", ErrBadDimension, s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Dimension{}, fmt.Errorf("%w: %q", ErrBadDimension, s)
	}
	unit := m[2]
	if unit == "" {
		unit = "pt"
	}
	return Dimension{Value: v, Unit: unit}, nil
}

// Metrics gives the context needed to turn a Dimension into inches.
type Metrics struct {
	TextWidth float64 // inches
	FontSize  float64 // points, the size of one em
}

// Inches converts d to inches.
func (d Dimension) Inches(m Metrics) float64 {
	switch d.Unit {
	case "pt":
		return d.Value / 72.27
	case "bp":
		return d.Value / 72
	case "pc":
		return d.Value * 12 / 72.27
	case "in":
		return d.Value
	case "cm":
		return d.Value / 2.54
	case "mm":
		return d.Value / 25.4
	case "em":
		return d.Value * m.FontSize / 72.27
	case "ex":
		return d.Value * 0.43 * m.FontSize / 72.27
	case "%":
		return d.Value / 100 * m.TextWidth
	case `\textwidth`, `\linewidth`, `\columnwidth`, `\hsize`:
		return d.Value * m.TextWidth
	}
	return 0
}

// parseLength parses s and converts it to inches, reporting whether it was valid.
func parseLength(s string, m Metrics) (float64, bool) {
	d, err := ParseDimension(s)
	if err != nil {
		return 0, false
	}
	return d.Inches(m), true
}
