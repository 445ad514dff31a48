package texdoc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadColorSpec = errors.New("malformed color specification")

// builtinColors seeds every color table. Names follow xcolor and the
// dvipsnames/svgnames palettes.
var builtinColors = map[string]string{
	"black": "#000000", "white": "#FFFFFF", "red": "#FF0000",
	"green": "#00FF00", "blue": "#0000FF", "cyan": "#00FFFF",
	"magenta": "#FF00FF", "yellow": "#FFFF00", "gray": "#808080",
	"darkgray": "#404040", "lightgray": "#BFBFBF", "brown": "#BF8040",
	"lime": "#BFFF00", "olive": "#808000", "orange": "#FF8000",
	"pink": "#FFBFBF", "purple": "#BF0040", "teal": "#008080",
	"violet": "#800080",
	"AliceBlue": "#F0F8FF", "AntiqueWhite": "#FAEBD7", "Aqua": "#00FFFF",
	"Aquamarine": "#7FFFD4", "Azure": "#F0FFFF", "Beige": "#F5F5DC",
	"Bisque": "#FFE4C4", "BlanchedAlmond": "#FFEBCD", "BlueViolet": "#8A2BE2",
	"Brown": "#A52A2A", "BurlyWood": "#DEB887", "CadetBlue": "#5F9EA0",
	"Chartreuse": "#7FFF00", "Chocolate": "#D2691E", "Coral": "#FF7F50",
	"CornflowerBlue": "#6495ED", "Cornsilk": "#FFF8DC", "Crimson": "#DC143C",
	"DarkBlue": "#00008B", "DarkCyan": "#008B8B", "DarkGoldenRod": "#B8860B",
	"DarkGray": "#A9A9A9", "DarkGrey": "#A9A9A9", "DarkGreen": "#006400",
	"Green": "#008000", "Blue": "#0000FF",
}

// ColorTable maps color names to "#RRGGBB" values.
type ColorTable struct {
	colors map[string]string
}

// NewColorTable returns a table seeded with the built-in palette.
func NewColorTable() *ColorTable {
	t := &ColorTable{colors: make(map[string]string, len(builtinColors))}
	for k, v := range builtinColors {
		t.colors[k] = v
	}
	return t
}

// Define adds or replaces a named color. On a malformed spec the table is
// left unchanged and an error wrapping ErrBadColorSpec is returned.
func (t *ColorTable) Define(name, model, spec string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty color name", ErrBadColorSpec)
	}
	hex, err := ParseColorSpec(model, spec)
	if err != nil {
		return err
	}
	t.colors[name] = hex
	return nil
}

// Resolve returns the hex value of a color name. It also understands
// xcolor mixes like "red!30" (30% red, rest white) and "red!30!blue".
func (t *ColorTable) Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if hex, ok := t.lookup(name); ok {
		return hex, true
	}
	if !strings.Contains(name, "!") {
		return "", false
	}
	parts := strings.Split(name, "!")
	base, ok := t.lookup(parts[0])
	if !ok || len(parts) > 3 {
		return "", false
	}
	pct, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || pct < 0 || pct > 100 {
		return "", false
	}
	other := "#FFFFFF"
	if len(parts) == 3 {
		if other, ok = t.lookup(parts[2]); !ok {
			return "", false
		}
	}
	return mixColors(base, other, pct/100), true
}

func (t *ColorTable) lookup(name string) (string, bool) {
	if hex, ok := t.colors[name]; ok {
		return hex, true
	}
	hex, ok := t.colors[strings.ToLower(name)]
	return hex, ok
}

// ParseColorSpec converts an xcolor model/spec pair to "#RRGGBB".
// Supported models: HTML, rgb (floats in [0,1]), RGB (0 to 255) and gray.
func ParseColorSpec(model, spec string) (string, error) {
	model = strings.TrimSpace(model)
	spec = strings.TrimSpace(spec)
	switch model {
	case "HTML", "html":
		spec = strings.TrimPrefix(spec, "#")
		if len(spec) != 6 {
			return "", fmt.Errorf("%w: HTML color %q needs 6 hex digits", ErrBadColorSpec, spec)
		}
		if _, err := strconv.ParseUint(spec, 16, 32); err != nil {
			return "", fmt.Errorf("%w: HTML color %q", ErrBadColorSpec, spec)
		}
		return "#" + strings.ToUpper(spec), nil
	case "rgb":
		v, err := parseComponents(spec, 3, 1)
		if err != nil {
			return "", err
		}
		return toHex(v[0]*255, v[1]*255, v[2]*255), nil
	case "RGB":
		v, err := parseComponents(spec, 3, 255)
		if err != nil {
			return "", err
		}
		return toHex(v[0], v[1], v[2]), nil
	case "gray":
		v, err := parseComponents(spec, 1, 1)
		if err != nil {
			return "", err
		}
		return toHex(v[0]*255, v[0]*255, v[0]*255), nil
	}
	return "", fmt.Errorf("%w: unsupported color model %q", ErrBadColorSpec, model)
}

func parseComponents(spec string, n int, max float64) ([]float64, error) {
	fields := strings.Split(spec, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("%w: %q needs %d components", ErrBadColorSpec, spec, n)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || v < 0 || v > max {
			return nil, fmt.Errorf("%w: component %q out of range", ErrBadColorSpec, f)
		}
		out[i] = v
	}
	return out, nil
}

// toHex truncates each component to an integer.
func toHex(r, g, b float64) string {
	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))
}

func mixColors(a, b string, ratio float64) string {
	ca, cb := hexComponents(a), hexComponents(b)
	var mixed [3]float64
	for i := range mixed {
		mixed[i] = ca[i]*ratio + cb[i]*(1-ratio)
	}
	return toHex(mixed[0], mixed[1], mixed[2])
}

func hexComponents(hex string) [3]float64 {
	var out [3]float64
	hex = strings.TrimPrefix(hex, "#")
	for i := 0; i < 3 && len(hex) >= 2*i+2; i++ {
		v, _ := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		out[i] = float64(v)
	}
	return out
}
