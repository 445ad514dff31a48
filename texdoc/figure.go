package texdoc

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// findCommandArg returns the argument of the first \name in s, skipping a
// star and an optional argument, and the range the command covers.
func findCommandArg(s, name string) (arg string, start, end int, found bool) {
	for from := 0; ; {
		i := findCommand(s, name, from)
		if i < 0 {
			return "", -1, -1, false
		}
		j := i + 1 + len(name)
		if j < len(s) && s[j] == '*' {
			j++
		}
		if _, k, ok := readOptionalArg(s, j); ok {
			j = k
		}
		if content, k, ok := readArg(s, j); ok {
			return content, i, k, true
		}
		from = j
	}
}

// figure builds the paragraph holding the first image of a figure, with
// the first caption attached to it.
func (c *Converter) figure(content string) []Block {
	caption := ""
	if arg, _, _, ok := findCommandArg(content, "caption"); ok {
		caption = plainMetadata(c.ParseInline(normalizeSpace(arg), Formatting{}))
	}

	i := findCommand(content, "includegraphics", 0)
	if i < 0 {
		c.warn("figure without image", "caption", caption)
		if caption == "" {
			return nil
		}
		return []Block{&Paragraph{
			Kind:    NormalParagraph,
			Content: []Run{&TextRun{Text: caption, Formatting: Formatting{Italic: true}}},
		}}
	}
	j := i + len(`\includegraphics`)
	if j < len(content) && content[j] == '*' {
		j++
	}
	opts, k, hasOpts := readOptionalArg(content, j)
	if hasOpts {
		j = k
	}
	path, _, ok := readArg(content, j)
	if !ok {
		c.warn("malformed includegraphics in figure")
		return nil
	}

	p := &Paragraph{
		Kind:    NormalParagraph,
		Content: []Run{c.imageRun(strings.TrimSpace(path), opts, caption)},
	}
	if findCommand(content, "centering", 0) >= 0 || strings.Contains(content, `\begin{center}`) {
		p.Formatting = &ParagraphFormatting{Alignment: "center"}
	}
	return []Block{p}
}

// imageRun resolves an image and computes its size in inches from the
// \includegraphics options. A missing file keeps the name as written.
func (c *Converter) imageRun(name, options, caption string) *ImageRun {
	run := &ImageRun{
		Path:                name,
		Caption:             caption,
		AltText:             caption,
		PreserveAspectRatio: c.opts.PreserveAspectRatio,
	}
	if run.AltText == "" {
		run.AltText = filepath.Base(name)
	}

	resolved, found := c.images.Resolve(name, c.graphicsPaths, c.baseDir)
	if found {
		run.Path, run.Found = resolved, true
	} else {
		c.warn("image not found", "path", name, "graphicspath", c.graphicsPaths)
	}

	opts := parseKeyValues(options)
	m := c.metrics()
	var width, height, scale float64
	for _, key := range []string{"width", "height", "totalheight"} {
		v, ok := opts[key]
		if !ok {
			continue
		}
		inches, valid := parseLength(v, m)
		if !valid {
			c.warn("malformed dimension", "option", key, "value", v)
			continue
		}
		if key == "width" {
			width = inches
		} else {
			height = inches
		}
	}
	if v, ok := opts["scale"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			c.warn("malformed image scale", "value", v)
		} else {
			scale = f
		}
	}
	if _, ok := opts["keepaspectratio"]; ok {
		run.PreserveAspectRatio = true
	}

	oneGiven := (width == 0) != (height == 0)
	noneGiven := width == 0 && height == 0
	if run.Found && ((oneGiven && run.PreserveAspectRatio) || noneGiven) {
		nw, nh, err := c.images.Dimensions(run.Path)
		switch {
		case err != nil:
			c.warn("cannot read image size", "path", run.Path, "error", err)
		case nw <= 0 || nh <= 0:
			c.warn("image has no size", "path", run.Path)
		case width > 0:
			height = width * nh / nw
		case height > 0:
			width = height * nw / nh
		default:
			width, height = c.naturalSize(nw, nh, scale)
		}
	}

	run.Width = roundInches(width)
	run.Height = roundInches(height)
	return run
}

// naturalSize converts a size in pixels to inches, scaled and limited to the text width.
func (c *Converter) naturalSize(w, h, scale float64) (float64, float64) {
	dpi := c.opts.DPI
	if dpi <= 0 {
		dpi = 96
	}
	if scale <= 0 {
		scale = 1
	}
	w, h = w/dpi*scale, h/dpi*scale
	if tw := c.opts.TextWidth; tw > 0 && w > tw {
		h = h * tw / w
		w = tw
	}
	return w, h
}

func roundInches(v float64) float64 {
	return math.Round(v*10000) / 10000
}
