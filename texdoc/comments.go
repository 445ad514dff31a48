package texdoc

import (
	"strings"

	"github.com/hesusruiz/texdoc/sliceedit"
)

// verbatimEnvironments keep their content byte for byte: no comment removal,
// no macro expansion, no inline parsing.
var verbatimEnvironments = []string{"verbatim", "verbatim*", "lstlisting", "minted", "Verbatim"}

const (
	ignoreStart = "%TC:ignore"
	ignoreEnd   = "%TC:endignore"
)

// region is a half-open byte range of the source.
type region struct {
	start, end int
}

// protectedRegions returns the ranges covered by verbatim-like environments,
// including their delimiters, in source order.
func protectedRegions(s string) []region {
	var out []region
	i := 0
	for {
		next := -1
		var env string
		for _, name := range verbatimEnvironments {
			if k := strings.Index(s[i:], `\begin{`+name+`}`); k >= 0 && (next < 0 || i+k < next) {
				next, env = i+k, name
			}
		}
		if next < 0 {
			return out
		}
		from := next + len(`\begin{`+env+`}`)
		_, end, _ := findEnvironmentEnd(s, env, from, false)
		out = append(out, region{next, end})
		i = end
	}
}

func inRegions(regions []region, pos int) bool {
	for _, r := range regions {
		if pos >= r.start && pos < r.end {
			return true
		}
	}
	return false
}

// StripComments removes %TC:ignore ... %TC:endignore regions, comment
// environments and unescaped % comments.
// A line holding only a comment is removed together with its line break,
// so it does not split the surrounding paragraph.
func StripComments(src string) string {
	protected := protectedRegions(src)
	buf := sliceedit.NewBufferString(src)

	// Ignore regions, closing marker included
	for i := 0; ; {
		k := strings.Index(src[i:], ignoreStart)
		if k < 0 {
			break
		}
		start := i + k
		e := strings.Index(src[start:], ignoreEnd)
		if e < 0 || inRegions(protected, start) {
			i = start + len(ignoreStart)
			continue
		}
		end := start + e + len(ignoreEnd)
		buf.Delete(start, end)
		i = end
	}

	// The comment environment
	for i := 0; ; {
		k := strings.Index(src[i:], `\begin{comment}`)
		if k < 0 {
			break
		}
		start := i + k
		_, end, _ := findEnvironmentEnd(src, "comment", start+len(`\begin{comment}`), false)
		if !inRegions(protected, start) {
			buf.Delete(start, end)
		}
		i = end
	}

	// Line comments
	lineStart := 0
	for lineStart < len(src) {
		lineEnd := strings.IndexByte(src[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(src)
		} else {
			lineEnd += lineStart
		}
		line := src[lineStart:lineEnd]
		for j := 0; j < len(line); j++ {
			if line[j] != '%' || isEscaped(line, j) {
				continue
			}
			pos := lineStart + j
			if inRegions(protected, pos) || buf.Overlaps(pos, pos+1) {
				break
			}
			if strings.TrimSpace(line[:j]) == "" && lineEnd < len(src) {
				buf.Delete(lineStart, lineEnd+1)
			} else {
				buf.Delete(pos, lineEnd)
			}
			break
		}
		lineStart = lineEnd + 1
	}

	return buf.String()
}
