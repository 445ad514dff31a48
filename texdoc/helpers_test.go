package texdoc

import (
	"fmt"
	"testing"
	"time"
)

var testClock = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

// newTestConverter returns a converter with a fixed clock, predictable
// citation IDs, no schema validation and an empty image store.
func newTestConverter(t *testing.T, opts Options) (*Converter, *memoryImages) {
	t.Helper()
	c := NewConverter(opts)
	c.SetClock(func() time.Time { return testClock })
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("cite-%d", n)
	}
	c.SetValidator(nil)
	images := &memoryImages{sizes: map[string][2]float64{}}
	c.SetImageResolver(images)
	return c, images
}

// memoryImages is an ImageResolver over a fixed set of names.
type memoryImages struct {
	sizes map[string][2]float64
}

func (m *memoryImages) Resolve(name string, searchPaths []string, baseDir string) (string, bool) {
	if _, ok := m.sizes[name]; ok {
		return "images/" + name, true
	}
	return "", false
}

func (m *memoryImages) Dimensions(path string) (float64, float64, error) {
	for name, size := range m.sizes {
		if "images/"+name == path {
			return size[0], size[1], nil
		}
	}
	return 0, 0, fmt.Errorf("no image %s", path)
}

func textRun(s string) *TextRun {
	return &TextRun{Text: s}
}

func styledRun(s string, f Formatting) *TextRun {
	return &TextRun{Text: s, Formatting: f}
}
