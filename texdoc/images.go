package texdoc

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageResolver locates image files and reports their natural size.
type ImageResolver interface {
	// Resolve returns the path of the file for name, looking in baseDir and
	// then in each search path, which may be relative to baseDir.
	Resolve(name string, searchPaths []string, baseDir string) (path string, found bool)
	// Dimensions returns the natural size of the image in pixels at 96 dpi.
	Dimensions(path string) (width, height float64, err error)
}

// DefaultImageExtensions are tried, in order, for names without an extension.
var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".pdf", ".eps"}

// FileImageResolver looks images up in the local filesystem.
type FileImageResolver struct {
	Extensions []string
}

func NewFileImageResolver() *FileImageResolver {
	return &FileImageResolver{Extensions: DefaultImageExtensions}
}

func (r *FileImageResolver) candidates(name string) []string {
	if filepath.Ext(name) != "" {
		return []string{name}
	}
	out := []string{name}
	for _, ext := range r.Extensions {
		out = append(out, name+ext)
	}
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (r *FileImageResolver) Resolve(name string, searchPaths []string, baseDir string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if filepath.IsAbs(name) {
		for _, c := range r.candidates(name) {
			if isFile(c) {
				return c, true
			}
		}
		return "", false
	}

	dirs := []string{baseDir}
	for _, p := range searchPaths {
		if filepath.IsAbs(p) {
			dirs = append(dirs, p)
		} else {
			dirs = append(dirs, filepath.Join(baseDir, p))
		}
	}
	for _, dir := range dirs {
		for _, c := range r.candidates(name) {
			full := filepath.Join(dir, c)
			if isFile(full) {
				return full, true
			}
		}
	}
	return "", false
}

func (r *FileImageResolver) Dimensions(path string) (float64, float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfDimensions(path)
	case ".eps", ".ps":
		return epsDimensions(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// pdfDimensions returns the size of the first page, converted from points.
func pdfDimensions(path string) (float64, float64, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading page size of %s: %w", path, err)
	}
	if len(dims) == 0 {
		return 0, 0, fmt.Errorf("%s has no pages", path)
	}
	return dims[0].Width * 96 / 72, dims[0].Height * 96 / 72, nil
}

// epsDimensions reads the %%BoundingBox comment of an EPS file.
func epsDimensions(path string) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	for lines := 0; s.Scan() && lines < 100; lines++ {
		line := s.Text()
		if !strings.HasPrefix(line, "%%BoundingBox:") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, "%%BoundingBox:"))
		if len(fields) != 4 {
			continue
		}
		var box [4]float64
		for i, f := range fields {
			if box[i], err = strconv.ParseFloat(f, 64); err != nil {
				break
			}
		}
		if err == nil {
			return (box[2] - box[0]) * 96 / 72, (box[3] - box[1]) * 96 / 72, nil
		}
	}
	return 0, 0, fmt.Errorf("%s has no bounding box", path)
}
