package catalog

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	imageExt        = ".png"
	placeholderFile = "placeholder.png"
)

// ImageResolver maps card names to image files in a read-only asset directory.
type ImageResolver struct {
	dir    string
	prefix string
}

// NewImageResolver resolves against files in dir; returned paths are rooted at prefix.
func NewImageResolver(dir, prefix string) *ImageResolver {
	return &ImageResolver{
		dir:    dir,
		prefix: strings.TrimSuffix(filepath.ToSlash(prefix), "/"),
	}
}

// Placeholder is the path returned when nothing matches.
func (r *ImageResolver) Placeholder() string {
	return r.public(placeholderFile)
}

// Resolve picks the first match of: exact "<name>.png", case-insensitive stem,
// loose stem (spaces, underscores and dashes ignored), else the placeholder.
func (r *ImageResolver) Resolve(name string) string {
	info, err := os.Stat(r.dir)
	if err != nil || !info.IsDir() {
		return r.Placeholder()
	}

	clean := CollapseSpaces(name)
	if clean != "" && !strings.ContainsAny(clean, `/\`) {
		exact := clean + imageExt
		if fi, err := os.Stat(filepath.Join(r.dir, exact)); err == nil && fi.Mode().IsRegular() {
			return r.public(exact)
		}
	}

	files := r.pngFiles()
	target := strings.ToLower(clean)

	for _, f := range files {
		if strings.ToLower(strings.TrimSuffix(f, imageExt)) == target {
			return r.public(f)
		}
	}

	loose := looseKey(target)
	for _, f := range files {
		if looseKey(strings.TrimSuffix(f, imageExt)) == loose {
			return r.public(f)
		}
	}

	return r.Placeholder()
}

// pngFiles lists *.png entries in directory order (os.ReadDir sorts by name).
func (r *ImageResolver) pngFiles() []string {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), imageExt) {
			continue
		}
		files = append(files, e.Name())
	}
	return files
}

func (r *ImageResolver) public(file string) string {
	if r.prefix == "" {
		return file
	}
	return path.Join(r.prefix, file)
}

var looseReplacer = strings.NewReplacer(" ", "", "_", "", "-", "")

func looseKey(s string) string {
	return looseReplacer.Replace(strings.ToLower(s))
}
