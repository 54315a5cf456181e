package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when a cards directory holds no image files.
var ErrNoImages = errors.New("no image files found")

var manifestExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// ListImages returns the image file names in dir sorted case-insensitively.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read cards dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		// follows symlinks; dangling links are skipped
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if manifestExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// DefaultManifestPath is cards.json next to the cards directory.
func DefaultManifestPath(dir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(dir)), "cards.json")
}

// WriteManifest writes the JSON list of image names found in dir to out and
// returns how many entries were written.
func WriteManifest(dir, out string) (int, error) {
	names, err := ListImages(dir)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return 0, fmt.Errorf("write manifest %s: %w", out, err)
	}
	return len(names), nil
}
