package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteManifest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "cards")
	require.NoError(t, os.Mkdir(dir, 0755))
	writeFiles(t, dir, "b.PNG", "A.webp", "c.jpeg", "notes.txt", "d.jpg")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "e.png"), 0755))

	out := DefaultManifestPath(dir)
	assert.Equal(t, filepath.Join(root, "cards.json"), out)

	n, err := WriteManifest(dir, out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal(data, &names))
	assert.Equal(t, []string{"A.webp", "b.PNG", "c.jpeg", "d.jpg"}, names)
}

func TestListImagesFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "cards")
	require.NoError(t, os.Mkdir(dir, 0755))
	writeFiles(t, root, "source.png")
	writeFiles(t, dir, "a.png")

	if err := os.Symlink(filepath.Join(root, "source.png"), filepath.Join(dir, "linked.png")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.png"), filepath.Join(dir, "dangling.png")))
	require.NoError(t, os.Symlink(root, filepath.Join(dir, "dir.png")))

	names, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "linked.png"}, names)
}

func TestWriteManifestErrors(t *testing.T) {
	root := t.TempDir()

	_, err := WriteManifest(filepath.Join(root, "missing"), filepath.Join(root, "cards.json"))
	require.Error(t, err)

	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0755))
	_, err = WriteManifest(empty, filepath.Join(root, "cards.json"))
	require.ErrorIs(t, err, ErrNoImages)
}
