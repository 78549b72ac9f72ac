package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n0000IHDR")
	pdfHeader = []byte("%PDF-1.7\n")
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_AcceptsMatchingKind(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	img := writeFile(t, dir, "scan.png", pngHeader)
	doc := writeFile(t, dir, "paper.pdf", pdfHeader)

	up, err := Load(img, KindImage)
	require.NoError(t, err)
	require.Equal(t, "scan.png", up.Name)
	require.Equal(t, "image/png", up.ContentType)
	require.Equal(t, pngHeader, up.Data)

	up, err = Load(doc, KindPDF)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", up.ContentType)
}

func TestLoad_RejectsWrongKind(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	doc := writeFile(t, dir, "paper.pdf", pdfHeader)

	_, err := Load(doc, KindImage)
	require.ErrorContains(t, err, "want JPEG/PNG image")
}

func TestLoad_EmptyPathAndEmptyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.pdf", nil)

	_, err := Load("  ", KindPDF)
	require.Error(t, err)
	_, err = Load(empty, KindPDF)
	require.ErrorContains(t, err, "empty")
}

func TestLoad_MissingFileSuggestsSibling(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "report.pdf", pdfHeader)
	writeFile(t, dir, "unrelated-notes.txt", []byte("x"))

	_, err := Load(filepath.Join(dir, "reprot.pdf"), KindPDF)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, filepath.Join(dir, "report.pdf"), nf.Suggestion)
	require.Contains(t, err.Error(), "did you mean")

	_, err = Load(filepath.Join(dir, "zzzzzzzzzz.pdf"), KindPDF)
	require.ErrorAs(t, err, &nf)
	require.Empty(t, nf.Suggestion)
}

func TestSavePNGs(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := SavePNGs(dir, [][]byte{[]byte("one"), []byte("two")})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.NotEqual(t, paths[0], paths[1])

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
