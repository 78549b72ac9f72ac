package files

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/searchbot/internal/backend"
)

// Kind restricts which content types Load accepts.
type Kind int

const (
	KindImage Kind = iota
	KindPDF
)

func (k Kind) accepts(contentType string) bool {
	switch k {
	case KindImage:
		return contentType == "image/png" || contentType == "image/jpeg"
	case KindPDF:
		return contentType == "application/pdf"
	}
	return false
}

func (k Kind) String() string {
	if k == KindPDF {
		return "PDF"
	}
	return "JPEG/PNG image"
}

// maxSuggestDistance caps how different a sibling name may be and still be
// offered as a suggestion.
const maxSuggestDistance = 3

// NotFoundError is returned when the path does not exist. Suggestion is the
// closest file name in the same directory, if any is close enough.
type NotFoundError struct {
	Path       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion == "" {
		return "no such file: " + e.Path
	}
	return fmt.Sprintf("no such file: %s (did you mean %s?)", e.Path, e.Suggestion)
}

// Load reads path into an upload after checking its content type against
// kind. A leading "~/" expands to the home directory.
func Load(path string, kind Kind) (backend.Upload, error) {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return backend.Upload{}, errors.New("no file selected")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return backend.Upload{}, &NotFoundError{Path: path, Suggestion: suggest(path)}
		}
		return backend.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return backend.Upload{}, fmt.Errorf("%s is empty", filepath.Base(path))
	}
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !kind.accepts(ct) {
		return backend.Upload{}, fmt.Errorf("%s is %s, want %s", filepath.Base(path), ct, kind)
	}
	return backend.Upload{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}

func suggest(path string) string {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		d := levenshtein.ComputeDistance(strings.ToLower(base), strings.ToLower(e.Name()))
		if d < bestDist {
			best, bestDist = e.Name(), d
		}
	}
	if best == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(path), best)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
