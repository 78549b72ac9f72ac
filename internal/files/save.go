package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SavePNGs writes each image into dir as <uuid>.png and returns the paths in
// input order. Files are written to a temp name and renamed into place.
func SavePNGs(dir string, images [][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	paths := make([]string, 0, len(images))
	for _, img := range images {
		path := filepath.Join(dir, uuid.NewString()+".png")
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, img, 0o644); err != nil {
			return paths, fmt.Errorf("write image: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return paths, fmt.Errorf("write image: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
