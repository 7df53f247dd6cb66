package client

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

// PreviewFileName is the standalone document written next to the code files.
const PreviewFileName = "preview.html"

// Export writes the bundle's html, css and js files plus a preview document
// into dir and returns the written paths.
func Export(dir string, site chat.GeneratedWebsite) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	files := append(site.Files(), chat.File{Name: PreviewFileName, Kind: "preview", Content: site.PreviewDocument()})

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", f.Name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
