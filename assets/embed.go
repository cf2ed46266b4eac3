package assets

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed assets.yaml *.png
var assetsFS embed.FS

// FS returns the embedded assets, overlaid by files from dir on disk when
// dir is not empty. Disk files win so content can be edited without a rebuild.
func FS(dir string) fs.FS {
	if dir == "" {
		return assetsFS
	}
	return overlayFS{disk: os.DirFS(dir), base: assetsFS}
}

type overlayFS struct {
	disk fs.FS
	base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if f, err := o.disk.Open(name); err == nil {
		return f, nil
	}
	return o.base.Open(name)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
