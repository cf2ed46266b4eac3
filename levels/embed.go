package levels

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.tengo
var LevelsFS embed.FS

// Dir, when set, is searched before the embedded levels.
var Dir string

func read(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if Dir != "" {
		if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return LevelsFS.ReadFile(clean)
}

func cleanLevelPath(p string) string {
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		s = after
	}
	return path.Clean(s)
}
