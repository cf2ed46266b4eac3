package assets

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const builtinPrefix = "builtin:"

var builtinFonts = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

type fontKey struct {
	name string
	size float64
}

type fontCache struct {
	sources map[string]*text.GoTextFaceSource
	faces   map[fontKey]*text.GoTextFace
}

// Font returns a face for a manifest font name at size. The same
// (name, size) pair always returns the same face.
func (l *Library) Font(name string, size float64) (*text.GoTextFace, error) {
	if size <= 0 {
		return nil, fmt.Errorf("assets: font %q: size must be positive", name)
	}
	key := fontKey{name: name, size: size}
	if face, ok := l.fonts.faces[key]; ok {
		return face, nil
	}
	src, err := l.fontSource(name)
	if err != nil {
		return nil, err
	}
	if l.fonts.faces == nil {
		l.fonts.faces = make(map[fontKey]*text.GoTextFace)
	}
	face := &text.GoTextFace{Source: src, Size: size}
	l.fonts.faces[key] = face
	return face, nil
}

func (l *Library) fontSource(name string) (*text.GoTextFaceSource, error) {
	if src, ok := l.fonts.sources[name]; ok {
		return src, nil
	}
	path, ok := l.manifest.Fonts[name]
	if !ok {
		return nil, fmt.Errorf("%w: font %q", ErrUnknownAsset, name)
	}

	var data []byte
	if builtin, ok := strings.CutPrefix(path, builtinPrefix); ok {
		data, ok = builtinFonts[builtin]
		if !ok {
			return nil, fmt.Errorf("%w: builtin font %q", ErrUnknownAsset, builtin)
		}
	} else {
		b, err := fs.ReadFile(l.fsys, cleanAssetPath(path))
		if err != nil {
			return nil, fmt.Errorf("assets: read font %s: %w", path, err)
		}
		data = b
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: parse font %q: %w", name, err)
	}
	if l.fonts.sources == nil {
		l.fonts.sources = make(map[string]*text.GoTextFaceSource)
	}
	l.fonts.sources[name] = src
	return src, nil
}
