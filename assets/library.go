package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file looked up by Open.
const ManifestName = "assets.yaml"

var ErrUnknownAsset = errors.New("assets: unknown asset")

// Manifest maps asset keys to files.
type Manifest struct {
	Images     map[string]string        `yaml:"images"`
	Animations map[string]AnimationSpec `yaml:"animations"`
	// Fonts map a font name to a TTF/OTF file or a "builtin:" font.
	Fonts map[string]string `yaml:"fonts"`
}

// AnimationSpec describes a horizontal strip of equally sized frames.
type AnimationSpec struct {
	Sheet  string  `yaml:"sheet"`
	FrameW int     `yaml:"frame_w"`
	FrameH int     `yaml:"frame_h"`
	Frames int     `yaml:"frames"`
	FPS    float64 `yaml:"fps"`
}

// Library resolves asset keys to decoded images, animations and fonts.
// Everything is loaded on first use and cached.
type Library struct {
	fsys     fs.FS
	manifest Manifest

	decoded map[string]image.Image
	images  map[string]*ebiten.Image
	fonts   fontCache
}

// Open reads the manifest from fsys.
func Open(fsys fs.FS) (*Library, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("assets: load %s: %w", ManifestName, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("assets: unmarshal %s: %w", ManifestName, err)
	}
	for key, spec := range m.Animations {
		if spec.FrameW <= 0 || spec.FrameH <= 0 || spec.Frames <= 0 {
			return nil, fmt.Errorf("assets: animation %q: frame size and count must be positive", key)
		}
	}
	return &Library{
		fsys:     fsys,
		manifest: m,
		decoded:  make(map[string]image.Image),
		images:   make(map[string]*ebiten.Image),
	}, nil
}

func (l *Library) Manifest() Manifest { return l.manifest }

// Decoded returns the CPU-side image for a key.
func (l *Library) Decoded(key string) (image.Image, error) {
	path, ok := l.manifest.Images[key]
	if !ok {
		return nil, fmt.Errorf("%w: image %q", ErrUnknownAsset, key)
	}
	return l.decodeFile(path)
}

func (l *Library) decodeFile(path string) (image.Image, error) {
	clean := cleanAssetPath(path)
	if img, ok := l.decoded[clean]; ok {
		return img, nil
	}
	b, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", clean, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", clean, err)
	}
	l.decoded[clean] = img
	return img, nil
}

// Image returns the GPU image for a key.
func (l *Library) Image(key string) (*ebiten.Image, error) {
	if img, ok := l.images[key]; ok {
		return img, nil
	}
	src, err := l.Decoded(key)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(src)
	l.images[key] = img
	return img, nil
}

// FrameRects returns the sheet rectangles of an animation's frames.
func (l *Library) FrameRects(key string) ([]image.Rectangle, error) {
	spec, ok := l.manifest.Animations[key]
	if !ok {
		return nil, fmt.Errorf("%w: animation %q", ErrUnknownAsset, key)
	}
	sheet, err := l.decodeFile(spec.Sheet)
	if err != nil {
		return nil, err
	}
	b := sheet.Bounds()
	if spec.FrameW*spec.Frames > b.Dx() || spec.FrameH > b.Dy() {
		return nil, fmt.Errorf("assets: animation %q: %d frames of %dx%d exceed sheet %dx%d",
			key, spec.Frames, spec.FrameW, spec.FrameH, b.Dx(), b.Dy())
	}
	rects := make([]image.Rectangle, spec.Frames)
	for i := range rects {
		x := b.Min.X + i*spec.FrameW
		rects[i] = image.Rect(x, b.Min.Y, x+spec.FrameW, b.Min.Y+spec.FrameH)
	}
	return rects, nil
}

// Animation returns the frames of an animation as sub-images of its sheet.
func (l *Library) Animation(key string) ([]*ebiten.Image, error) {
	rects, err := l.FrameRects(key)
	if err != nil {
		return nil, err
	}
	spec := l.manifest.Animations[key]
	sheet, ok := l.images["\x00"+spec.Sheet]
	if !ok {
		src, err := l.decodeFile(spec.Sheet)
		if err != nil {
			return nil, err
		}
		sheet = ebiten.NewImageFromImage(src)
		l.images["\x00"+spec.Sheet] = sheet
	}
	frames := make([]*ebiten.Image, len(rects))
	for i, r := range rects {
		frames[i] = sheet.SubImage(r).(*ebiten.Image)
	}
	return frames, nil
}
