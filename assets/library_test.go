package assets

import (
	"image"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedManifest(t *testing.T) {
	lib, err := Open(FS(""))
	require.NoError(t, err)

	bg, err := lib.Decoded("background")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 224, 128), bg.Bounds())

	again, err := lib.Decoded("background")
	require.NoError(t, err)
	assert.Same(t, bg, again)

	rects, err := lib.FrameRects("cursor")
	require.NoError(t, err)
	require.Len(t, rects, 4)
	assert.Equal(t, image.Rect(48, 0, 64, 16), rects[3])
}

func TestUnknownKeys(t *testing.T) {
	lib, err := Open(FS(""))
	require.NoError(t, err)

	_, err = lib.Decoded("nope")
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = lib.FrameRects("nope")
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = lib.Font("FiraCode-Bold", 12)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestFontCache(t *testing.T) {
	lib, err := Open(FS(""))
	require.NoError(t, err)

	a, err := lib.Font("regular", 12)
	require.NoError(t, err)
	b, err := lib.Font("regular", 12)
	require.NoError(t, err)
	c, err := lib.Font("regular", 18)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Same(t, a.Source, c.Source)
	assert.Equal(t, 18.0, c.Size)

	_, err = lib.Font("regular", 0)
	assert.Error(t, err)
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		key  string
	}{
		{"no_manifest", fstest.MapFS{}, ""},
		{"bad_yaml", fstest.MapFS{ManifestName: {Data: []byte("images: [")}}, ""},
		{"bad_animation", fstest.MapFS{ManifestName: {Data: []byte("animations:\n  a:\n    sheet: a.png\n    frames: 0\n")}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.fsys)
			assert.Error(t, err)
		})
	}
}

func TestMissingFileAndBadBuiltin(t *testing.T) {
	fsys := fstest.MapFS{ManifestName: {Data: []byte("images:\n  ghost: ghost.png\nfonts:\n  odd: builtin:comic\n")}}
	lib, err := Open(fsys)
	require.NoError(t, err)

	_, err = lib.Decoded("ghost")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownAsset)

	_, err = lib.Font("odd", 10)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestCleanAssetPath(t *testing.T) {
	assert.Equal(t, "icon.png", cleanAssetPath("assets/icon.png"))
	assert.Equal(t, "icon.png", cleanAssetPath("/home/u/game/assets/icon.png"))
	assert.Equal(t, "sub/a.png", cleanAssetPath("sub/a.png"))
	assert.Equal(t, "", cleanAssetPath(""))
}
