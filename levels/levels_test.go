package levels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONFromDir(t *testing.T) {
	dir := t.TempDir()
	data := `{"name": "pool", "records": [
		{"position": {"x": 64, "y": 34}, "size": {"x": 60, "y": 2}, "friction": 0.5, "restitution": 0.15},
		{"position": {"x": 30, "y": 26}, "size": {"x": 20, "y": 2}, "angle": 0.6}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pool.json"), []byte(data), 0o644))
	Dir = dir
	t.Cleanup(func() { Dir = "" })

	lvl, err := Load("levels/pool.json", Params{})
	require.NoError(t, err)
	assert.Equal(t, "pool", lvl.Name)
	require.Len(t, lvl.Records, 2)
	assert.Equal(t, common.V(64, 34), lvl.Records[0].Position)
	assert.Equal(t, common.V(60, 2), lvl.Records[0].Size)
	assert.InDelta(t, 0.6, lvl.Records[1].Angle, 1e-9)
}

func TestBasinScalesWithPlayfield(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"640x360", Params{Width: 64, Height: 36}},
		{"1024x576", Params{Width: 102.4, Height: 57.6}},
		{"1920x1080", Params{Width: 192, Height: 108}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := Load("basin.tengo", tt.p)
			require.NoError(t, err)
			assert.Equal(t, "basin", lvl.Name)
			require.Len(t, lvl.Records, 4)

			floor := lvl.Records[0]
			assert.InDelta(t, tt.p.Width/2, floor.Position.X, 1e-9)
			assert.InDelta(t, tt.p.Width*0.47, floor.Size.X, 1e-9)
			assert.InDelta(t, 0.3, lvl.Records[3].Restitution, 1e-9)
			assert.Zero(t, lvl.Records[3].Friction)

			// The right slope mirrors the left one.
			left, right := lvl.Records[1], lvl.Records[2]
			assert.InDelta(t, tt.p.Width, left.Position.X+right.Position.X, 1e-9)
			assert.InDelta(t, -left.Angle, right.Angle, 1e-9)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"bad_json", `{"records": [`, false},
		{"zero_size", `{"records": [{"position": {"x": 1, "y": 1}, "size": {"x": 0, "y": 1}}]}`, true},
		{"negative_friction", `{"records": [{"size": {"x": 1, "y": 1}, "friction": -1}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidRecord)
			}
		})
	}
}

func TestScriptSpawnsStaticBodies(t *testing.T) {
	lvl, err := Load("stairs.tengo", Params{Width: 128, Height: 72})
	require.NoError(t, err)
	assert.Equal(t, "stairs", lvl.Name)
	require.Len(t, lvl.Records, 7)

	last := lvl.Records[6]
	assert.Equal(t, common.V(64, 68), last.Position)
	assert.Equal(t, 0.5, last.Friction)
	assert.Equal(t, 0.15, last.Restitution)
	assert.Equal(t, 0.2, lvl.Records[0].Friction)

	w := physics.NewWorld(physics.DefaultConfig())
	defer w.Close()
	for _, r := range lvl.Records {
		b, err := w.Spawn(r.Def())
		require.NoError(t, err)
		assert.True(t, b.Static())
	}
	assert.Equal(t, len(lvl.Records), w.Len())
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `records = append(records, {x: `},
		{"missing_key", `records = append(records, {x: 1, y: 1, w: 2})`},
		{"not_a_map", `records = append(records, 5)`},
		{"bad_type", `records = append(records, {x: "a", y: 1, w: 1, h: 1})`},
		{"zero_size", `records = append(records, {x: 1, y: 1, w: 0, h: 1})`},
		{"records_replaced", `records = 3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunScript([]byte(tt.src), Params{Width: 10, Height: 10})
			assert.Error(t, err)
		})
	}
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("nowhere.json", Params{})
	assert.Error(t, err)
	_, err = Load("basin.txt", Params{})
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	assert.True(t, Bounds(nil).Empty())
	r := Bounds([]Record{
		{Position: common.V(0, 0), Size: common.V(2, 2)},
		{Position: common.V(10, 5), Size: common.V(4, 2)},
	})
	assert.Equal(t, common.Rect{X: -1, Y: -1, W: 13, H: 7}, r)
}
