package levels

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/waterjam/common"
)

// Params are the globals a level script sees. Width and Height are the
// playfield size in simulation units.
type Params struct {
	Width  float64
	Height float64
}

// RunScript runs a tengo level script. The script fills the global array
// "records" with maps holding x, y, w, h and optionally angle, friction,
// restitution and may set "name".
func RunScript(src []byte, params Params) (*Level, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))
	_ = script.Add("width", params.Width)
	_ = script.Add("height", params.Height)
	_ = script.Add("records", []any{})
	_ = script.Add("name", "")

	compiled, err := script.Run()
	if err != nil {
		return nil, fmt.Errorf("run level script: %w", err)
	}

	lvl := &Level{Name: compiled.Get("name").String()}
	raw, ok := compiled.Get("records").Value().([]any)
	if !ok {
		return nil, fmt.Errorf("%w: records is not an array", ErrInvalidRecord)
	}
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: %w: not a map", i, ErrInvalidRecord)
		}
		r, err := recordFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		lvl.Records = append(lvl.Records, r)
	}
	if err := validate(lvl.Records); err != nil {
		return nil, err
	}
	return lvl, nil
}

func recordFromMap(m map[string]any) (Record, error) {
	num := func(key string, required bool, def float64) (float64, error) {
		v, ok := m[key]
		if !ok {
			if required {
				return 0, fmt.Errorf("%w: missing %q", ErrInvalidRecord, key)
			}
			return def, nil
		}
		switch n := v.(type) {
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		default:
			return 0, fmt.Errorf("%w: %q is %T", ErrInvalidRecord, key, v)
		}
	}

	var r Record
	var err error
	fields := []struct {
		key      string
		dst      *float64
		required bool
		def      float64
	}{
		{"x", &r.Position.X, true, 0},
		{"y", &r.Position.Y, true, 0},
		{"w", &r.Size.X, true, 0},
		{"h", &r.Size.Y, true, 0},
		{"angle", &r.Angle, false, 0},
		{"friction", &r.Friction, false, 0.5},
		{"restitution", &r.Restitution, false, 0.15},
	}
	for _, f := range fields {
		if *f.dst, err = num(f.key, f.required, f.def); err != nil {
			return Record{}, err
		}
	}
	return r, nil
}

// Bounds is the axis-aligned box around every record, ignoring rotation.
func Bounds(records []Record) common.Rect {
	if len(records) == 0 {
		return common.Rect{}
	}
	minX, minY := records[0].Position.X, records[0].Position.Y
	maxX, maxY := minX, minY
	for _, r := range records {
		hw, hh := r.Size.X/2, r.Size.Y/2
		minX = min(minX, r.Position.X-hw)
		minY = min(minY, r.Position.Y-hh)
		maxX = max(maxX, r.Position.X+hw)
		maxY = max(maxY, r.Position.Y+hh)
	}
	return common.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
