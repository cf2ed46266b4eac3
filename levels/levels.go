package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/physics"
)

var ErrInvalidRecord = errors.New("levels: invalid record")

// Record is one static body of a level, in simulation units.
type Record struct {
	Position    common.Vec2 `json:"position"`
	Size        common.Vec2 `json:"size"`
	Angle       float64     `json:"angle"`
	Friction    float64     `json:"friction"`
	Restitution float64     `json:"restitution"`
}

func (r Record) validate() error {
	if r.Size.X <= 0 || r.Size.Y <= 0 {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidRecord, r.Size.X, r.Size.Y)
	}
	for _, v := range []float64{r.Position.X, r.Position.Y, r.Angle, r.Friction, r.Restitution} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidRecord)
		}
	}
	if r.Friction < 0 || r.Restitution < 0 {
		return fmt.Errorf("%w: negative friction or restitution", ErrInvalidRecord)
	}
	return nil
}

// Def is the static box described by r.
func (r Record) Def() physics.BodyDef {
	return physics.BodyDef{
		Position: r.Position,
		Angle:    r.Angle,
		Shape:    physics.Box(r.Size.X, r.Size.Y),
		Material: physics.Material{Friction: r.Friction, Restitution: r.Restitution, Density: 1},
		Static:   true,
	}
}

type Level struct {
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// Parse decodes a JSON level and validates every record.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := validate(lvl.Records); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func validate(records []Record) error {
	for i, r := range records {
		if err := r.validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// Load reads a level by file name. ".json" files are parsed, ".tengo"
// files are run with the given parameters.
func Load(name string, params Params) (*Level, error) {
	data, err := read(name)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", name, err)
	}
	var lvl *Level
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		lvl, err = Parse(data)
	case ".tengo":
		lvl, err = RunScript(data, params)
	default:
		return nil, fmt.Errorf("level %s: unsupported format", name)
	}
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(path.Base(cleanLevelPath(name)), path.Ext(name))
	}
	return lvl, nil
}
