package postfx

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

// Shader names, one per pass.
const (
	ShaderParticle  = "particle"
	ShaderBlur      = "blur"
	ShaderThreshold = "threshold"
	ShaderWater     = "water"
	ShaderEdgeBlur  = "edgeblur"
)

var shaderNames = []string{ShaderParticle, ShaderBlur, ShaderThreshold, ShaderWater, ShaderEdgeBlur}

// ShaderSource returns the Kage source of a shader. When dir is set, a
// file of the same name there overrides the embedded copy.
func ShaderSource(dir, name string) ([]byte, error) {
	file := name + ".kage"
	if dir != "" {
		if b, err := os.ReadFile(path.Join(dir, file)); err == nil {
			return b, nil
		}
	}
	b, err := fs.ReadFile(shaderFS, path.Join("shaders", file))
	if err != nil {
		return nil, fmt.Errorf("postfx: shader %q: %w", name, err)
	}
	return b, nil
}
