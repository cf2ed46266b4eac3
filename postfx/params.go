package postfx

import (
	"image/color"

	"github.com/milk9111/waterjam/config"
)

// Kernel is a radial blur: Dirs directions evenly spaced around the
// circle, Samples taps along each direction out to Radius pixels. The
// result is normalized by the total tap count, center included.
type Kernel struct {
	Dirs    int
	Samples int
	Radius  float64
}

// Taps is the number of samples one output pixel reads.
func (k Kernel) Taps() int { return 1 + k.Dirs*k.Samples }

// Max kernel size supported by the shaders.
const (
	MaxDirs    = 32
	MaxSamples = 8
)

func (k Kernel) clamped() Kernel {
	k.Dirs = min(max(k.Dirs, 1), MaxDirs)
	k.Samples = min(max(k.Samples, 1), MaxSamples)
	return k
}

// WaterParams drive the refraction pass. The wave field is a sum of Steps
// cosine waves rotated by 2π/Angle each.
type WaterParams struct {
	Speed     float64
	SpeedX    float64
	SpeedY    float64
	Emboss    float64
	Intensity float64
	Steps     int
	Frequency float64
	Angle     int
	Delta     float64
	Gain      float64
	Tint      color.RGBA

	// Pixels of the silhouette near its border are brightened by EdgeGain
	// once per edge tap that falls outside of it.
	Edge     Kernel
	EdgeGain float64
}

// Params configure every pass of a Pipeline.
type Params struct {
	// ParticleSize is the side of the quad drawn per particle, in pixels.
	ParticleSize float64
	Blur         Kernel
	// Threshold is the alpha at or below which the blurred cloud is cut.
	Threshold float64
	Marker    color.RGBA
	Water     WaterParams
	EdgeBlur  Kernel
}

// DefaultWater is the wave field tuned for a 1280 px wide window.
func DefaultWater() WaterParams {
	return WaterParams{
		Speed:     0.03,
		SpeedX:    0.075,
		SpeedY:    0.075,
		Emboss:    0.4,
		Intensity: 0.7,
		Steps:     8,
		Frequency: 12,
		Angle:     7,
		Delta:     60,
		Gain:      700,
		Tint:      color.RGBA{48, 210, 255, 255},
		Edge:      Kernel{Dirs: 16, Samples: 3, Radius: 4.5},
		EdgeGain:  5,
	}
}

// Preset returns the parameters for a graphics quality level. particleSize
// is the particle quad side in pixels.
func Preset(q config.Quality, particleSize float64) Params {
	p := Params{
		ParticleSize: particleSize,
		Threshold:    0.2,
		Marker:       color.RGBA{255, 255, 255, 255},
		Water:        DefaultWater(),
	}
	switch q {
	case config.QualityLow:
		p.Blur = Kernel{Dirs: 8, Samples: 2, Radius: 8}
		p.EdgeBlur = Kernel{Dirs: 8, Samples: 2, Radius: 4}
		p.Water.Edge = Kernel{Dirs: 8, Samples: 1, Radius: 4.5}
	case config.QualityMedium:
		p.Blur = Kernel{Dirs: 16, Samples: 3, Radius: 10}
		p.EdgeBlur = Kernel{Dirs: 16, Samples: 4, Radius: 4}
		p.Water.Edge = Kernel{Dirs: 12, Samples: 2, Radius: 4.5}
	default:
		p.Blur = Kernel{Dirs: 24, Samples: 3, Radius: 12}
		p.EdgeBlur = Kernel{Dirs: 24, Samples: 8, Radius: 4}
	}
	return p
}
