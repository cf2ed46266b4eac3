package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/config"
	"github.com/milk9111/waterjam/levels"
	"github.com/milk9111/waterjam/physics"
	"github.com/milk9111/waterjam/postfx"
	"github.com/milk9111/waterjam/stats"
	"golang.org/x/image/draw"
)

const passSeries = "postfx"

func main() {
	count := flag.Int("n", 2000, "number of particles")
	frames := flag.Int("frames", 120, "frames to simulate")
	width := flag.Int("w", 640, "render width")
	height := flag.Int("h", 360, "render height")
	quality := flag.String("quality", string(config.QualityMedium), "kernel preset: low, medium or high")
	level := flag.String("level", "basin.tengo", "level file in levels/, empty for none")
	out := flag.String("out", "bench", "directory receiving one subdirectory per run")
	scale := flag.Float64("scale", 0.5, "scale of the written pass images")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	common.SetDebug(*debug)
	logger := common.WithPrefix("waterbench")

	q := config.Quality(*quality)
	switch q {
	case config.QualityLow, config.QualityMedium, config.QualityHigh:
	default:
		logger.Error("unknown quality", "quality", *quality)
		os.Exit(2)
	}

	world := physics.NewWorld(physics.DefaultConfig())
	defer world.Close()

	w, h := float64(*width), float64(*height)
	if *level != "" {
		lvl, err := levels.Load(*level, levels.Params{Width: w / physics.Scale, Height: h / physics.Scale})
		if err != nil {
			logger.Error("failed to load level", "level", *level, "err", err)
			os.Exit(1)
		}
		for _, r := range lvl.Records {
			if _, err := world.Spawn(r.Def()); err != nil {
				logger.Error("failed to spawn wall", "err", err)
				os.Exit(1)
			}
		}
	}

	const radius = 0.7
	mat := physics.Material{Restitution: 0.85, Density: 1}
	cols := max(1, int(w/6)-2)
	for i := range *count {
		pos := common.V(float64(i%cols)*6+6, float64(i/cols)*6+6)
		if _, err := world.SpawnCircle(physics.ToWorld(pos), radius, mat, false); err != nil {
			logger.Error("failed to spawn particle", "err", err)
			os.Exit(1)
		}
	}

	dev := postfx.NewSoftDevice()
	pipeline := postfx.NewPipeline[*image.RGBA](dev, *width, *height, postfx.Preset(q, radius*2*physics.Scale))
	defer pipeline.Close()

	background := dev.NewTarget(*width, *height)
	draw.Draw(background, background.Bounds(), &image.Uniform{color.RGBA{14, 12, 28, 255}}, image.Point{}, draw.Src)
	composite := dev.NewTarget(*width, *height)

	acc := stats.NewAccumulator(*frames, stats.Physics, passSeries, stats.Frame)
	buf := postfx.NewParticleBuffer(*count)
	logger.Info("running", "particles", *count, "frames", *frames, "size", fmt.Sprintf("%dx%d", *width, *height), "quality", q)

	for frame := range *frames {
		start := time.Now()

		done := acc.Profile(stats.Physics)
		world.Step()
		done()

		buf.Reset()
		for _, b := range world.Bodies() {
			if !b.Static() {
				buf.Append(b.ScreenPosition())
			}
		}

		done = acc.Profile(passSeries)
		pipeline.Run(buf.Points(), background, composite, float64(frame)*world.FixedStep())
		done()

		acc.Record(stats.Frame, time.Since(start))
	}

	dir := filepath.Join(*out, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("failed to create output directory", "err", err)
		os.Exit(1)
	}
	for _, pass := range postfx.Passes {
		name := filepath.Join(dir, fmt.Sprintf("%d-%s.png", pass, pass))
		if err := writeScaled(name, pipeline.Target(pass), *scale); err != nil {
			logger.Error("failed to write pass", "pass", pass, "err", err)
			os.Exit(1)
		}
	}

	logger.Info("wrote passes", "dir", dir)
	fmt.Print(acc.Report())
}

func writeScaled(name string, src *image.RGBA, scale float64) error {
	b := src.Bounds()
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
