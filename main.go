package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/assets"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/config"
	"github.com/milk9111/waterjam/engine"
	"github.com/milk9111/waterjam/game"
	"github.com/milk9111/waterjam/levels"
)

func main() {
	settings := flag.String("config", "settings.toml", "settings file, relative to the working directory")
	debug := flag.Bool("debug", false, "enable debug mode and shader hot reload")
	start := flag.String("scene", "menu", "scene to start in (menu or water)")
	levelName := flag.String("level", "basin.tengo", "level file in levels/ (.json or .tengo)")
	assetDir := flag.String("assets", "", "directory searched before the embedded assets")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	common.SetDebug(*debug)
	logger := common.WithPrefix("main")

	cfg, err := config.NewLoader(".").Load(*settings)
	if err != nil {
		logger.Error("failed to load settings", "err", err)
		os.Exit(1)
	}

	lib, err := assets.Open(assets.FS(*assetDir))
	if err != nil {
		logger.Error("failed to open assets", "err", err)
		os.Exit(1)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	w, h, err := engine.SetupWindow(cfg, lib)
	if err != nil {
		logger.Error("failed to size window", "err", err)
		os.Exit(1)
	}

	if *debug {
		levels.Dir = "levels"
		game.ShaderDir = "postfx/shaders"
	}

	e := engine.New(engine.Options{
		Config: cfg,
		Assets: lib,
		Width:  w,
		Height: h,
		Debug:  *debug,
	})
	e.AddScene("menu", game.NewMenu())
	e.AddScene("water", game.NewWater(*levelName))
	if err := e.SetScene(*start); err != nil {
		logger.Error("failed to start", "scene", *start, "err", err)
		os.Exit(1)
	}

	logger.Info("starting", "title", cfg.Engine.Title, "width", w, "height", h, "quality", cfg.Engine.GraphicsQuality)
	if err := e.Run(); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}
