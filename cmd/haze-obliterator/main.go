package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"haze-obliterator/internal/config"
	"haze-obliterator/internal/dehaze"
	"haze-obliterator/internal/gui"
	"haze-obliterator/internal/logger"
	"haze-obliterator/internal/pipeline"
	"haze-obliterator/internal/render"
)

const AppVersion = "1.0.0"

type options struct {
	input       string
	output      string
	configPath  string
	stagesDir   string
	orientation string
	workers     int
	view        bool
	debug       bool
	printConfig bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.input, "in", "", "hazy input image (required)")
	flag.StringVar(&opts.output, "out", "", "where to write the recovered image (png, jpg, bmp, tiff, webp)")
	flag.StringVar(&opts.configPath, "config", "", "YAML file overriding the default parameters")
	flag.StringVar(&opts.stagesDir, "stages", "", "directory to write every intermediate stage as PNG")
	flag.StringVar(&opts.orientation, "colorbar", "horizontal", "colorbar orientation in the viewer: horizontal or vertical")
	flag.IntVar(&opts.workers, "workers", -1, "pixel worker count, 0 for GOMAXPROCS (default from config)")
	flag.BoolVar(&opts.view, "view", false, "show every stage in a window after processing")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flag.BoolVar(&opts.printConfig, "print-config", false, "print the effective configuration as YAML and exit")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	level := logger.ParseLevel(os.Getenv("LOG_LEVEL"), opts.debug || os.Getenv("DEBUG") == "1")
	log := logger.NewConsoleLogger(level)

	if err := run(opts, log); err != nil {
		log.Error("Main", err, nil)
		if errors.Is(err, dehaze.ErrInvalidConfig) || errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("usage error")

func run(opts options, log logger.Logger) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.workers >= 0 {
		cfg.Workers = opts.workers
	}

	if opts.printConfig {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if opts.input == "" {
		flag.Usage()
		return fmt.Errorf("%w: -in is required", errUsage)
	}
	if opts.output == "" && opts.stagesDir == "" && !opts.view {
		return fmt.Errorf("%w: nothing to do, give -out, -stages or -view", errUsage)
	}

	orientation, err := render.ParseOrientation(opts.orientation)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	log.Info("Main", "haze obliterator starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"workers":    cfg.Workers,
	})

	coordinator := pipeline.NewCoordinator(cfg, log)

	if _, err := coordinator.LoadImage(opts.input); err != nil {
		return err
	}

	result, err := coordinator.ProcessImage()
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := coordinator.SaveImage(opts.output); err != nil {
			return err
		}
	}

	if opts.stagesDir != "" {
		if err := coordinator.SaveStages(opts.stagesDir, orientation); err != nil {
			return err
		}
	}

	coordinator.LogTimings()

	if opts.view {
		figs, err := render.StageFigures(result, orientation)
		if err != nil {
			return err
		}
		gui.Show(figs, log)
	}

	return nil
}
