// Package config loads the YAML configuration of the tracking programs
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/swdee/go-pitchtrack"
	"github.com/swdee/go-pitchtrack/export"
	"github.com/swdee/go-pitchtrack/heatmap"
	"github.com/swdee/go-pitchtrack/postprocess"
	"gopkg.in/yaml.v3"
)

// fallback detector frame size used when no video is available to take it
// from
const (
	fallbackWidth  = 800
	fallbackHeight = 600
)

// Default returns the configuration used when no file is given
func Default() Config {

	hp := heatmap.DefaultParams()
	yp := postprocess.YOLOv8COCOParams()

	return Config{
		Tracking: TrackingConfig{
			DistanceGate: pitchtrack.DefaultOptions().DistanceGate,
			DetectEvery:  pitchtrack.DefaultDetectEvery,
			Class:        "person",
		},
		Heatmap: HeatmapConfig{
			Sigma:        hp.Sigma,
			MinWeight:    hp.MinWeight,
			MaxWeight:    hp.MaxWeight,
			Threshold:    heatmap.DefaultThreshold,
			RefreshEvery: pitchtrack.DefaultRefreshEvery,
			Width:        400,
			Height:       300,
		},
		Plane: PlaneConfig{
			Width:  400,
			Height: 300,
			Margin: 0.1,
		},
		Detector: DetectorConfig{
			Model:        "../data/models/yolov8s.onnx",
			Labels:       "../data/coco_80_labels_list.txt",
			InputWidth:   640,
			InputHeight:  640,
			Classes:      yp.ObjectClassNum,
			BoxThreshold: float64(yp.BoxThreshold),
			NMSThreshold: float64(yp.NMSThreshold),
			MaxObjects:   yp.MaxObjectNumber,
		},
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
	}
}

// Load reads the YAML file over the defaults and validates the result.
// Settings missing from the file keep their default value.
func Load(path string) (Config, error) {

	cfg := Default()

	data, err := os.ReadFile(path)

	if err != nil {
		return cfg, fmt.Errorf("error reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks every section of the configuration
func (c Config) Validate() error {

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// SourceSize returns the detector frame size, falling back to 800x600 when
// the size is neither configured nor known from the video
func (c Config) SourceSize() (int, int) {

	w, h := c.Source.Width, c.Source.Height

	if w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}

	return w, h
}

// HeatmapParams returns the density aggregation parameters
func (c Config) HeatmapParams() heatmap.Params {

	w, h := c.SourceSize()

	return heatmap.Params{
		SourceWidth:  float64(w),
		SourceHeight: float64(h),
		Sigma:        c.Heatmap.Sigma,
		MinWeight:    c.Heatmap.MinWeight,
		MaxWeight:    c.Heatmap.MaxWeight,
	}
}

// SessionOptions returns the tracking session options
func (c Config) SessionOptions() pitchtrack.Options {
	return pitchtrack.Options{
		DistanceGate: c.Tracking.DistanceGate,
		Heatmap:      c.HeatmapParams(),
		FPS:          c.Source.FPS,
		DetectEvery:  c.Tracking.DetectEvery,
	}
}

// YOLOv8Params returns the detector post processing parameters
func (c Config) YOLOv8Params() postprocess.YOLOv8Params {
	return postprocess.YOLOv8Params{
		BoxThreshold:    float32(c.Detector.BoxThreshold),
		NMSThreshold:    float32(c.Detector.NMSThreshold),
		ObjectClassNum:  c.Detector.Classes,
		MaxObjectNumber: c.Detector.MaxObjects,
	}
}

// ExportTargets returns the files written when tracking finishes.  The
// interactive heatmap samples every fourth grid cell.
func (c Config) ExportTargets() export.Targets {
	return export.Targets{
		CSV:       c.Export.CSV,
		SQLite:    c.Export.SQLite,
		PNG:       c.Export.PNG,
		HTML:      c.Export.HTML,
		HTMLStep:  4,
		Threshold: c.Heatmap.Threshold,
	}
}
