package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/swdee/go-pitchtrack/heatmap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "config.yml")

	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	return file
}

func TestDefaultValidates(t *testing.T) {

	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Tracking.DistanceGate != 30 || cfg.Tracking.DetectEvery != 2 {
		t.Errorf("unexpected tracking defaults %+v", cfg.Tracking)
	}

	if cfg.Heatmap.RefreshEvery != 5 || cfg.Heatmap.Threshold != 0.01 {
		t.Errorf("unexpected heatmap defaults %+v", cfg.Heatmap)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {

	file := writeConfig(t, `
source:
  video: match.mp4
  fps: 25
tracking:
  distance_gate: 45
export:
  csv: out.csv
`)

	cfg, err := Load(file)

	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Tracking.DistanceGate != 45 || cfg.Tracking.DetectEvery != 2 ||
		cfg.Tracking.Class != "person" {
		t.Errorf("unexpected tracking section %+v", cfg.Tracking)
	}

	if cfg.Source.Video != "match.mp4" || cfg.Export.CSV != "out.csv" {
		t.Errorf("file values not applied")
	}

	opts := cfg.SessionOptions()

	if opts.FPS != 25 || opts.DistanceGate != 45 {
		t.Errorf("unexpected session options %+v", opts)
	}
}

func TestLoadInvalid(t *testing.T) {

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"zero gate", "tracking:\n  distance_gate: 0\n", "DistanceGate"},
		{"weights inverted", "heatmap:\n  min_weight: 3\n  max_weight: 1\n", "MaxWeight"},
		{"margin too large", "plane:\n  margin: 0.5\n", "Margin"},
		{"bad addr", "server:\n  addr: nope\n", "Addr"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {

			_, err := Load(writeConfig(t, tc.body))

			if err == nil {
				t.Fatalf("expected validation error")
			}

			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error for %s, got %v", tc.field, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestHeatmapParams(t *testing.T) {

	cfg := Default()

	want := heatmap.DefaultParams()

	if diff := cmp.Diff(want, cfg.HeatmapParams()); diff != "" {
		t.Errorf("heatmap params mismatch (-want +got):\n%s", diff)
	}

	cfg.Source.Width = 1280
	cfg.Source.Height = 720

	if p := cfg.HeatmapParams(); p.SourceWidth != 1280 || p.SourceHeight != 720 {
		t.Errorf("expected configured source size, got %vx%v", p.SourceWidth, p.SourceHeight)
	}
}

func TestYOLOv8Params(t *testing.T) {

	p := Default().YOLOv8Params()

	if p.ObjectClassNum != 80 || p.BoxThreshold != 0.25 || p.NMSThreshold != 0.45 {
		t.Errorf("unexpected detector params %+v", p)
	}
}

func TestExportTargets(t *testing.T) {

	cfg := Default()
	cfg.Export.CSV = "tracks.csv"
	cfg.Export.HTML = "heatmap.html"

	tg := cfg.ExportTargets()

	if tg.CSV != "tracks.csv" || tg.HTML != "heatmap.html" || tg.SQLite != "" {
		t.Errorf("unexpected targets %+v", tg)
	}

	if tg.Threshold != cfg.Heatmap.Threshold {
		t.Errorf("expected heatmap threshold carried, got %v", tg.Threshold)
	}
}

func TestLoadExampleConfig(t *testing.T) {

	cfg, err := Load("../example/stream/config.yml")

	if err != nil {
		t.Fatalf("load example config: %v", err)
	}

	if cfg.Export.Detections != "detections.csv" || cfg.Detector.InputWidth != 640 {
		t.Errorf("unexpected example config %+v", cfg)
	}
}
