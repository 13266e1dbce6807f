package config

// SourceConfig describes the video being tracked
type SourceConfig struct {
	// Video is the input video file
	Video string `yaml:"video"`
	// Width and Height of the detector frame, zero takes them from the video
	Width  int `yaml:"width" validate:"gte=0"`
	Height int `yaml:"height" validate:"gte=0"`
	// FPS of the video, zero takes it from the video
	FPS float64 `yaml:"fps" validate:"gte=0"`
}

// TrackingConfig contains the association settings
type TrackingConfig struct {
	DistanceGate float64 `yaml:"distance_gate" validate:"gt=0"`
	DetectEvery  int     `yaml:"detect_every" validate:"gt=0"`
	// Class is the detector label of the objects to track
	Class string `yaml:"class" validate:"required"`
}

// HeatmapConfig contains the density aggregation and refresh settings
type HeatmapConfig struct {
	Sigma        float64 `yaml:"sigma" validate:"gte=0"`
	MinWeight    float64 `yaml:"min_weight" validate:"gte=0"`
	MaxWeight    float64 `yaml:"max_weight" validate:"gtefield=MinWeight"`
	Threshold    float64 `yaml:"threshold" validate:"gte=0,lt=1"`
	RefreshEvery int     `yaml:"refresh_every" validate:"gt=0"`
	Width        int     `yaml:"width" validate:"gt=0"`
	Height       int     `yaml:"height" validate:"gt=0"`
}

// PlaneConfig contains the 2D pitch view settings
type PlaneConfig struct {
	Width  int     `yaml:"width" validate:"gt=0"`
	Height int     `yaml:"height" validate:"gt=0"`
	Margin float64 `yaml:"margin" validate:"gte=0,lt=0.5"`
}

// DetectorConfig contains the YOLOv8 model settings
type DetectorConfig struct {
	Model        string  `yaml:"model"`
	Labels       string  `yaml:"labels"`
	InputWidth   int     `yaml:"input_width" validate:"gt=0"`
	InputHeight  int     `yaml:"input_height" validate:"gt=0"`
	Classes      int     `yaml:"classes" validate:"gt=0"`
	BoxThreshold float64 `yaml:"box_threshold" validate:"gt=0,lt=1"`
	NMSThreshold float64 `yaml:"nms_threshold" validate:"gt=0,lte=1"`
	MaxObjects   int     `yaml:"max_objects" validate:"gt=0"`
}

// ExportConfig lists the files written when tracking finishes, empty paths
// are skipped
type ExportConfig struct {
	CSV        string `yaml:"csv"`
	SQLite     string `yaml:"sqlite"`
	PNG        string `yaml:"png"`
	HTML       string `yaml:"html"`
	Detections string `yaml:"detections"`
}

// ServerConfig contains the live stream server settings
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

// Config is the root configuration structure
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Tracking TrackingConfig `yaml:"tracking"`
	Heatmap  HeatmapConfig  `yaml:"heatmap"`
	Plane    PlaneConfig    `yaml:"plane"`
	Detector DetectorConfig `yaml:"detector"`
	Export   ExportConfig   `yaml:"export"`
	Server   ServerConfig   `yaml:"server"`
}
