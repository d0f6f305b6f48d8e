package config

// Config represents the complete configuration for the mapscan application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Analysis pipeline configuration
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// Segment artifact output
	Segments SegmentsConfig `mapstructure:"segments" yaml:"segments" json:"segments"`

	// Result cache
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" json:"cache"`
}

// PipelineConfig contains map analysis pipeline settings.
type PipelineConfig struct {
	// Object detection settings
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`

	// Text reading settings
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`

	// Border label extraction settings
	Border BorderConfig `mapstructure:"border" yaml:"border" json:"border"`

	// Concurrent job workers
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// DetectorConfig contains map object detection settings.
type DetectorConfig struct {
	ModelPath           string  `mapstructure:"model_path" yaml:"model_path" json:"model_path"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold" json:"confidence_threshold"`
	NumThreads          int     `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`
	MaxImageSize        int     `mapstructure:"max_image_size" yaml:"max_image_size" json:"max_image_size"`
}

// OCRConfig contains text reading settings.
type OCRConfig struct {
	Language      string  `mapstructure:"language" yaml:"language" json:"language"`
	MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence" json:"min_confidence"`
	Preprocess    bool    `mapstructure:"preprocess" yaml:"preprocess" json:"preprocess"`
}

// BorderConfig contains border label extraction settings.
type BorderConfig struct {
	MarginRatio float64 `mapstructure:"margin_ratio" yaml:"margin_ratio" json:"margin_ratio"`
}

// SegmentsConfig contains segment artifact output settings.
type SegmentsConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Size      int    `mapstructure:"size" yaml:"size" json:"size"`
}

// CacheConfig contains result cache settings.
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	MaxEntries int  `mapstructure:"max_entries" yaml:"max_entries" json:"max_entries"`
	TTLSeconds int  `mapstructure:"ttl_seconds" yaml:"ttl_seconds" json:"ttl_seconds"`
}
