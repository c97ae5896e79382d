// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, .env, an optional YAML file and JOBACCEPT_ env vars.
// - External errors are wrapped with this package's sentinels.
package config

// Artifact source kinds.
const (
	ArtifactSourceFile = "file"
	ArtifactSourceS3   = "s3"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFile enables a rotated log file next to stdout when set.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb" validate:"gte=0"`
	LogMaxBackups int    `koanf:"log_max_backups" validate:"gte=0"`
	LogMaxAgeDays int    `koanf:"log_max_age_days" validate:"gte=0"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// DatasetPath points at the historical candidates file (.csv, .db, .sqlite).
	DatasetPath string `koanf:"dataset_path"`

	// DatasetTable names the table read when DatasetPath is a SQLite database.
	DatasetTable string `koanf:"dataset_table"`

	// ArtifactSource selects where trained artifacts are read from.
	ArtifactSource string `koanf:"artifact_source" validate:"oneof=file s3"`
	ArtifactDir    string `koanf:"artifact_dir"`

	S3Bucket   string `koanf:"s3_bucket" validate:"required_if=ArtifactSource s3"`
	S3Prefix   string `koanf:"s3_prefix"`
	S3Region   string `koanf:"s3_region"`
	S3Endpoint string `koanf:"s3_endpoint"`

	// Static S3 credentials. When empty the default AWS credential chain is used.
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key" validate:"required_with=S3AccessKey"`

	// Artifact object names, relative to ArtifactDir or S3Prefix.
	ModelFile           string `koanf:"model_file" validate:"required"`
	TargetEncoderFile   string `koanf:"target_encoder_file" validate:"required"`
	FeatureEncodersFile string `koanf:"feature_encoders_file" validate:"required"`
	ScalerFile          string `koanf:"scaler_file" validate:"required"`

	// RequireArtifacts turns a failed artifact load into a startup failure.
	RequireArtifacts bool `koanf:"require_artifacts"`

	// PredictionCacheSize bounds the LRU of recent predictions; 0 disables it.
	PredictionCacheSize int `koanf:"prediction_cache_size" validate:"gte=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogMaxSizeMB:        50,
		LogMaxBackups:       3,
		LogMaxAgeDays:       14,
		Addr:                ":9080",
		DatasetPath:         "data/job_acceptance.csv",
		DatasetTable:        "candidates",
		ArtifactSource:      ArtifactSourceFile,
		ArtifactDir:         "models",
		S3Region:            "us-east-1",
		ModelFile:           "job_acceptance_model.json",
		TargetEncoderFile:   "target_encoder.json",
		FeatureEncodersFile: "feature_encoders.json",
		ScalerFile:          "scaler.json",
		PredictionCacheSize: 1024,
	}
}
