package config_test

import (
	"errors"
	"testing"

	"github.com/okian/jobaccept/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DatasetTable, convey.ShouldEqual, "candidates")
			convey.So(cfg.ArtifactSource, convey.ShouldEqual, config.ArtifactSourceFile)
			convey.So(cfg.ModelFile, convey.ShouldEqual, "job_acceptance_model.json")
			convey.So(cfg.TargetEncoderFile, convey.ShouldEqual, "target_encoder.json")
			convey.So(cfg.FeatureEncodersFile, convey.ShouldEqual, "feature_encoders.json")
			convey.So(cfg.ScalerFile, convey.ShouldEqual, "scaler.json")
			convey.So(cfg.RequireArtifacts, convey.ShouldBeFalse)
			convey.So(cfg.PredictionCacheSize, convey.ShouldEqual, 1024)
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with s3 source", t, func() {
		cfg := config.New()
		cfg.ArtifactSource = config.ArtifactSourceS3

		convey.Convey("When the bucket is missing", func() {
			err := cfg.Validate()

			convey.Convey("Then validation should fail naming the bucket", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "S3Bucket")
			})
		})

		convey.Convey("When the bucket is set", func() {
			cfg.S3Bucket = "models"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When an access key is given without a secret", func() {
			cfg.S3Bucket = "models"
			cfg.S3AccessKey = "AKIDEXAMPLE"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "S3SecretKey")
		})
	})

	convey.Convey("Given a config with invalid values", t, func() {
		cfg := config.New()

		convey.Convey("When the source is unknown", func() {
			cfg.ArtifactSource = "ftp"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the cache size is negative", func() {
			cfg.PredictionCacheSize = -1
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "PredictionCacheSize")
		})

		convey.Convey("When the log level is unknown", func() {
			cfg.LogLevel = "verbose"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the addr is empty", func() {
			cfg.Addr = ""
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
		})
	})
}
