package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/refsched/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "datos")
				convey.So(cfg.StrictChannels, convey.ShouldResemble, []string{"ESPN"})
				convey.So(cfg.ProgressEvery, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("REFSCHED_DATA_DIR", "/srv/season")
			_ = os.Setenv("REFSCHED_NODE_LIMIT", "500000")
			_ = os.Setenv("REFSCHED_MEDIUM_TRIP_QUOTA", "5")
			_ = os.Setenv("REFSCHED_STRICT_CHANNELS", "ESPN, TNT")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/season")
				convey.So(cfg.NodeLimit, convey.ShouldEqual, 500000)
				convey.So(cfg.MediumTripQuota, convey.ShouldEqual, 5)
				convey.So(cfg.StrictChannels, convey.ShouldResemble, []string{"ESPN", "TNT"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
data_dir: "/data"
strict_channels:
  - ESPN
  - ABC
long_trip_quota: 2
initial_rest_days: 6
output_dir: "reports"
metrics_file: "reports/refsched.prom"
metrics_namespace: league
metrics_labels:
  season: "2018"
metrics_buckets: [0.01, 0.1, 1]
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/data")
				convey.So(cfg.StrictChannels, convey.ShouldResemble, []string{"ESPN", "ABC"})
				convey.So(cfg.LongTripQuota, convey.ShouldEqual, 2)
				convey.So(cfg.InitialRestDays, convey.ShouldEqual, 6)
				convey.So(cfg.OutputDir, convey.ShouldEqual, "reports")
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "reports/refsched.prom")
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "league")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "search") // From defaults
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"season": "2018"})
				convey.So(cfg.MetricsBuckets, convey.ShouldResemble, []float64{0.01, 0.1, 1})
				convey.So(cfg.MediumTripQuota, convey.ShouldEqual, 3) // From defaults
			})
		})

		convey.Convey("When the file path comes from the environment", func() {
			tmpFile := createTempConfigFile("data_dir: \"/from-env-file\"\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("REFSCHED_CONFIG", tmpFile)
			_ = os.Setenv("REFSCHED_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then file values and env overrides should both apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/from-env-file")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("REFSCHED_NODE_LIMIT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with negative quotas", func() {
			_ = os.Setenv("REFSCHED_LONG_TRIP_QUOTA", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty data dir", func() {
			_ = os.Setenv("REFSCHED_DATA_DIR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "data_dir must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"REFSCHED_CONFIG",
		"REFSCHED_LOG_LEVEL",
		"REFSCHED_DATA_DIR",
		"REFSCHED_NODE_LIMIT",
		"REFSCHED_MEDIUM_TRIP_QUOTA",
		"REFSCHED_LONG_TRIP_QUOTA",
		"REFSCHED_STRICT_CHANNELS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "refsched-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
