package config_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/codecraftersknust/results-analytics-engine/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.SemestersPerYear, convey.ShouldEqual, 2)
				convey.So(cfg.ClusterCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RESULTS_ADDR", ":8080")
			_ = os.Setenv("RESULTS_QUEUE_SIZE", "128")
			_ = os.Setenv("RESULTS_WORKER_COUNT", "8")
			_ = os.Setenv("RESULTS_SEMESTERS_PER_YEAR", "3")
			_ = os.Setenv("RESULTS_CLUSTER_COUNT", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 128)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 8)
				convey.So(cfg.SemestersPerYear, convey.ShouldEqual, 3)
				convey.So(cfg.ClusterCount, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 32
worker_count: 2
max_datasets: 4
cluster_seed: 7
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RESULTS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 32)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
				convey.So(cfg.MaxDatasets, convey.ShouldEqual, 4)
				convey.So(cfg.ClusterSeed, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 32
worker_count: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RESULTS_CONFIG", tmpFile)
			_ = os.Setenv("RESULTS_ADDR", ":8080")     // This should override the file
			_ = os.Setenv("RESULTS_WORKER_COUNT", "6") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")   // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 32)   // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 6)  // Overridden by env
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RESULTS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RESULTS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("RESULTS_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid worker count", func() {
			_ = os.Setenv("RESULTS_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "worker_count must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
worker_count: 4
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RESULTS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")          // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)         // From file
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)          // From defaults
				convey.So(cfg.SemestersPerYear, convey.ShouldEqual, 2)    // From defaults
				convey.So(cfg.ClusterCount, convey.ShouldEqual, 4)        // From defaults
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"RESULTS_CONFIG",
		"RESULTS_ADDR",
		"RESULTS_QUEUE_SIZE",
		"RESULTS_WORKER_COUNT",
		"RESULTS_DEDUPE_SIZE",
		"RESULTS_MAX_DATASETS",
		"RESULTS_SEMESTERS_PER_YEAR",
		"RESULTS_CLUSTER_COUNT",
		"RESULTS_CLUSTER_SEED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "results-config-*.yaml")
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
