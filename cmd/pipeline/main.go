// Package main provides the pipeline command that batch-normalizes a
// directory of payload files and exports the drawable specs.
package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"strings"

	"viznorm/internal/config"
	"viznorm/internal/logger"
	"viznorm/internal/pipeline"
)

func main() {
	// 1. Define Command-Line Flags
	// ---------------------------
	inputDir := flag.String("input-dir", "", "Directory containing payload JSON files")
	outputDir := flag.String("output-dir", "", "Directory for exported files (default: from config)")
	format := flag.String("format", "", "Export format: json, csv, or xlsx (default: from config)")
	concurrency := flag.Int("concurrency", 0, "Number of files normalized in parallel (default: from config)")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg := loadConfig(*configFile)
	if *outputDir != "" {
		cfg.Normalizer.Export.OutputDir = *outputDir
	}

	if *format != "" {
		cfg.Normalizer.Export.Format = strings.ToLower(*format)
	}

	if *concurrency > 0 {
		cfg.Normalizer.Pipeline.Concurrency = *concurrency
	}

	log := logger.NewLogger(cfg.Normalizer.Logging.Level, cfg.Normalizer.Logging.Format)

	if *inputDir == "" {
		log.Error("Please provide an input directory with -input-dir flag")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Error(fmt.Sprintf("Invalid configuration: %v", err))
		os.Exit(1)
	}

	log.Info("🚀 Starting batch normalization")
	log.Info(fmt.Sprintf("📍 Source: %s", *inputDir))
	log.Info(fmt.Sprintf("🎯 Output: %s (%s)", cfg.Normalizer.Export.OutputDir, cfg.Normalizer.Export.Format))

	// 2. Run the Batch
	// ----------------
	runner := pipeline.NewRunner(cfg, log)

	result, err := runner.Run(*inputDir)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Run failed: %v", err))
		os.Exit(1)
	}

	// 3. Final Report
	// ---------------
	log.Info("✨ Batch Complete!")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Processed: %d\n", result.Processed)
	fmt.Printf("Ready: %d\n", result.Ready)
	fmt.Printf("Failed: %d (empty: %d)\n", result.Failed, result.Empty)
	fmt.Printf("No Payload: %d\n", result.NoPayload)
	fmt.Printf("Exported: %d\n", result.Exported)
	fmt.Printf("Total Duration: %v\n", result.Duration)

	if len(result.Errors) > 0 {
		fmt.Printf("⚠️  Errors encountered: %d\n", len(result.Errors))

		for _, e := range result.Errors {
			fmt.Printf("  - %v\n", e)
		}
	}

	fmt.Println("------------------------------------------------")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		if _, err := os.Stat("configs/normalizer.yaml"); err == nil {
			path = "configs/normalizer.yaml"
		}
	}

	if path == "" {
		return config.DefaultConfig()
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		stdlog.Printf("⚠️  Failed to load config: %v (proceeding with defaults)\n", err)

		return config.DefaultConfig()
	}

	return cfg
}
