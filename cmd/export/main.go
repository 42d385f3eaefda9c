// Package main provides the export command-line tool for converting a
// payload straight to a JSON, CSV, or XLSX file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"viznorm/internal/config"
	"viznorm/internal/export"
	"viznorm/internal/formatter"
	"viznorm/internal/normalizer"
)

func main() {
	inputPath := flag.String("input", "", "Path to payload JSON file")
	format := flag.String("format", "", "Export format: json, csv, or xlsx (default: from config)")
	outputDir := flag.String("output-dir", "", "Directory for exported files (default: from config)")
	responseText := flag.String("text", "", "Chat response text used to infer a chart kind when the payload declares none")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: export -input <payload.json> [-format json|csv|xlsx] [-output-dir <dir>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := loadConfig(*configFile)
	if *format != "" {
		cfg.Normalizer.Export.Format = strings.ToLower(*format)
	}

	if *outputDir != "" {
		cfg.Normalizer.Export.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v\n", err)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading payload file: %v\n", err)
	}

	fmt.Printf("📂 Reading: %s (%d bytes)\n", *inputPath, len(data))

	result := normalizer.NewNormalizer().Normalize(data, *responseText)
	if !result.Ready() {
		fmt.Println(formatter.NewFormatter(cfg).FormatResult(result))
		os.Exit(1)
	}

	name := strings.TrimSuffix(filepath.Base(*inputPath), filepath.Ext(*inputPath))

	path, err := export.NewExporter(cfg).Export(result.Spec, name)
	if err != nil {
		log.Fatalf("Error exporting chart spec: %v\n", err)
	}

	fmt.Printf("✅ Exported %d series to: %s\n", result.Spec.SeriesCount(), path)
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
		log.Printf("⚠️  Failed to load config: %v (proceeding with defaults)\n", err)

		return config.DefaultConfig()
	}

	return cfg
}
