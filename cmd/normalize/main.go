// Package main provides the normalize command-line tool for converting raw
// visualization payloads into canonical chart specs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"viznorm/internal/config"
	"viznorm/internal/export"
	"viznorm/internal/formatter"
	"viznorm/internal/models"
	"viznorm/internal/normalizer"
)

func main() {
	inputPath := flag.String("input", "", "Path to payload JSON file, or - for stdin")
	responseText := flag.String("text", "", "Chat response text used to infer a chart kind when the payload declares none")
	outputPath := flag.String("output", "", "Path to write the chart spec JSON (default: print summary only)")
	render := flag.Bool("render", false, "Write the data/layout/config render document instead of the canonical spec")
	pretty := flag.Bool("pretty", false, "Indent the chart spec JSON output")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: normalize -input <payload.json|-> [-text <response text>] [-output <spec.json>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := loadConfig(*configFile)
	if *pretty {
		cfg.Normalizer.Export.PrettyPrint = true
	}

	source := *inputPath
	if source == "-" {
		source = "stdin"
	}

	data, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("Error reading payload: %v\n", err)
	}

	fmt.Printf("📂 Reading: %s (%d bytes)\n", source, len(data))

	result := normalizer.NewNormalizer().Normalize(data, *responseText)

	fmt.Println()
	fmt.Println(formatter.NewFormatter(cfg).FormatResult(result))

	if result.Failed() {
		os.Exit(1)
	}

	if *outputPath != "" && result.Ready() {
		if *render {
			err = writeRenderDocument(cfg, result.Spec, *outputPath)
		} else {
			err = export.NewExporter(cfg).ExportJSON(result.Spec, *outputPath)
		}

		if err != nil {
			log.Fatalf("Error writing chart spec: %v\n", err)
		}

		fmt.Printf("✅ Saved to: %s\n", *outputPath)
	}
}

// readInput loads the payload from path, or from stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}

// writeRenderDocument saves the spec in the shape Plotly-style renderers
// consume directly.
func writeRenderDocument(cfg *config.Config, spec *models.ChartSpec, path string) error {
	var (
		data []byte
		err  error
	)

	if cfg.Normalizer.Export.PrettyPrint {
		data, err = json.MarshalIndent(spec.RenderDocument(), "", "  ")
	} else {
		data, err = json.Marshal(spec.RenderDocument())
	}

	if err != nil {
		return fmt.Errorf("failed to marshal render document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
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
