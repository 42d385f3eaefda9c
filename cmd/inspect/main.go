// Package main provides the inspect command-line tool for validating raw
// visualization payloads before a producer ships them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"viznorm/internal/config"
	"viznorm/internal/formatter"
	"viznorm/internal/normalizer"
	"viznorm/internal/validator"
	"viznorm/pkg/fingerprint"
)

func main() {
	inputPath := flag.String("input", "", "Path to payload JSON file")
	strict := flag.Bool("strict", false, "Treat schema violations as errors instead of warnings")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: inspect -input <payload.json> [-strict]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := loadConfig(*configFile)
	if *strict {
		cfg.Normalizer.Validation.Strict = true
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading payload file: %v\n", err)
	}

	fmt.Printf("📂 Inspecting: %s (%d bytes)\n", *inputPath, len(data))

	v, err := validator.NewPayloadValidator(cfg)
	if err != nil {
		log.Fatalf("Error building validator: %v\n", err)
	}

	result := v.Validate(data)

	fmt.Println()
	fmt.Println(result.String())
	result.PrintErrors()
	result.PrintWarnings()

	// Same identity the session tracker uses to skip renormalization.
	var payload any
	if err := json.Unmarshal(data, &payload); err == nil {
		if fp, err := fingerprint.Compute(payload); err == nil {
			fmt.Printf("\n🔑 Fingerprint: %s\n", fingerprint.Short(fp))
		}
	}

	normResult := normalizer.NewNormalizer().Normalize(data, "")

	fmt.Println()
	fmt.Println(formatter.NewFormatter(cfg).FormatResult(normResult))

	if !result.IsValid {
		os.Exit(1)
	}
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
