// Package pipeline runs batch normalization over directories of payload
// files. Each *.json file is normalized independently; specs that come out
// drawable are exported in the configured format.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"viznorm/internal/config"
	"viznorm/internal/export"
	"viznorm/internal/logger"
	"viznorm/internal/normalizer"
)

var (
	// ErrNoPayloadFiles is returned when the input directory contains no JSON files.
	ErrNoPayloadFiles = errors.New("no payload files found in input directory")
)

// FileOutcome records the fate of a single payload file.
type FileOutcome struct {
	File        string            `json:"file"`
	Status      normalizer.Status `json:"status"`
	ErrorKind   string            `json:"errorKind,omitempty"`
	SeriesCount int               `json:"seriesCount,omitempty"`
	ExportPath  string            `json:"exportPath,omitempty"`
}

// RunResult contains the results of a batch run. Outcomes are indexed in
// file name order regardless of completion order.
type RunResult struct {
	RunID     string
	Duration  time.Duration
	Processed int
	Ready     int
	Failed    int
	Empty     int
	NoPayload int
	Exported  int
	Outcomes  []FileOutcome
	Errors    []error
}

// String returns a one-line summary of the run.
func (r *RunResult) String() string {
	return fmt.Sprintf("Run %s: Processed: %d | Ready: %d | Failed: %d | Empty: %d | Exported: %d | Duration: %v",
		r.RunID, r.Processed, r.Ready, r.Failed, r.Empty, r.Exported, r.Duration.Round(time.Millisecond))
}

// Runner normalizes every payload file in a directory with bounded
// concurrency and exports the specs that come out drawable.
type Runner struct {
	cfg      *config.Config
	norm     *normalizer.Normalizer
	exporter *export.Exporter
	logger   *logger.Logger
}

// NewRunner creates a new batch runner.
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		norm:     normalizer.NewNormalizer(),
		exporter: export.NewExporter(cfg),
		logger:   log,
	}
}

// Run normalizes every JSON file under inputDir concurrently, up to the
// configured pipeline concurrency. Read and export failures are collected
// per file; they never abort the rest of the batch.
func (r *Runner) Run(inputDir string) (*RunResult, error) {
	files, err := collectPayloadFiles(inputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPayloadFiles, inputDir)
	}

	result := &RunResult{
		RunID:    uuid.New().String(),
		Outcomes: make([]FileOutcome, len(files)),
	}

	r.logger.Info(fmt.Sprintf("Starting run %s: %d payload files", result.RunID, len(files)))
	start := time.Now()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		sem       = make(chan struct{}, r.concurrency())
		completed int
	)

	for i, file := range files {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome, err := r.processFile(path)

			mu.Lock()
			defer mu.Unlock()

			result.Outcomes[index] = outcome
			result.Processed++
			if err != nil {
				r.logger.Error(fmt.Sprintf("Failed to process %s: %v", outcome.File, err))
				result.Errors = append(result.Errors, err)
			}

			switch outcome.Status {
			case normalizer.StatusReady:
				result.Ready++
			case normalizer.StatusNoPayload:
				result.NoPayload++
			case normalizer.StatusError:
				result.Failed++
				if outcome.ErrorKind == string(normalizer.ErrorKindEmptyData) {
					result.Empty++
				}
			}

			if outcome.ExportPath != "" {
				result.Exported++
			}

			completed++
			if completed%10 == 0 || completed == len(files) {
				r.logger.Info(fmt.Sprintf("Run progress: %d/%d", completed, len(files)))
			}
		}(i, file)
	}

	wg.Wait()
	result.Duration = time.Since(start)

	return result, nil
}

// processFile normalizes a single payload file and exports the spec when
// the result is drawable. The raw file bytes are passed to the normalizer
// unchanged so encoded-string payloads decode the same way they would at
// runtime.
func (r *Runner) processFile(path string) (FileOutcome, error) {
	outcome := FileOutcome{File: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		return outcome, fmt.Errorf("failed to read %s: %w", outcome.File, err)
	}

	res := r.norm.Normalize(data, "")
	outcome.Status = res.Status

	switch {
	case res.Ready():
		outcome.SeriesCount = res.Spec.SeriesCount()

		exportPath, err := r.exporter.Export(res.Spec, exportName(path))
		if err != nil {
			return outcome, fmt.Errorf("failed to export %s: %w", outcome.File, err)
		}
		outcome.ExportPath = exportPath
	case res.Failed():
		outcome.ErrorKind = string(res.Err.Kind)
		r.logger.Warn(fmt.Sprintf("Normalization failed for %s: %s", outcome.File, res.Err.Message))
	}

	return outcome, nil
}

func (r *Runner) concurrency() int {
	n := r.cfg.Normalizer.Pipeline.Concurrency
	if n < 1 {
		n = 1
	}

	return n
}

// collectPayloadFiles lists the JSON files directly under dir in name
// order. Subdirectories are not walked.
func collectPayloadFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)

	return files, nil
}

func exportName(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
