// Command predict runs the prediction workflow over JSON records from
// a file or stdin, without the HTTP server. Useful for scripted batch
// scoring against the same artifact the server uses.
//
// Usage:
//
//	predict [-model path] [-input records.json]
//
// Input is a single JSON object or an array of objects with the 13
// clinical feature keys. The batch result is written to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/heart-risk-server/internal/config"
	"github.com/heart-risk-server/internal/domain"
	"github.com/heart-risk-server/internal/logging"
	"github.com/heart-risk-server/internal/model"
	"github.com/heart-risk-server/internal/service"
)

func main() {
	modelPath := flag.String("model", "", "path to the model artifact (overrides configuration)")
	inputPath := flag.String("input", "-", "path to a JSON record or record array, '-' for stdin")
	flag.Parse()

	if err := run(*modelPath, *inputPath); err != nil {
		fmt.Fprintf(os.Stderr, "predict: %v\n", err)
		os.Exit(1)
	}
}

func run(modelPath, inputPath string) error {
	configManager, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg := configManager.GetConfig()
	if modelPath != "" {
		cfg.Model.Path = modelPath
	}

	logger := logging.NewLogger(&domain.LoggingConfig{Level: "warn", Format: "text"})

	records, err := readRecords(inputPath)
	if err != nil {
		return err
	}
	if len(records) > cfg.Model.MaxBatch {
		return fmt.Errorf("batch of %d records exceeds limit %d", len(records), cfg.Model.MaxBatch)
	}

	gateway := model.NewGateway(logger, cfg.Model.Path)
	orchestrator := service.NewPredictorService(
		logger,
		service.NewNormalizerService(),
		service.NewValidatorService(),
		gateway,
	)

	result, err := orchestrator.Handle(context.Background(), records)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// readRecords decodes one record or an array of records from the
// input source.
func readRecords(path string) ([]domain.RawRecord, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer file.Close()
		reader = file
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var records []domain.RawRecord
	if err := json.Unmarshal(data, &records); err == nil {
		if len(records) == 0 {
			return nil, fmt.Errorf("input contains no records")
		}
		return records, nil
	}

	var single domain.RawRecord
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("input is not a JSON record or record array: %w", err)
	}
	return []domain.RawRecord{single}, nil
}
