// Package pipeline loads and validates the asteroid dataset at startup.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"neowatch/asteroid"
	"neowatch/config"
	"neowatch/db"
)

// StartupError means the dataset could not be loaded or violates its
// invariants; the process must not start serving.
type StartupError struct {
	Source string
	Err    error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup: load dataset from %s: %v", e.Source, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// ValidationFailure lists every quality issue found in a dataset.
type ValidationFailure struct {
	Issues []QualityIssue
}

func (v *ValidationFailure) Error() string {
	const shown = 5
	msgs := make([]string, 0, shown)
	for i, issue := range v.Issues {
		if i == shown {
			break
		}
		msgs = append(msgs, issue.String())
	}
	more := ""
	if len(v.Issues) > shown {
		more = fmt.Sprintf(" (and %d more)", len(v.Issues)-shown)
	}
	return fmt.Sprintf("%d invalid records: %s%s", len(v.Issues), strings.Join(msgs, "; "), more)
}

// DataIngester 数据集加载器
type DataIngester struct {
	config  config.DatasetConfig
	cleaner *DataCleaner
	logger  *zap.Logger
}

// NewDataIngester 创建数据集加载器
func NewDataIngester(cfg config.DatasetConfig, logger *zap.Logger) *DataIngester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataIngester{config: cfg, cleaner: NewDataCleaner(), logger: logger}
}

// Load reads the configured source, validates every record and returns the
// immutable dataset. All failures are *StartupError.
func (di *DataIngester) Load(ctx context.Context) (*asteroid.Dataset, error) {
	source := di.config.Source
	if source == "" {
		source = config.SourceSample
	}

	if err := ctx.Err(); err != nil {
		return nil, &StartupError{Source: source, Err: err}
	}

	records, err := di.read(source)
	if err != nil {
		return nil, &StartupError{Source: source, Err: err}
	}
	if issues := di.cleaner.Check(records); len(issues) > 0 {
		for _, issue := range issues {
			di.logger.Error("invalid dataset record",
				zap.Int("row", issue.Row), zap.String("rule", issue.Rule), zap.String("message", issue.Message))
		}
		return nil, &StartupError{Source: source, Err: &ValidationFailure{Issues: issues}}
	}

	di.logger.Info("dataset loaded",
		zap.String("source", source), zap.String("path", di.config.Path), zap.Int("records", len(records)))
	return asteroid.NewDataset(records), nil
}

func (di *DataIngester) read(source string) ([]asteroid.Record, error) {
	switch source {
	case config.SourceSample:
		return asteroid.SampleRecords(), nil
	case config.SourceCSV:
		f, err := os.Open(di.config.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return asteroid.ReadCSV(f)
	case config.SourceSQLite:
		// InitDB would create a missing file and yield an empty dataset
		if _, err := os.Stat(di.config.Path); err != nil {
			return nil, err
		}
		if err := db.InitDB(di.config.Path); err != nil {
			return nil, err
		}
		defer db.Close()
		return db.QueryAsteroids()
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}
