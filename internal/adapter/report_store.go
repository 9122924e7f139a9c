package adapter

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	m "github.com/frost-works/permafrost/internal/model"
)

// ReportStore persists and retrieves freeze results.
type ReportStore interface {
	SaveResults(path m.Path, results []m.FileResult) error
	LoadResults(path m.Path) ([]m.FileResult, error)
}

// resultsDocument is the TOML document shape the store reads and writes.
type resultsDocument struct {
	Results []m.FileResult `toml:"results"`
}

type reportStore struct{}

// NewReportStore constructs a ReportStore backed by a TOML file.
func NewReportStore() ReportStore {
	return &reportStore{}
}

func (rs *reportStore) SaveResults(path m.Path, results []m.FileResult) error {
	f, err := os.Create(string(path))
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	if err := toml.NewEncoder(f).Encode(resultsDocument{Results: results}); err != nil {
		return fmt.Errorf("encoding report file: %w", err)
	}

	return nil
}

func (rs *reportStore) LoadResults(path m.Path) ([]m.FileResult, error) {
	var doc resultsDocument

	if _, err := toml.DecodeFile(string(path), &doc); err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}

	return doc.Results, nil
}
