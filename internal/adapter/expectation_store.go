package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// ExpectationStore reads property expectation files.
type ExpectationStore interface {
	Load(ctx context.Context, path string) (*m.ExpectationFile, error)
}

type expectationStore struct{}

// NewExpectationStore returns a file-backed ExpectationStore.
func NewExpectationStore() ExpectationStore {
	return &expectationStore{}
}

// Load implements ExpectationStore. A relative design path inside the file
// is resolved against the file's directory.
func (s *expectationStore) Load(ctx context.Context, path string) (*m.ExpectationFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read expectation file", "path", path, "error", err)
		return nil, fmt.Errorf("failed to read expectation file %s: %w", path, err)
	}

	var file m.ExpectationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse expectation file %s: %w", path, err)
	}

	for i, e := range file.Expect {
		if e.Lookup == "" {
			return nil, fmt.Errorf("%s: expectation %d has no lookup name", path, i)
		}
	}

	if file.Design != "" && !filepath.IsAbs(file.Design) {
		file.Design = filepath.Join(filepath.Dir(path), file.Design)
	}

	return &file, nil
}
