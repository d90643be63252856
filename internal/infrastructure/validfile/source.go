package validfile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

var ErrEmpty = errors.New("validation file declares no stores, departments or dates")

// Source reads prediction-screen validation metadata from a YAML file.
// The file is read on every call so edits apply on the next dashboard load.
type Source struct {
	path string
}

func New(path string) *Source {
	return &Source{path: path}
}

func (s *Source) ValidationMetadata(ctx context.Context) (domain.ValidationMetadata, error) {
	if err := ctx.Err(); err != nil {
		return domain.ValidationMetadata{}, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return domain.ValidationMetadata{}, fmt.Errorf("read validation file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (domain.ValidationMetadata, error) {
	var metadata domain.ValidationMetadata
	if err := yaml.Unmarshal(raw, &metadata); err != nil {
		return domain.ValidationMetadata{}, fmt.Errorf("decode validation file: %w", err)
	}
	if metadata.IsZero() {
		return domain.ValidationMetadata{}, ErrEmpty
	}
	if _, _, err := metadata.DateBounds(); err != nil {
		return domain.ValidationMetadata{}, fmt.Errorf("validation file date_range: %w", err)
	}
	return metadata, nil
}
