package usecase

import (
	"context"
	"errors"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
)

var errEmptyValidationMetadata = errors.New("validation metadata is empty")

// RemoteValidationSource reads validation metadata from the recommender service.
type RemoteValidationSource struct {
	fetcher ports.ValidationMetadataFetcher
}

func NewRemoteValidationSource(fetcher ports.ValidationMetadataFetcher) *RemoteValidationSource {
	return &RemoteValidationSource{fetcher: fetcher}
}

func (s *RemoteValidationSource) ValidationMetadata(ctx context.Context) (domain.ValidationMetadata, error) {
	payload, err := s.fetcher.FetchValidationMetadata(ctx)
	if err != nil {
		return domain.ValidationMetadata{}, err
	}
	metadata := parseValidationMetadata(payload)
	if metadata.IsZero() {
		return domain.ValidationMetadata{}, errEmptyValidationMetadata
	}
	return metadata, nil
}

// BuiltinValidationSource serves the bundled dataset coverage.
type BuiltinValidationSource struct{}

func (BuiltinValidationSource) ValidationMetadata(context.Context) (domain.ValidationMetadata, error) {
	return domain.DefaultValidationMetadata(), nil
}
