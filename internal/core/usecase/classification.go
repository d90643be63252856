package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
)

const DefaultMaxImageBytes = 10 << 20

type ClassificationScreen struct {
	action     *Action[domain.ClassificationResult]
	classifier ports.ImageClassifier
	maxBytes   int64
}

func NewClassificationScreen(
	classifier ports.ImageClassifier,
	maxBytes int64,
	observer ports.ActionObserver,
	logger *slog.Logger,
) *ClassificationScreen {
	return &ClassificationScreen{
		action:     NewAction[domain.ClassificationResult]("classify_image", observer, logger),
		classifier: classifier,
		maxBytes:   maxBytes,
	}
}

func (s *ClassificationScreen) State() domain.ActionState[domain.ClassificationResult] {
	return s.action.Snapshot()
}

func (s *ClassificationScreen) Submit(ctx context.Context, file domain.ImageFile) (domain.ClassificationResult, error) {
	return s.action.Run(ctx,
		func() error {
			checked, err := ValidateImageFile(file, s.maxBytes)
			file = checked
			return err
		},
		func(ctx context.Context) (domain.ClassificationResult, error) {
			payload, err := s.classifier.ClassifyImage(ctx, file)
			if err != nil {
				return domain.ClassificationResult{}, err
			}
			return parseClassification(payload), nil
		},
	)
}

// ValidateImageFile requires a non-empty image within maxBytes (0 disables the limit)
// and fills in the sniffed content type when the caller did not provide one.
func ValidateImageFile(file domain.ImageFile, maxBytes int64) (domain.ImageFile, error) {
	if file.IsEmpty() {
		return file, domain.NewValidationError("file", "please select an image")
	}
	if maxBytes > 0 && int64(len(file.Data)) > maxBytes {
		return file, domain.NewValidationError("file", fmt.Sprintf("image is larger than %d bytes", maxBytes))
	}

	sniffed := http.DetectContentType(file.Data)
	if !strings.HasPrefix(sniffed, "image/") {
		return file, domain.NewValidationError("file", "selected file is not an image")
	}
	if file.ContentType == "" || file.ContentType == "application/octet-stream" {
		file.ContentType = sniffed
	}
	return file, nil
}
