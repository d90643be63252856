package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

func jsonPayload(body string) domain.Payload {
	var value any
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		panic(err)
	}
	return domain.Payload{ContentType: "application/json", Raw: []byte(body), Value: value}
}

// backendFake answers every port with the configured payload or error. When
// gate is set, calls block until it is closed.
type backendFake struct {
	payload domain.Payload
	err     error
	gate    chan struct{}
	started chan struct{}

	calls atomic.Int32

	mu          sync.Mutex
	lastPredict domain.PredictionRequest
	lastImage   domain.ImageFile
	lastQuery   domain.RecommendationQuery
}

func (f *backendFake) wait(ctx context.Context) (domain.Payload, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return domain.Payload{}, ctx.Err()
		}
	}
	return f.payload, f.err
}

func (f *backendFake) PredictSales(ctx context.Context, req domain.PredictionRequest) (domain.Payload, error) {
	f.mu.Lock()
	f.lastPredict = req
	f.mu.Unlock()
	return f.wait(ctx)
}

func (f *backendFake) ClassifyImage(ctx context.Context, file domain.ImageFile) (domain.Payload, error) {
	f.mu.Lock()
	f.lastImage = file
	f.mu.Unlock()
	return f.wait(ctx)
}

func (f *backendFake) GetRecommendations(ctx context.Context, query domain.RecommendationQuery) (domain.Payload, error) {
	f.mu.Lock()
	f.lastQuery = query
	f.mu.Unlock()
	return f.wait(ctx)
}

func (f *backendFake) FetchValidationMetadata(ctx context.Context) (domain.Payload, error) {
	return f.wait(ctx)
}

func (f *backendFake) HealthCheck(ctx context.Context) (domain.Payload, error) {
	return f.wait(ctx)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
