package usecase

import (
	"testing"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParsePredictionDefaultsMissingFields(t *testing.T) {
	req := domain.PredictionRequest{Store: 1, Department: 2, Date: "2012-01-01"}

	result := parsePrediction(jsonPayload(`{"final_prediction":"123.5"}`), req)
	assert.Equal(t, domain.PredictionResult{Store: 1, Department: 2, Date: "2012-01-01", Final: 123.5}, result)

	result = parsePrediction(domain.Payload{ContentType: "text/plain", Raw: []byte("ok"), Value: "ok"}, req)
	assert.Equal(t, 0.0, result.Final)
	assert.Nil(t, result.Bounds)
}

func TestParsePredictionFromDecodedValue(t *testing.T) {
	payload := domain.Payload{Value: map[string]any{"base_prediction": 10.0, "adjusted_prediction": 11.0, "final_prediction": 12.0}}

	result := parsePrediction(payload, domain.PredictionRequest{})
	assert.Equal(t, []float64{10, 11, 12}, []float64{result.Base, result.Adjusted, result.Final})
}

func TestParseClassificationClampsConfidence(t *testing.T) {
	result := parseClassification(jsonPayload(`{"prediction":"hats","confidence":1.7}`))
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, "100.00%", result.ConfidenceDisplay)

	result = parseClassification(jsonPayload(`{"confidence":null}`))
	assert.Equal(t, domain.ClassificationResult{ConfidenceDisplay: "0.00%"}, result)
}

func TestParseRecommendationsAcceptsScalarEntries(t *testing.T) {
	items := parseRecommendations(jsonPayload(`{"recommendations":[101,"sku-2"]}`))
	assert.Equal(t, []domain.RecommendationItem{{ID: "101", Name: "101"}, {ID: "sku-2", Name: "sku-2"}}, items)

	assert.Empty(t, parseRecommendations(jsonPayload(`{}`)))
}

func TestParseValidationMetadataSkipsNonNumbers(t *testing.T) {
	metadata := parseValidationMetadata(jsonPayload(`{"valid_stores":[1,"x",3],"valid_departments":[]}`))
	assert.Equal(t, []int{1, 3}, metadata.Stores)
	assert.Empty(t, metadata.Departments)
	assert.Equal(t, domain.DateRange{}, metadata.DateRange)
}
