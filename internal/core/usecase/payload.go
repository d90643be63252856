package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/tidwall/gjson"
)

// The three services are versioned independently, so every field read here is
// optional and falls back to a zero value.

func payloadDocument(p domain.Payload) gjson.Result {
	if len(p.Raw) > 0 && p.IsJSON() {
		return gjson.ParseBytes(p.Raw)
	}
	switch p.Value.(type) {
	case nil, string:
		return gjson.Result{}
	}
	raw, err := json.Marshal(p.Value)
	if err != nil {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

func lookupNumber(doc gjson.Result, paths ...string) (float64, bool) {
	for _, path := range paths {
		value := doc.Get(path)
		switch value.Type {
		case gjson.Number:
			return value.Float(), true
		case gjson.String:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
			if err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func firstNumber(doc gjson.Result, paths ...string) float64 {
	value, _ := lookupNumber(doc, paths...)
	return value
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, path := range paths {
		value := doc.Get(path)
		if value.Exists() && value.Type != gjson.Null && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

func parsePrediction(p domain.Payload, req domain.PredictionRequest) domain.PredictionResult {
	doc := payloadDocument(p)
	result := domain.PredictionResult{
		Store:      req.Store,
		Department: req.Department,
		Date:       req.Date,
		Base:       firstNumber(doc, "base_prediction", "details.base_prediction"),
		Adjusted:   firstNumber(doc, "adjusted_prediction", "details.adjusted_prediction"),
		Final:      firstNumber(doc, "final_prediction", "predicted_sales", "details.final_prediction", "prediction"),
	}

	lower, hasLower := lookupNumber(doc, "bounds.lower", "details.bounds.lower", "lower_bound")
	upper, hasUpper := lookupNumber(doc, "bounds.upper", "details.bounds.upper", "upper_bound")
	if hasLower || hasUpper {
		result.Bounds = &domain.Bounds{Lower: lower, Upper: upper}
	}
	return result
}

func parseClassification(p domain.Payload) domain.ClassificationResult {
	doc := payloadDocument(p)
	confidence := firstNumber(doc, "confidence", "probability")
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	result := domain.ClassificationResult{
		Label:      firstString(doc, "prediction", "predicted_class", "label"),
		Confidence: confidence,
	}
	result.ConfidenceDisplay = result.ConfidenceText()
	return result
}

func parseRecommendations(p domain.Payload) []domain.RecommendationItem {
	doc := payloadDocument(p)
	list := doc.Get("recommendations")
	if !list.IsArray() && doc.IsArray() {
		list = doc
	}

	entries := list.Array()
	items := make([]domain.RecommendationItem, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsObject() {
			items = append(items, domain.RecommendationItem{ID: entry.String(), Name: entry.String()})
			continue
		}
		items = append(items, domain.RecommendationItem{
			ID:       firstString(entry, "id", "product_id"),
			Name:     firstString(entry, "name", "product_name"),
			Category: firstString(entry, "category"),
		})
	}
	return items
}

func parseValidationMetadata(p domain.Payload) domain.ValidationMetadata {
	doc := payloadDocument(p)
	out := domain.ValidationMetadata{
		DateRange: domain.DateRange{
			Min: firstString(doc, "date_range.min_date"),
			Max: firstString(doc, "date_range.max_date"),
		},
	}
	for _, store := range doc.Get("valid_stores").Array() {
		if store.Type == gjson.Number {
			out.Stores = append(out.Stores, int(store.Int()))
		}
	}
	for _, dept := range doc.Get("valid_departments").Array() {
		if dept.Type == gjson.Number {
			out.Departments = append(out.Departments, int(dept.Int()))
		}
	}
	return out
}
