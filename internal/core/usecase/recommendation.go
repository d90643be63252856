package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
)

type RecommendationScreen struct {
	action       *Action[[]domain.RecommendationItem]
	recommender  ports.Recommender
	defaultCount int
}

func NewRecommendationScreen(
	recommender ports.Recommender,
	defaultCount int,
	observer ports.ActionObserver,
	logger *slog.Logger,
) *RecommendationScreen {
	if defaultCount <= 0 {
		defaultCount = domain.DefaultRecommendationCount
	}
	return &RecommendationScreen{
		action:       NewAction[[]domain.RecommendationItem]("recommend", observer, logger),
		recommender:  recommender,
		defaultCount: defaultCount,
	}
}

func (s *RecommendationScreen) State() domain.ActionState[[]domain.RecommendationItem] {
	return s.action.Snapshot()
}

// Submit returns the service's list as-is; the count is only a hint to the service.
func (s *RecommendationScreen) Submit(ctx context.Context, form domain.RecommendationForm) ([]domain.RecommendationItem, error) {
	var query domain.RecommendationQuery
	return s.action.Run(ctx,
		func() error {
			parsed, err := ValidateRecommendationForm(form, s.defaultCount)
			query = parsed
			return err
		},
		func(ctx context.Context) ([]domain.RecommendationItem, error) {
			payload, err := s.recommender.GetRecommendations(ctx, query)
			if err != nil {
				return nil, err
			}
			return parseRecommendations(payload), nil
		},
	)
}

func ValidateRecommendationForm(form domain.RecommendationForm, defaultCount int) (domain.RecommendationQuery, error) {
	mode, err := domain.ParseRecommendationMode(string(form.Mode))
	if err != nil {
		return domain.RecommendationQuery{}, err
	}
	count := form.Count
	if count <= 0 {
		count = defaultCount
	}
	query := domain.RecommendationQuery{Mode: mode, Count: count}

	switch mode {
	case domain.RecommendByUser:
		raw := strings.TrimSpace(form.UserID)
		if raw == "" {
			return domain.RecommendationQuery{}, domain.NewValidationError("user_id", "please enter a user id")
		}
		userID, err := strconv.Atoi(raw)
		if err != nil || userID <= 0 {
			return domain.RecommendationQuery{}, domain.NewValidationError("user_id", "user id must be a positive integer")
		}
		query.UserID = userID
	case domain.RecommendByHistory:
		history, err := ParseProductHistory(form.ProductHistory)
		if err != nil {
			return domain.RecommendationQuery{}, err
		}
		if len(history) == 0 {
			return domain.RecommendationQuery{}, domain.NewValidationError("product_history", "please enter at least one product id")
		}
		query.ProductHistory = history
	}
	return query, nil
}

// ParseProductHistory reads a comma separated list of product ids.
func ParseProductHistory(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, domain.NewValidationError("product_history", fmt.Sprintf("product id %q is not an integer", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
