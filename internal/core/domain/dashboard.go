package domain

import "fmt"

type Tab string

const (
	TabSales           Tab = "sales"
	TabClassification  Tab = "classification"
	TabRecommendations Tab = "recommendations"
)

func ParseTab(raw string) (Tab, error) {
	switch tab := Tab(raw); tab {
	case TabSales, TabClassification, TabRecommendations:
		return tab, nil
	default:
		return "", NewValidationError("tab", fmt.Sprintf("unknown tab %q", raw))
	}
}

// Phase is the lifecycle position of a single user-facing action.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseInFlight   Phase = "in_flight"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

type ErrorClass string

const (
	ErrorClassNone       ErrorClass = ""
	ErrorClassValidation ErrorClass = "validation"
	ErrorClassTransport  ErrorClass = "transport"
	ErrorClassProtocol   ErrorClass = "protocol"
	ErrorClassInternal   ErrorClass = "internal"
)

// ActionState is the renderable state of one action on one screen.
type ActionState[T any] struct {
	Phase      Phase      `json:"phase"`
	Loading    bool       `json:"loading"`
	Result     *T         `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	ErrorClass ErrorClass `json:"error_class,omitempty"`
	AttemptID  string     `json:"attempt_id,omitempty"`
}

// PredictionForm holds the raw prediction form fields as typed by the user.
type PredictionForm struct {
	Store      string `json:"store"`
	Department string `json:"dept"`
	Date       string `json:"date"`
}

// RecommendationForm holds the raw recommendation form fields.
// ProductHistory is a comma separated list of product ids.
type RecommendationForm struct {
	Mode           RecommendationMode `json:"mode"`
	UserID         string             `json:"user_id"`
	ProductHistory string             `json:"product_history"`
	Count          int                `json:"count"`
}

type DashboardSnapshot struct {
	ActiveTab          Tab                               `json:"active_tab"`
	RecommendationMode RecommendationMode                `json:"recommendation_mode"`
	Validation         ValidationMetadata                `json:"validation"`
	Error              string                            `json:"error,omitempty"`
	Sales              ActionState[PredictionResult]     `json:"sales"`
	SalesChart         []ChartPoint                      `json:"sales_chart"`
	Classification     ActionState[ClassificationResult] `json:"classification"`
	Recommendations    ActionState[[]RecommendationItem] `json:"recommendations"`
}
