package domain

import (
	"fmt"
	"slices"
	"time"
)

const DateLayout = "2006-01-02"

type DateRange struct {
	Min string `json:"min_date" yaml:"min_date"`
	Max string `json:"max_date" yaml:"max_date"`
}

// ValidationMetadata bounds the inputs a user may select on the prediction screen.
type ValidationMetadata struct {
	Stores      []int     `json:"valid_stores" yaml:"valid_stores"`
	Departments []int     `json:"valid_departments" yaml:"valid_departments"`
	DateRange   DateRange `json:"date_range" yaml:"date_range"`
}

func (m ValidationMetadata) HasStore(id int) bool {
	return slices.Contains(m.Stores, id)
}

func (m ValidationMetadata) HasDepartment(id int) bool {
	return slices.Contains(m.Departments, id)
}

// DateBounds parses the inclusive date range. Zero times mean the bound is open.
func (m ValidationMetadata) DateBounds() (time.Time, time.Time, error) {
	var minDate, maxDate time.Time
	var err error
	if m.DateRange.Min != "" {
		minDate, err = time.Parse(DateLayout, m.DateRange.Min)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse min_date: %w", err)
		}
	}
	if m.DateRange.Max != "" {
		maxDate, err = time.Parse(DateLayout, m.DateRange.Max)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse max_date: %w", err)
		}
	}
	return minDate, maxDate, nil
}

func (m ValidationMetadata) IsZero() bool {
	return len(m.Stores) == 0 && len(m.Departments) == 0 && m.DateRange == (DateRange{})
}

// DefaultValidationMetadata is the dataset coverage used when the recommender
// cannot provide it.
func DefaultValidationMetadata() ValidationMetadata {
	stores := make([]int, 0, 45)
	for i := 1; i <= 45; i++ {
		stores = append(stores, i)
	}
	departments := []int{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 18, 19,
		20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35,
		36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51,
		52, 54, 55, 56, 58, 59, 60, 65, 67, 71, 72, 74, 77, 78, 79, 80,
		81, 82, 83, 85, 87, 90, 91, 92, 93, 94, 95, 96, 97, 98, 99,
	}
	return ValidationMetadata{
		Stores:      stores,
		Departments: departments,
		DateRange: DateRange{
			Min: "2010-02-05",
			Max: "2013-07-26",
		},
	}
}

type PredictionRequest struct {
	Store      int    `json:"store"`
	Department int    `json:"dept"`
	Date       string `json:"date"`
}

type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type PredictionResult struct {
	Store      int     `json:"store"`
	Department int     `json:"department"`
	Date       string  `json:"date"`
	Base       float64 `json:"base"`
	Adjusted   float64 `json:"adjusted"`
	Final      float64 `json:"final"`
	Bounds     *Bounds `json:"bounds,omitempty"`
}

// ChartPoint is one named point of the sales line chart.
type ChartPoint struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Sales float64 `json:"sales"`
}

// ChartSeries returns the base, adjusted and final points in display order.
func (r PredictionResult) ChartSeries() []ChartPoint {
	return []ChartPoint{
		{Key: "base", Label: "Base prediction", Sales: r.Base},
		{Key: "adjusted", Label: "Adjusted prediction", Sales: r.Adjusted},
		{Key: "final", Label: "Final prediction", Sales: r.Final},
	}
}
