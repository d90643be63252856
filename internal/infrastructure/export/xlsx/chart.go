package xlsx

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

const sheetName = "Prediction"

var ErrEmptySeries = errors.New("chart series is empty")

// ChartExporter renders the latest prediction chart as an xlsx workbook with a
// data table and a line chart over it.
type ChartExporter struct{}

func NewChartExporter() *ChartExporter {
	return &ChartExporter{}
}

func (e *ChartExporter) ExportChart(series []domain.ChartPoint, result *domain.PredictionResult) ([]byte, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]any{{"Series", "Sales"}}
	for _, point := range series {
		rows = append(rows, []any{point.Label, point.Sales})
	}
	if result != nil {
		rows = append(rows,
			[]any{},
			[]any{"Store", result.Store},
			[]any{"Department", result.Department},
			[]any{"Date", result.Date},
		)
		if result.Bounds != nil {
			rows = append(rows,
				[]any{"Lower bound", result.Bounds.Lower},
				[]any{"Upper bound", result.Bounds.Upper},
			)
		}
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	last := strconv.Itoa(len(series) + 1)
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       sheetName + "!$B$1",
				Categories: sheetName + "!$A$2:$A$" + last,
				Values:     sheetName + "!$B$2:$B$" + last,
			},
		},
		Title: []excelize.RichTextRun{{Text: "Sales prediction"}},
		Legend: excelize.ChartLegend{
			Position: "bottom",
		},
	}
	if err := f.AddChart(sheetName, "D2", chart); err != nil {
		return nil, fmt.Errorf("add chart: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
