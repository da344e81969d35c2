// Package export renders shopping plans into downloadable files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Plan is the flattened plan document the exporter renders. Callers build it
// from wherever the plan lives (a fresh optimization or the archive).
type Plan struct {
	PlanID       string
	Baskets      []Basket
	Segments     []Segment
	TotalCost    int64
	TotalSavings int64
	TravelTime   float64
	ShoppingTime float64
	TotalTime    float64
	StoreCount   int
}

// Basket is one store stop with its shopping list.
type Basket struct {
	StoreName            string
	Address              string
	Lines                []Line
	Subtotal             int64
	ClickCollectEligible bool
	MinSpendRequired     int64
}

// Line is one purchased item.
type Line struct {
	RequestedItem string
	ProductName   string
	Quantity      int
	UnitPrice     int64
	LineTotal     int64
}

// Segment is one hop of the visit path; empty names mean the start location.
type Segment struct {
	FromName      string
	ToName        string
	DistanceKm    float64
	TravelTimeMin float64
}

const planSheet = "Shopping Plan"

// PlanXLSX renders a plan as an Excel workbook: one block per store basket
// with its lines, followed by the route and the plan totals.
func PlanXLSX(plan Plan) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), planSheet)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	row := 1
	setRow := func(style int, values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(planSheet, cell, &values); err != nil {
			return err
		}
		if style != 0 {
			end, err := excelize.CoordinatesToCellName(len(values), row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(planSheet, cell, end, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if plan.PlanID != "" {
		if err := setRow(bold, "Plan", plan.PlanID); err != nil {
			return nil, err
		}
		row++
	}

	for _, basket := range plan.Baskets {
		header := basket.StoreName
		if basket.Address != "" {
			header = fmt.Sprintf("%s (%s)", basket.StoreName, basket.Address)
		}
		if err := setRow(bold, header); err != nil {
			return nil, err
		}
		if err := setRow(bold, "Item", "Product", "Qty", "Unit Price", "Line Total"); err != nil {
			return nil, err
		}
		for _, line := range basket.Lines {
			if err := setRow(0,
				line.RequestedItem,
				line.ProductName,
				line.Quantity,
				dollars(line.UnitPrice),
				dollars(line.LineTotal),
			); err != nil {
				return nil, err
			}
		}
		pickup := "yes"
		if !basket.ClickCollectEligible {
			pickup = fmt.Sprintf("no (min spend %s)", dollars(basket.MinSpendRequired))
		}
		if err := setRow(0, "Subtotal", "", "", "", dollars(basket.Subtotal)); err != nil {
			return nil, err
		}
		if err := setRow(0, "Click & collect", pickup); err != nil {
			return nil, err
		}
		row++
	}

	if err := setRow(bold, "Route"); err != nil {
		return nil, err
	}
	for _, seg := range plan.Segments {
		from := seg.FromName
		if from == "" {
			from = "Start"
		}
		to := seg.ToName
		if to == "" {
			to = "Start"
		}
		if err := setRow(0, from, to,
			fmt.Sprintf("%.1f km", seg.DistanceKm),
			fmt.Sprintf("%.0f min", seg.TravelTimeMin),
		); err != nil {
			return nil, err
		}
	}
	row++

	if err := setRow(bold, "Totals"); err != nil {
		return nil, err
	}
	totals := [][]any{
		{"Total cost", dollars(plan.TotalCost)},
		{"Total savings", dollars(plan.TotalSavings)},
		{"Travel time", fmt.Sprintf("%.0f min", plan.TravelTime)},
		{"Shopping time", fmt.Sprintf("%.0f min", plan.ShoppingTime)},
		{"Total time", fmt.Sprintf("%.0f min", plan.TotalTime)},
		{"Stores", plan.StoreCount},
	}
	for _, t := range totals {
		if err := setRow(0, t...); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
