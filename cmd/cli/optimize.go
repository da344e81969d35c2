package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shoplyft/plan-service/internal/export"
	"github.com/shoplyft/plan-service/internal/optimizer"
	"github.com/shoplyft/plan-service/internal/refdata"
)

var (
	optimizeItems       []string
	optimizeLat         float64
	optimizeLng         float64
	optimizeMaxStores   int
	optimizePriceWeight float64
	optimizeTimeWeight  float64
	optimizeStrategy    string
	optimizeOutput      string
	optimizeExportPath  string
)

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a shopping plan for a list of items",
	Long: `Optimize a shopping plan for a list of items. Each item is a canonical
product ID with an optional quantity, and the starting location is given as
latitude/longitude. The command prints the winning route, per-store baskets
and plan totals.`,
	Example: `  plan-service optimize --item milk_full_cream_2l --item bread_white_loaf:2 --lat -33.87 --lng 151.21
  plan-service optimize --item eggs_dozen --max-stores 2 --strategy retailer_subset --output json
  plan-service optimize --item milk_full_cream_2l --export plan.xlsx`,
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringArrayVar(&optimizeItems, "item", nil, "Item as canonicalId[:quantity] (repeatable, required)")
	optimizeCmd.Flags().Float64Var(&optimizeLat, "lat", -33.871, "Starting latitude")
	optimizeCmd.Flags().Float64Var(&optimizeLng, "lng", 151.206, "Starting longitude")
	optimizeCmd.Flags().IntVar(&optimizeMaxStores, "max-stores", 0, "Maximum stores to visit (0 uses config default)")
	optimizeCmd.Flags().Float64Var(&optimizePriceWeight, "price-weight", 0, "Price weight (0 with time-weight 0 uses config defaults)")
	optimizeCmd.Flags().Float64Var(&optimizeTimeWeight, "time-weight", 0, "Time weight")
	optimizeCmd.Flags().StringVar(&optimizeStrategy, "strategy", "", "Route strategy: store_subset or retailer_subset")
	optimizeCmd.Flags().StringVar(&optimizeOutput, "output", "table", "Output format: table or json")
	optimizeCmd.Flags().StringVar(&optimizeExportPath, "export", "", "Also write the plan as an XLSX workbook to this path")
	optimizeCmd.MarkFlagRequired("item")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	items, err := parseItemFlags(optimizeItems)
	if err != nil {
		return err
	}

	strategy, err := optimizer.ParseStrategy(optimizeStrategy)
	if err != nil {
		return err
	}

	planner, err := optimizer.NewPlanner(refSet, &cfg.Optimizer, optimizer.NewMetricsRecorder(), *logger)
	if err != nil {
		return fmt.Errorf("invalid optimizer configuration: %w", err)
	}

	plan, err := planner.Plan(context.Background(), optimizer.PlanRequest{
		Items:       items,
		Origin:      refdata.LatLng{Lat: optimizeLat, Lng: optimizeLng},
		MaxStores:   optimizeMaxStores,
		PriceWeight: optimizePriceWeight,
		TimeWeight:  optimizeTimeWeight,
		Strategy:    strategy,
	})
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	if optimizeExportPath != "" {
		content, err := export.PlanXLSX(toExportPlan(plan))
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if err := os.WriteFile(optimizeExportPath, content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", optimizeExportPath, err)
		}
		fmt.Printf("Plan exported to %s\n", optimizeExportPath)
	}

	switch strings.ToLower(optimizeOutput) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(toExportPlan(plan))
	case "table":
		outputPlanTable(plan)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", optimizeOutput)
	}

	return nil
}

// parseItemFlags turns canonicalId[:quantity] flag values into parsed items.
func parseItemFlags(flags []string) ([]optimizer.ParsedItem, error) {
	items := make([]optimizer.ParsedItem, 0, len(flags))
	for _, raw := range flags {
		id := raw
		qty := 1
		if idx := strings.LastIndex(raw, ":"); idx >= 0 {
			id = raw[:idx]
			parsed, err := strconv.Atoi(raw[idx+1:])
			if err != nil || parsed < 1 {
				return nil, fmt.Errorf("invalid quantity in %q", raw)
			}
			qty = parsed
		}

		name := id
		if p, ok := refSet.ProductByID(id); ok {
			name = p.CanonicalName
		}
		items = append(items, optimizer.ParsedItem{
			CanonicalID:   id,
			CanonicalName: name,
			RequestedItem: name,
			Quantity:      qty,
			Confidence:    1.0,
		})
	}
	return items, nil
}

func outputPlanTable(plan optimizer.ShoppingPlan) {
	for _, basket := range plan.Baskets {
		fmt.Printf("\n%s — %s\n", basket.Store.Name, basket.Store.Address)
		fmt.Println(strings.Repeat("-", 60))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "Item\tQty\tUnit\tTotal\n")
		for _, line := range basket.Lines {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				line.ProductName, line.Quantity, dollars(line.UnitPrice), dollars(line.LineTotal))
		}
		fmt.Fprintf(w, "Subtotal\t\t\t%s\n", dollars(basket.Subtotal))
		w.Flush()

		if basket.ClickCollectEligible {
			fmt.Println("Click & collect: eligible")
		} else {
			fmt.Printf("Click & collect: not eligible (min spend %s)\n", dollars(basket.MinSpendRequired))
		}
	}

	fmt.Printf("\nRoute\n")
	fmt.Println(strings.Repeat("-", 60))
	for _, seg := range plan.Segments {
		from := "Start"
		if seg.From != nil {
			from = seg.From.Name
		}
		to := "Start"
		if seg.To != nil {
			to = seg.To.Name
		}
		fmt.Printf("%s -> %s  %.1f km  %.0f min\n", from, to, seg.DistanceKm, seg.TravelTimeMin)
	}

	fmt.Printf("\nTotals\n")
	fmt.Println(strings.Repeat("-", 60))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Total cost\t%s\n", dollars(plan.TotalCost))
	fmt.Fprintf(w, "Total savings\t%s\n", dollars(plan.TotalSavings))
	fmt.Fprintf(w, "Travel time\t%.0f min\n", plan.TravelTime)
	fmt.Fprintf(w, "Shopping time\t%.0f min\n", plan.ShoppingTime)
	fmt.Fprintf(w, "Total time\t%.0f min\n", plan.TotalTime)
	fmt.Fprintf(w, "Stores\t%d\n", plan.StoreCount)
	w.Flush()
}

func toExportPlan(plan optimizer.ShoppingPlan) export.Plan {
	baskets := make([]export.Basket, len(plan.Baskets))
	for i, b := range plan.Baskets {
		lines := make([]export.Line, len(b.Lines))
		for j, l := range b.Lines {
			lines[j] = export.Line{
				RequestedItem: l.RequestedItem,
				ProductName:   l.ProductName,
				Quantity:      l.Quantity,
				UnitPrice:     l.UnitPrice,
				LineTotal:     l.LineTotal,
			}
		}
		baskets[i] = export.Basket{
			StoreName:            b.Store.Name,
			Address:              b.Store.Address,
			Lines:                lines,
			Subtotal:             b.Subtotal,
			ClickCollectEligible: b.ClickCollectEligible,
			MinSpendRequired:     b.MinSpendRequired,
		}
	}

	segments := make([]export.Segment, len(plan.Segments))
	for i, s := range plan.Segments {
		seg := export.Segment{DistanceKm: s.DistanceKm, TravelTimeMin: s.TravelTimeMin}
		if s.From != nil {
			seg.FromName = s.From.Name
		}
		if s.To != nil {
			seg.ToName = s.To.Name
		}
		segments[i] = seg
	}

	return export.Plan{
		PlanID:       plan.PlanID,
		Baskets:      baskets,
		Segments:     segments,
		TotalCost:    plan.TotalCost,
		TotalSavings: plan.TotalSavings,
		TravelTime:   plan.TravelTime,
		ShoppingTime: plan.ShoppingTime,
		TotalTime:    plan.TotalTime,
		StoreCount:   plan.StoreCount,
	}
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
