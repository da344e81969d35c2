package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shoplyft/plan-service/internal/plans"
)

var plansLimit int

// plansCmd represents the plans command
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List archived shopping plans",
	Long: `List the plans stored in the local plan archive, newest first. Use
"plans show <planId>" to print one plan's full document.`,
	RunE: runPlansList,
}

// plansShowCmd prints a single archived plan
var plansShowCmd = &cobra.Command{
	Use:   "show <planId>",
	Short: "Print one archived plan as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlansShow,
}

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.AddCommand(plansShowCmd)

	plansCmd.Flags().IntVar(&plansLimit, "limit", 20, "Maximum number of plans to list")
}

func openPlanStore() (*plans.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required but not loaded")
	}
	return plans.NewStore(cfg.Data.PlansFile, *logger)
}

func runPlansList(cmd *cobra.Command, args []string) error {
	store, err := openPlanStore()
	if err != nil {
		return err
	}

	records := store.Recent(plansLimit)
	if len(records) == 0 {
		fmt.Println("No plans archived yet.")
		return nil
	}

	fmt.Printf("Archived Plans (%d)\n", len(records))
	fmt.Println(strings.Repeat("-", 60))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Plan ID\tGenerated At\n")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\n", r.PlanID, r.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runPlansShow(cmd *cobra.Command, args []string) error {
	store, err := openPlanStore()
	if err != nil {
		return err
	}

	record, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("plan %q not found", args[0])
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(record)
}
