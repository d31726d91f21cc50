// Command underwrite analyzes one deal from the terminal. The deal file is
// JSON or HJSON (comments and trailing commas welcome, since these files are
// written by hand); comps can come from a saved listing-export HTML page.
//
// Usage:
//
//	underwrite -deal deal.hjson [-comps comps.html] [-report out.md] [-as-of 2026-01-15]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	hjson "github.com/hjson/hjson-go/v4"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"property_underwriting/pkg/core/ingest"
	"property_underwriting/pkg/core/pipeline"
	"property_underwriting/pkg/logging"
	"property_underwriting/pkg/models"
)

func main() {
	dealPath := flag.String("deal", "", "deal file (JSON or HJSON), required")
	compsPath := flag.String("comps", "", "saved listing-export HTML with comparable sales")
	reportPath := flag.String("report", "", "write the markdown report here")
	asOfStr := flag.String("as-of", "", "valuation date (YYYY-MM-DD), defaults to today")
	flag.Parse()

	godotenv.Load()
	logging.Setup()

	if *dealPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	in, err := loadInput(*dealPath)
	if err != nil {
		slog.Error("failed to load deal file", "path", *dealPath, "error", err)
		os.Exit(1)
	}

	if *compsPath != "" {
		comps, err := ingest.ParseCompsFile(*compsPath)
		if err != nil {
			slog.Error("failed to import comps", "path", *compsPath, "error", err)
			os.Exit(1)
		}
		slog.Info("imported comps", "count", len(comps))
		in.Comps = append(in.Comps, comps...)
	}

	if *asOfStr != "" {
		asOf, err := time.Parse("2006-01-02", *asOfStr)
		if err != nil {
			slog.Error("invalid -as-of date", "value", *asOfStr, "error", err)
			os.Exit(1)
		}
		in.AsOf = asOf
	}

	u := pipeline.NewUnderwriter(models.DefaultAssumptions())
	out, err := u.Run(context.Background(), *in)
	if err != nil {
		slog.Error("underwriting run failed", "error", err)
		os.Exit(1)
	}

	printSummary(out)

	if *reportPath != "" {
		if err := os.WriteFile(*reportPath, []byte(out.Markdown), 0o644); err != nil {
			slog.Error("failed to write report", "path", *reportPath, "error", err)
			os.Exit(1)
		}
		slog.Info("report written", "path", *reportPath)
	}
}

// loadInput parses the deal file through HJSON, which accepts strict JSON as
// well, then round-trips through encoding/json into the typed input.
func loadInput(path string) (*pipeline.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var loose any
	if err := hjson.Unmarshal(data, &loose); err != nil {
		return nil, fmt.Errorf("failed to parse deal file: %w", err)
	}
	strict, err := json.Marshal(loose)
	if err != nil {
		return nil, err
	}

	in := &pipeline.Input{}
	if err := json.Unmarshal(strict, in); err != nil {
		return nil, fmt.Errorf("deal file does not match the expected schema: %w", err)
	}
	return in, nil
}

func printSummary(out *pipeline.Output) {
	if out.ARV != nil {
		fmt.Printf("\nWeighted ARV across %d comp(s): %s\n", len(out.ARV.Adjustments), money(out.ARV.ARV))
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Strategy Comparison")
	t.AppendHeader(table.Row{"Strategy", "Year-1 Cash Flow", "Cap Rate", "Cash-on-Cash", "DSCR"})
	for _, r := range out.Projections {
		if len(r.Years) == 0 {
			continue
		}
		t.AppendRow(table.Row{
			string(r.Strategy),
			money(r.Years[0].CashFlow),
			pct(r.Summary.CapRate),
			pct(r.Summary.CashOnCash),
			fmt.Sprintf("%.2f", r.Summary.DSCR),
		})
	}
	t.Render()

	if out.CostRange != nil {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle(fmt.Sprintf("Renovation Estimate %s - %s (contingency %.0f-%.0f%%)",
			money(out.CostRange.Low), money(out.CostRange.High),
			out.CostRange.ContingencyLowPct, out.CostRange.ContingencyHighPct))
		t.AppendHeader(table.Row{"Driver", "Low", "High", "Confidence"})
		for _, d := range out.CostRange.Drivers {
			t.AppendRow(table.Row{d.Description, money(d.LowCost), money(d.HighCost), string(d.Confidence)})
		}
		t.Render()
		for _, f := range out.CostRange.UncertaintyFactors {
			fmt.Printf("  ! %s\n", f)
		}
	}

	if out.Sell != nil && out.Sell.Sell != nil {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Exit Scenarios")
		t.AppendHeader(table.Row{"Exit", "Cash Invested", "Outcome", "Amount"})
		t.AppendRow(table.Row{"sell", money(out.Sell.TotalCashInvested), "net profit", money(out.Sell.Sell.NetProfit)})
		if out.Refi != nil && out.Refi.Refi != nil {
			t.AppendRow(table.Row{"refi", money(out.Refi.TotalCashInvested), "funds gap", money(out.Refi.Refi.CapitalLeftInDeal)})
		}
		t.Render()
	}
}

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.0f", -v)
	}
	return fmt.Sprintf("$%.0f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
