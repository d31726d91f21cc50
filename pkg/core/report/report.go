// Package report renders an underwriting summary as Markdown and HTML. The
// Markdown builder only formats data it is given; any section whose input is
// missing is skipped.
package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"property_underwriting/pkg/core/proforma"
	"property_underwriting/pkg/models"
)

// Data collects everything a full underwriting run can produce. All fields
// except Deal are optional.
type Data struct {
	Name        string
	Deal        models.DealInputs
	Assumptions models.GlobalAssumptions
	Projections []*proforma.Result
	ARV         *models.ARVResult
	CostRange   *models.CostRangeResult
	Sell        *models.RehabExitScenario
	Refi        *models.RehabExitScenario
}

// BuildMarkdown renders the underwriting summary as a Markdown document.
func BuildMarkdown(d Data) string {
	var b strings.Builder

	name := d.Name
	if name == "" {
		name = "Underwriting Summary"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	fmt.Fprintf(&b, "**Purchase price:** %s  \n", money(d.Deal.PurchasePrice))
	if d.Deal.Sqft > 0 {
		fmt.Fprintf(&b, "**Size:** %.0f sqft, %d unit(s)  \n", d.Deal.Sqft, d.Deal.UnitCount())
	}
	if d.Deal.ARV > 0 {
		fmt.Fprintf(&b, "**ARV:** %s  \n", money(d.Deal.ARV))
	}
	b.WriteString("\n")

	if d.ARV != nil {
		writeValuation(&b, d.ARV)
	}
	if len(d.Projections) > 0 {
		writeProjections(&b, d.Projections)
	}
	if d.CostRange != nil {
		writeCostRange(&b, d.CostRange)
	}
	if d.Sell != nil || d.Refi != nil {
		writeExits(&b, d.Sell, d.Refi)
	}

	return b.String()
}

// RenderHTML converts the Markdown report to HTML. GFM tables are enabled
// since every section renders as a table.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var out strings.Builder
	if err := md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out.String(), nil
}

func writeValuation(b *strings.Builder, arv *models.ARVResult) {
	b.WriteString("## Comparable Sales Valuation\n\n")
	fmt.Fprintf(b, "Weighted ARV across %d comp(s): **%s**\n\n", len(arv.Adjustments), money(arv.ARV))

	if len(arv.Adjustments) == 0 {
		return
	}
	b.WriteString("| Comp | Sold Price | Adjusted | Similarity |\n")
	b.WriteString("|---|---|---|---|\n")
	for i, adj := range arv.Adjustments {
		label := adj.Comp.Address
		if label == "" {
			label = fmt.Sprintf("Comp %d", i+1)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %.0f |\n",
			label, money(adj.Comp.SoldPrice), money(adj.AdjustedPrice), adj.Similarity)
	}
	b.WriteString("\n")
}

func writeProjections(b *strings.Builder, results []*proforma.Result) {
	b.WriteString("## Strategy Comparison\n\n")
	b.WriteString("| Strategy | Year-1 Cash Flow | Cap Rate | Cash-on-Cash | DSCR |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, r := range results {
		if len(r.Years) == 0 {
			continue
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %.2f |\n",
			r.Strategy, money(r.Years[0].CashFlow),
			pct(r.Summary.CapRate), pct(r.Summary.CashOnCash), r.Summary.DSCR)
	}
	b.WriteString("\n")

	for _, r := range results {
		fmt.Fprintf(b, "### %s projection\n\n", r.Strategy)
		b.WriteString("| Year | NOI | Cash Flow | Value | Equity | Cum. Return |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, y := range r.Years {
			if y.Year > 10 && y.Year%5 != 0 {
				continue // full detail for the first decade, then five-year marks
			}
			fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s |\n",
				y.Year, money(y.NOI), money(y.CashFlow), money(y.PropertyValue),
				money(y.Equity), pct(y.CumulativeReturn))
		}
		b.WriteString("\n")
	}
}

func writeCostRange(b *strings.Builder, cr *models.CostRangeResult) {
	b.WriteString("## Renovation Estimate\n\n")
	fmt.Fprintf(b, "**Range:** %s – %s (mid %s), contingency %.0f–%.0f%%\n\n",
		money(cr.Low), money(cr.High), money(cr.Mid),
		cr.ContingencyLowPct, cr.ContingencyHighPct)

	if len(cr.Drivers) > 0 {
		b.WriteString("| Driver | Low | High | Confidence |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, d := range cr.Drivers {
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
				d.Description, money(d.LowCost), money(d.HighCost), d.Confidence)
		}
		b.WriteString("\n")
	}
	for _, f := range cr.UncertaintyFactors {
		fmt.Fprintf(b, "- %s\n", f)
	}
	if len(cr.UncertaintyFactors) > 0 {
		b.WriteString("\n")
	}
}

func writeExits(b *strings.Builder, sell, refi *models.RehabExitScenario) {
	b.WriteString("## Exit Scenarios\n\n")
	if sell != nil && sell.Sell != nil {
		b.WriteString("### Sell\n\n")
		fmt.Fprintf(b, "| Bridge Loan | Cash Invested | Sale Proceeds | Net Profit |\n|---|---|---|---|\n| %s | %s | %s | %s |\n\n",
			money(sell.BridgeLoanAmount), money(sell.TotalCashInvested),
			money(sell.Sell.SaleProceeds), money(sell.Sell.NetProfit))
	}
	if refi != nil && refi.Refi != nil {
		b.WriteString("### Refinance (BRRRR)\n\n")
		fmt.Fprintf(b, "| New Loan | Cash-Out | Funds Gap | Equity Retained |\n|---|---|---|---|\n| %s | %s | %s | %s |\n\n",
			money(refi.Refi.NewLoanAmount), money(refi.Refi.CashOut),
			money(refi.Refi.CapitalLeftInDeal), money(refi.Refi.EquityRetained))
	}
}

func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	// insert thousands separators
	var out strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(ch)
	}
	if neg {
		return "-$" + out.String()
	}
	return "$" + out.String()
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
