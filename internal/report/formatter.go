// Package report renders solved results as plain-text tables for the CLI.
package report

import (
	"fmt"
	"strings"

	"econlab/internal/exchange"
	"econlab/internal/model"
	"econlab/internal/solver"
)

// FormatAllocation formats a single solved scenario.
func FormatAllocation(title, kind string, pref model.Preferences, endow model.Endowment, alloc model.Allocation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s (%s) ===\n", title, kind))
	b.WriteString(fmt.Sprintf("sigma=%.3g beta=%.3g R=%.4g\n", pref.Sigma, pref.Beta, endow.GrossReturn))
	b.WriteString(fmt.Sprintf("endowment m1=%.4g income2=%.4g\n\n", endow.M1, endow.Income2))

	b.WriteString(fmt.Sprintf("consumption 1: %12.4f\n", alloc.C1))
	b.WriteString(fmt.Sprintf("saving:        %12.4f", alloc.Saving))
	if alloc.Saving < 0 {
		b.WriteString("  (borrowing)")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("consumption 2: %12.4f\n", alloc.C2))
	b.WriteString(fmt.Sprintf("lifetime utility: %9.6f\n", alloc.Utility))

	return b.String()
}

// FormatPopulation formats per-type allocations plus the aggregates.
func FormatPopulation(name string, res *model.PopulationResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== population: %s ===\n", name))
	b.WriteString(fmt.Sprintf("%-16s %8s %8s %10s %10s %10s\n",
		"type", "weight", "sigma", "c1", "saving", "rate"))
	for _, tr := range res.Types {
		b.WriteString(fmt.Sprintf("%-16s %8.3g %8.3g %10.4f %10.4f %9.2f%%\n",
			tr.Type.Name, tr.Type.Weight, tr.Type.Pref.Sigma,
			tr.Alloc.C1, tr.Alloc.Saving, tr.SavingRate*100))
	}
	b.WriteString(strings.Repeat("-", 66) + "\n")
	b.WriteString(fmt.Sprintf("aggregate saving: %.4f of endowment %.4f (rate %.2f%%)\n",
		res.AggSaving, res.AggEndowment, res.AggSavingRate*100))

	return b.String()
}

// FormatCounties formats the top shipment counties, one line per county.
func FormatCounties(rows []model.CountyReport, limit int) string {
	var b strings.Builder

	b.WriteString("=== county shipment report ===\n")
	b.WriteString(fmt.Sprintf("%-7s %-24s %-4s %14s %8s %6s %12s\n",
		"fips", "county", "st", "total MME", "ships", "pharm", "MME/capita"))
	n := len(rows)
	if limit > 0 && n > limit {
		n = limit
	}
	for _, row := range rows[:n] {
		b.WriteString(fmt.Sprintf("%-7s %-24s %-4s %14.0f %8d %6d %12.2f\n",
			row.CountyFIPS, row.CountyName, row.State,
			row.TotalMME, row.Shipments, row.Pharmacies, row.MMEPerCapita))
	}
	if len(rows) > n {
		b.WriteString(fmt.Sprintf("... %d more counties\n", len(rows)-n))
	}

	return b.String()
}

// FormatGrid samples a handful of grid points from a solved policy.
func FormatGrid(title string, g solver.PolicyGrid, samples int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s ===\n", title))
	b.WriteString(fmt.Sprintf("%12s %12s %12s\n", "cash-on-hand", "consumption", "value"))
	if samples < 2 {
		samples = 2
	}
	step := (len(g.M) - 1) / (samples - 1)
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(g.M); i += step {
		b.WriteString(fmt.Sprintf("%12.4f %12.4f %12.4f\n", g.M[i], g.C[i], g.V[i]))
	}

	return b.String()
}

// FormatExchange formats the clearing price and both agents' allocations.
func FormatExchange(e exchange.Economy, p1 float64) string {
	x1A, x2A := e.DemandA(p1)
	x1B, x2B := e.DemandB(p1)
	eps1, eps2 := e.ClearingError(p1)

	var b strings.Builder
	b.WriteString("=== exchange economy ===\n")
	b.WriteString(fmt.Sprintf("clearing price p1: %.6f\n", p1))
	b.WriteString(fmt.Sprintf("agent A: x1=%.4f x2=%.4f u=%.4f\n", x1A, x2A, e.UtilityA(x1A, x2A)))
	b.WriteString(fmt.Sprintf("agent B: x1=%.4f x2=%.4f u=%.4f\n", x1B, x2B, e.UtilityB(x1B, x2B)))
	b.WriteString(fmt.Sprintf("clearing error: eps1=%.2e eps2=%.2e\n", eps1, eps2))
	return b.String()
}
