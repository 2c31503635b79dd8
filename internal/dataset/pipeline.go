package dataset

import (
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"econlab/internal/config"
	"econlab/internal/model"
)

// Pipeline filters shipments, joins them to counties through the pharmacy
// registry, aggregates morphine equivalents per county, and merges census
// demographics onto the result.
type Pipeline struct {
	log    *zap.Logger
	states map[string]bool
	years  map[int]bool
}

// New builds a Pipeline restricted to the given states and years.
func New(log *zap.Logger, states []string, years []int) *Pipeline {
	p := &Pipeline{
		log:    log,
		states: make(map[string]bool, len(states)),
		years:  make(map[int]bool, len(years)),
	}
	for _, s := range states {
		p.states[s] = true
	}
	for _, y := range years {
		p.years[y] = true
	}
	return p
}

// Run loads the three tables named in the config and builds the report rows.
func (p *Pipeline) Run(cfg *config.Config) ([]model.CountyReport, error) {
	shipments, err := LoadShipments(filepath.Join(cfg.Data.Dir, cfg.Data.ShipmentsFile))
	if err != nil {
		return nil, fmt.Errorf("load shipments: %w", err)
	}
	pharmacies, err := LoadPharmacies(filepath.Join(cfg.Data.Dir, cfg.Data.PharmaciesFile))
	if err != nil {
		return nil, fmt.Errorf("load pharmacies: %w", err)
	}
	demographics, err := LoadDemographics(filepath.Join(cfg.Data.Dir, cfg.Data.DemographicsFile))
	if err != nil {
		return nil, fmt.Errorf("load demographics: %w", err)
	}
	p.log.Info("tables loaded",
		zap.Int("shipments", len(shipments)),
		zap.Int("pharmacies", len(pharmacies)),
		zap.Int("counties", len(demographics)))

	return p.Build(shipments, pharmacies, demographics), nil
}

// Build is the pure join/aggregate step, separated from file loading.
func (p *Pipeline) Build(shipments []model.Shipment, pharmacies []model.Pharmacy, demographics []model.CountyDemographics) []model.CountyReport {
	byDEA := make(map[string]model.Pharmacy, len(pharmacies))
	for _, ph := range pharmacies {
		if ph.CountyFIPS != "" {
			byDEA[ph.BuyerDEANo] = ph
		}
	}
	demoByFIPS := make(map[string]model.CountyDemographics, len(demographics))
	for _, d := range demographics {
		demoByFIPS[d.CountyFIPS] = d
	}

	type countyAgg struct {
		mme        float64
		shipments  int
		pharmacies map[string]bool
	}
	aggs := make(map[string]*countyAgg)
	var unmatched int

	for _, s := range p.FilterShipments(shipments) {
		ph, ok := byDEA[s.BuyerDEANo]
		if !ok {
			unmatched++
			continue
		}
		a := aggs[ph.CountyFIPS]
		if a == nil {
			a = &countyAgg{pharmacies: make(map[string]bool)}
			aggs[ph.CountyFIPS] = a
		}
		a.mme += s.MME()
		a.shipments++
		a.pharmacies[s.BuyerDEANo] = true
	}
	if unmatched > 0 {
		p.log.Warn("shipments without a registered pharmacy dropped", zap.Int("rows", unmatched))
	}

	rows := make([]model.CountyReport, 0, len(aggs))
	for fips, a := range aggs {
		row := model.CountyReport{
			CountyFIPS: fips,
			CountyName: fips,
			TotalMME:   a.mme,
			Shipments:  a.shipments,
			Pharmacies: len(a.pharmacies),
		}
		if d, ok := demoByFIPS[fips]; ok {
			row.CountyName = d.CountyName
			row.State = d.State
			row.Population = d.Population
			row.MedianIncome = d.MedianIncome
			if d.Population > 0 {
				row.MMEPerCapita = a.mme / d.Population
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalMME != rows[j].TotalMME {
			return rows[i].TotalMME > rows[j].TotalMME
		}
		return rows[i].CountyFIPS < rows[j].CountyFIPS
	})
	return rows
}

// FilterShipments keeps rows inside the configured states and years.
func (p *Pipeline) FilterShipments(shipments []model.Shipment) []model.Shipment {
	out := make([]model.Shipment, 0, len(shipments))
	for _, s := range shipments {
		if len(p.states) > 0 && !p.states[s.BuyerState] {
			continue
		}
		if len(p.years) > 0 && !p.years[s.TransactionDate.Year()] {
			continue
		}
		out = append(out, s)
	}
	return out
}
