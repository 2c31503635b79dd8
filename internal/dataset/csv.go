// Package dataset loads the opioid shipment study tables from CSV and
// joins them into per-county aggregates. Dataset download and geospatial
// boundary handling stay outside this package; it only consumes plain
// tabular files already on disk.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"econlab/internal/model"
)

// columnIndex maps normalized header names to column positions, so the
// loaders survive column reordering and the upstream ALL-CAPS headers.
type columnIndex map[string]int

func indexHeader(headers []string) columnIndex {
	idx := make(columnIndex, len(headers))
	for i, h := range headers {
		idx[toSnakeCase(strings.TrimSpace(h))] = i
	}
	return idx
}

func (c columnIndex) str(row []string, key string) string {
	i, ok := c[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c columnIndex) float(row []string, key string) float64 {
	f, err := strconv.ParseFloat(c.str(row, key), 64)
	if err != nil {
		return 0
	}
	return f
}

// LoadShipments reads the shipment transaction table. Malformed rows are
// skipped rather than failing the whole load; the upstream extract is
// known to contain occasional bad lines.
func LoadShipments(path string) ([]model.Shipment, error) {
	rows, idx, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer rows.close()

	var out []model.Shipment
	for {
		row, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		date, err := parseTransactionDate(idx.str(row, "transaction_date"))
		if err != nil {
			continue
		}
		out = append(out, model.Shipment{
			BuyerDEANo:      idx.str(row, "buyer_dea_no"),
			BuyerState:      idx.str(row, "buyer_state"),
			DrugName:        idx.str(row, "drug_name"),
			TransactionDate: date,
			BaseWeightGrams: idx.float(row, "calc_base_wt_in_gm"),
			DosageUnit:      idx.float(row, "dosage_unit"),
			MMEConversion:   idx.float(row, "mme_conversion_factor"),
		})
	}
	return out, nil
}

// LoadPharmacies reads the pharmacy registry used to place buyers in counties.
func LoadPharmacies(path string) ([]model.Pharmacy, error) {
	rows, idx, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer rows.close()

	var out []model.Pharmacy
	for {
		row, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		p := model.Pharmacy{
			BuyerDEANo:  idx.str(row, "buyer_dea_no"),
			BuyerState:  idx.str(row, "buyer_state"),
			CountyFIPS:  idx.str(row, "county_fips"),
			BusinessAct: idx.str(row, "buyer_bus_act"),
		}
		if p.CountyFIPS == "" {
			p.CountyFIPS = idx.str(row, "geoid")
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadDemographics reads the census county demographics table.
func LoadDemographics(path string) ([]model.CountyDemographics, error) {
	rows, idx, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer rows.close()

	var out []model.CountyDemographics
	for {
		row, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		d := model.CountyDemographics{
			CountyFIPS:      idx.str(row, "county_fips"),
			CountyName:      idx.str(row, "county"),
			State:           idx.str(row, "state"),
			Population:      idx.float(row, "population"),
			MedianIncome:    idx.float(row, "median_household_income"),
			BachelorOrAbove: idx.float(row, "bachelor_or_higher"),
		}
		if d.CountyFIPS == "" {
			d.CountyFIPS = idx.str(row, "geoid")
		}
		out = append(out, d)
	}
	return out, nil
}

// parseTransactionDate parses the upstream MMDDYYYY format, padding a
// dropped leading zero back on.
func parseTransactionDate(s string) (time.Time, error) {
	if len(s) == 7 {
		s = "0" + s
	}
	return time.Parse("01022006", s)
}

type tableRows struct {
	f *os.File
	r *csv.Reader
}

func openTable(path string) (*tableRows, columnIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open table: %w", err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	headers, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	return &tableRows{f: f, r: r}, indexHeader(headers), nil
}

func (t *tableRows) next() ([]string, error) { return t.r.Read() }
func (t *tableRows) close()                  { t.f.Close() }

func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
