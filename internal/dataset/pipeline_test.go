package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"econlab/internal/config"
)

const (
	shipmentsCSV = `BUYER_DEA_NO,BUYER_STATE,DRUG_NAME,TRANSACTION_DATE,CALC_BASE_WT_IN_GM,DOSAGE_UNIT,MME_CONVERSION_FACTOR
PH1,VA,HYDROCODONE,1152010,10,100,1.0
PH1,VA,OXYCODONE,06012011,5,50,1.5
PH2,VA,OXYCODONE,12312009,2,20,1.5
PH3,KY,HYDROCODONE,03102010,4,40,1.0
PH1,VA,HYDROCODONE,05052014,99,10,1.0
PH9,OH,OXYCODONE,03102010,7,10,1.5
PHX,VA,OXYCODONE,03102010,1,10,1.0
`
	pharmaciesCSV = `BUYER_DEA_NO,BUYER_STATE,COUNTY_FIPS,BUYER_BUS_ACT
PH1,VA,51027,RETAIL PHARMACY
PH2,VA,51027,CHAIN PHARMACY
PH3,KY,21095,RETAIL PHARMACY
`
	demographicsCSV = `COUNTY_FIPS,COUNTY,STATE,POPULATION,MEDIAN_HOUSEHOLD_INCOME,BACHELOR_OR_HIGHER
51027,Buchanan County,VA,24000,31800,8.5
`
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"shipments.csv":           shipmentsCSV,
		"pharmacies.csv":          pharmaciesCSV,
		"county_demographics.csv": demographicsCSV,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg, err := config.Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	cfg.Data.Dir = dir
	return cfg
}

func TestPipeline_Run(t *testing.T) {
	cfg := testConfig(t)
	pipe := New(zap.NewNop(), cfg.Data.States, cfg.Data.Years)

	rows, err := pipe.Run(cfg)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Rows are sorted by total MME descending.
	buchanan := rows[0]
	assert.Equal(t, "51027", buchanan.CountyFIPS)
	assert.Equal(t, "Buchanan County", buchanan.CountyName)
	assert.Equal(t, "VA", buchanan.State)
	// MME = grams × 1000 × conversion: 10000 + 7500 + 3000.
	assert.InDelta(t, 20500, buchanan.TotalMME, 1e-9)
	assert.Equal(t, 3, buchanan.Shipments)
	assert.Equal(t, 2, buchanan.Pharmacies)
	assert.InDelta(t, 20500.0/24000.0, buchanan.MMEPerCapita, 1e-12)

	// No demographics row: name falls back to FIPS, per-capita stays zero.
	other := rows[1]
	assert.Equal(t, "21095", other.CountyFIPS)
	assert.Equal(t, "21095", other.CountyName)
	assert.InDelta(t, 4000, other.TotalMME, 1e-9)
	assert.Equal(t, 0.0, other.MMEPerCapita)
}

func TestPipeline_FilterShipments(t *testing.T) {
	cfg := testConfig(t)
	shipments, err := LoadShipments(filepath.Join(cfg.Data.Dir, cfg.Data.ShipmentsFile))
	require.NoError(t, err)
	require.Len(t, shipments, 7)

	pipe := New(zap.NewNop(), cfg.Data.States, cfg.Data.Years)
	kept := pipe.FilterShipments(shipments)

	// Drops the 2014 row and the OH row; the unmatched PHX row survives
	// the filter and is only dropped at the join.
	require.Len(t, kept, 5)
	for _, s := range kept {
		assert.NotEqual(t, "OH", s.BuyerState)
		assert.NotEqual(t, 2014, s.TransactionDate.Year())
	}
}

func TestParseTransactionDate(t *testing.T) {
	d, err := parseTransactionDate("1152010")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseTransactionDate("12312009")
	require.NoError(t, err)
	assert.Equal(t, 2009, d.Year())
	assert.Equal(t, time.December, d.Month())

	_, err = parseTransactionDate("not-a-date")
	assert.Error(t, err)
}

func TestLoadPharmacies_GeoidFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pharmacies.csv")
	require.NoError(t, os.WriteFile(path, []byte("BUYER_DEA_NO,GEOID\nPH1,51027\n"), 0o644))

	out, err := LoadPharmacies(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "51027", out[0].CountyFIPS)
}

func TestLoadShipments_MissingFile(t *testing.T) {
	_, err := LoadShipments(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
