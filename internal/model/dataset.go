package model

import "time"

// Shipment is one row of the opioid shipment transaction data,
// reduced to the columns the pipeline uses.
type Shipment struct {
	BuyerDEANo      string
	BuyerState      string
	DrugName        string
	TransactionDate time.Time
	BaseWeightGrams float64
	DosageUnit      float64
	MMEConversion   float64 // morphine-equivalent conversion factor
}

// MME returns the shipment's morphine milligram equivalents.
func (s Shipment) MME() float64 {
	return s.BaseWeightGrams * 1000 * s.MMEConversion
}

// Pharmacy is one row of the pharmacy registry, used to place a
// buyer DEA number in a county.
type Pharmacy struct {
	BuyerDEANo  string
	BuyerState  string
	CountyFIPS  string // 5-digit state+county FIPS
	BusinessAct string
}

// CountyDemographics is one row of the census demographics table.
type CountyDemographics struct {
	CountyFIPS      string
	CountyName      string
	State           string
	Population      float64
	MedianIncome    float64
	BachelorOrAbove float64 // percent
}

// CountyReport is one output row: shipments aggregated to a county,
// merged with demographics.
type CountyReport struct {
	CountyFIPS    string
	CountyName    string
	State         string
	TotalMME      float64
	Shipments     int
	Pharmacies    int
	Population    float64
	MedianIncome  float64
	MMEPerCapita  float64 // 0 when population is unknown
}
