package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"edadash/domain/dataset"
)

// BankGeneratorConfig configures the synthetic bank-marketing generator
type BankGeneratorConfig struct {
	Rows         int     `json:"rows"`
	Seed         int64   `json:"seed"`
	OutlierRate  float64 `json:"outlier_rate"`  // share of balances drawn far from the bulk
	MissingRate  float64 `json:"missing_rate"`  // share of education cells left blank
	SubscribeAvg float64 `json:"subscribe_avg"` // base rate of y = "yes"
}

// DefaultBankConfig returns sensible defaults for bank data generation
func DefaultBankConfig() BankGeneratorConfig {
	return BankGeneratorConfig{
		Rows:         200,
		Seed:         42,
		OutlierRate:  0.04,
		MissingRate:  0.02,
		SubscribeAvg: 0.12,
	}
}

var (
	bankJobs      = []string{"admin.", "blue-collar", "entrepreneur", "housemaid", "management", "retired", "self-employed", "services", "student", "technician", "unemployed", "unknown"}
	bankMarital   = []string{"married", "single", "divorced"}
	bankEducation = []string{"primary", "secondary", "tertiary", "unknown"}
	bankContact   = []string{"cellular", "telephone", "unknown"}
	bankMonths    = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
	bankYesNo     = []string{"no", "yes"}
)

// BankHeaders are the columns of the generated table
var BankHeaders = []string{"age", "job", "marital", "education", "default", "balance", "housing", "loan", "contact", "day", "month", "duration", "campaign", "y"}

// GenerateBankRows produces deterministic rows shaped like the UCI bank
// marketing table: skewed balances with occasional extreme values, a dozen
// job categories and a binary outcome.
func GenerateBankRows(config BankGeneratorConfig) [][]string {
	rng := rand.New(rand.NewSource(config.Seed))
	rows := make([][]string, 0, config.Rows)

	for i := 0; i < config.Rows; i++ {
		age := 18 + int(math.Abs(rng.NormFloat64()*11+23))
		balance := int(math.Exp(rng.NormFloat64()*1.1 + 6.5))
		if rng.Float64() < 0.08 {
			balance = -balance / 4
		}
		if rng.Float64() < config.OutlierRate {
			balance = 40000 + rng.Intn(60000)
		}
		duration := int(rng.ExpFloat64() * 250)
		campaign := 1 + int(rng.ExpFloat64()*1.8)

		education := pick(rng, bankEducation)
		if rng.Float64() < config.MissingRate {
			education = ""
		}

		subscribeRate := config.SubscribeAvg + float64(duration)/5000
		y := "no"
		if rng.Float64() < subscribeRate {
			y = "yes"
		}

		rows = append(rows, []string{
			strconv.Itoa(age),
			pick(rng, bankJobs),
			pick(rng, bankMarital),
			education,
			weighted(rng, bankYesNo, 0.98),
			strconv.Itoa(balance),
			weighted(rng, bankYesNo, 0.45),
			weighted(rng, bankYesNo, 0.84),
			pick(rng, bankContact),
			strconv.Itoa(1 + rng.Intn(31)),
			pick(rng, bankMonths),
			strconv.Itoa(duration),
			strconv.Itoa(campaign),
			y,
		})
	}
	return rows
}

// WriteBankCSV writes a generated table with the given separator
func WriteBankCSV(w io.Writer, config BankGeneratorConfig, separator rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = separator
	if err := cw.Write(BankHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(GenerateBankRows(config)); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// Bank returns the generated table as a dataset with the expected partition:
// age, balance, day, duration, campaign numerical; everything else categorical.
func Bank(config BankGeneratorConfig) *dataset.Dataset {
	rows := GenerateBankRows(config)
	numeric := map[string]bool{"age": true, "balance": true, "day": true, "duration": true, "campaign": true}

	columns := make([]*dataset.Column, len(BankHeaders))
	for j, name := range BankHeaders {
		if numeric[name] {
			values := make([]float64, len(rows))
			for i, row := range rows {
				v, _ := strconv.ParseFloat(row[j], 64)
				values[i] = v
			}
			columns[j] = Num(name, values...)
			continue
		}
		values := make([]string, len(rows))
		for i, row := range rows {
			values[i] = row[j]
		}
		columns[j] = Cat(name, values...)
	}
	return MustDataset(columns...)
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

// weighted returns options[0] with probability p, otherwise options[1]
func weighted(rng *rand.Rand, options []string, p float64) string {
	if rng.Float64() < p {
		return options[0]
	}
	return options[1]
}
