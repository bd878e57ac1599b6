// Package factors provides a file-backed normalization factor provider.
// The dataset is a JSON document keyed by 4-digit year, one entry per year:
//
//	{"2023": {"cpi": "1.104", "eur": "4.9465", "usd": "4.5743",
//	          "gdp": "1605600", "population": "19051562"}}
//
// Factor sets are built fresh per request; nothing is cached here beyond
// the parsed document itself.
package factors

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"budget-analytics/core/types"
	"budget-analytics/internal/errors"
)

// yearFactors is one year's worth of factors as stored on disk
type yearFactors struct {
	CPI        decimal.Decimal `json:"cpi"`
	EUR        decimal.Decimal `json:"eur"`
	USD        decimal.Decimal `json:"usd"`
	GDP        decimal.Decimal `json:"gdp"`
	Population decimal.Decimal `json:"population"`
}

// FileProvider serves normalization factors from a JSON dataset
type FileProvider struct {
	years map[string]yearFactors
}

// NewFileProvider loads and parses the dataset at path
func NewFileProvider(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("reading factors dataset", err)
	}
	return parse(data)
}

func parse(data []byte) (*FileProvider, error) {
	years := make(map[string]yearFactors)
	if err := json.Unmarshal(data, &years); err != nil {
		return nil, errors.Config("decoding factors dataset", err)
	}
	return &FileProvider{years: years}, nil
}

// GenerateFactors builds a factor set for the requested years. A year
// absent from the dataset is an error; the engine treats it as a
// normalization failure for the whole request.
func (p *FileProvider) GenerateFactors(_ context.Context, years []int) (*types.NormalizationFactors, error) {
	out := types.NewNormalizationFactors()
	for _, year := range years {
		key := strconv.Itoa(year)
		yf, ok := p.years[key]
		if !ok {
			return nil, errors.Newf(errors.TypeNormalization, "no factors for year %s", key)
		}
		out.CPI[key] = yf.CPI
		out.EUR[key] = yf.EUR
		out.USD[key] = yf.USD
		out.GDP[key] = yf.GDP
		out.Population[key] = yf.Population
	}
	return out, nil
}
