// Package shipping holds the flat-rate shipping table. Costs are fixed per
// service code; nothing is quoted dynamically.
package shipping

import (
	"errors"
	"sort"
)

const ServicePickup = "PICKUP"

var ErrUnknownService = errors.New("unknown shipping service")

type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}

type FlatRateTable map[string]Option

func DefaultTable() FlatRateTable {
	return FlatRateTable{
		"JNE_REG":      {Code: "JNE_REG", Name: "JNE Reguler", Cost: 20_000},
		"JNE_YES":      {Code: "JNE_YES", Name: "JNE YES (next day)", Cost: 35_000},
		"SICEPAT_REG":  {Code: "SICEPAT_REG", Name: "SiCepat Reguler", Cost: 18_000},
		"SICEPAT_BEST": {Code: "SICEPAT_BEST", Name: "SiCepat BEST", Cost: 30_000},
		"ANTERAJA_REG": {Code: "ANTERAJA_REG", Name: "AnterAja Reguler", Cost: 19_000},
		ServicePickup:  {Code: ServicePickup, Name: "Ambil di toko", Cost: 0},
	}
}

func (t FlatRateTable) Quote(code string) (int64, error) {
	opt, ok := t[code]
	if !ok {
		return 0, ErrUnknownService
	}
	return opt.Cost, nil
}

func (t FlatRateTable) Options() []Option {
	opts := make([]Option, 0, len(t))
	for _, o := range t {
		opts = append(opts, o)
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Code < opts[j].Code })
	return opts
}
