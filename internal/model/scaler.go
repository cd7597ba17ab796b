package model

import (
	"fmt"

	"github.com/alexanderramin/queuecast/internal/features"
)

// ScaleParam is one fitted standard-scaler column.
type ScaleParam struct {
	Feature string  `yaml:"feature"`
	Mean    float64 `yaml:"mean"`
	Scale   float64 `yaml:"scale"`
}

// Scaler standardizes named features as (x-mean)/scale. Features it has no
// parameters for pass through unchanged, which is how encoded categorical
// columns stay unscaled.
type Scaler struct {
	params map[string]ScaleParam
	order  []string
}

// NewScaler validates the fitted parameters. A zero scale is treated as 1,
// the convention for constant columns at fit time.
func NewScaler(params []ScaleParam) (*Scaler, error) {
	s := &Scaler{params: make(map[string]ScaleParam, len(params))}
	for _, p := range params {
		if p.Feature == "" {
			return nil, fmt.Errorf("scaler: parameter without feature name")
		}
		if _, dup := s.params[p.Feature]; dup {
			return nil, fmt.Errorf("scaler: duplicate feature %q", p.Feature)
		}
		if p.Scale < 0 {
			return nil, fmt.Errorf("scaler: feature %q has negative scale %v", p.Feature, p.Scale)
		}
		if p.Scale == 0 {
			p.Scale = 1
		}
		s.params[p.Feature] = p
		s.order = append(s.order, p.Feature)
	}
	return s, nil
}

// Features lists the scaled features in manifest order.
func (s *Scaler) Features() []string {
	return append([]string(nil), s.order...)
}

// Transform returns a scaled copy of v.
func (s *Scaler) Transform(v features.Vector) features.Vector {
	out := v.Clone()
	if s == nil {
		return out
	}
	for i, name := range out.Names {
		if p, ok := s.params[name]; ok {
			out.Values[i] = (out.Values[i] - p.Mean) / p.Scale
		}
	}
	return out
}
