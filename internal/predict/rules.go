package predict

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"

	"github.com/alexanderramin/queuecast/internal/features"
)

// BaseTime is one row of the rule-based base-time table.
type BaseTime struct {
	Key     string
	Minutes int
}

// DefaultBaseTimes is scanned in order; the first key that contains the task
// identifier, or is contained by it, wins.
var DefaultBaseTimes = []BaseTime{
	{"PASSPORT_RENEWAL", 60},
	{"VISA_APPLICATION", 75},
	{"ID_CARD", 30},
	{"DRIVING_LICENSE", 45},
	{"BIRTH_CERTIFICATE", 35},
	{"MARRIAGE_CERTIFICATE", 40},
	{"POLICE_CLEARANCE", 50},
	{"TAX_FILING", 65},
	{"BUSINESS_REGISTRATION", 80},
	{"PROPERTY_TRANSFER", 90},
}

// RuleConfig parameterizes the rule-based estimator.
type RuleConfig struct {
	Table          []BaseTime
	DefaultMinutes int
	JitterPct      float64
	Seed           int64
}

func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		Table:          DefaultBaseTimes,
		DefaultMinutes: 45,
		JitterPct:      0.10,
		Seed:           42,
	}
}

// Adjustment is one additive term applied on top of the base time.
type Adjustment struct {
	Rule    string  `json:"rule"`
	Minutes float64 `json:"minutes"`
}

// RuleEstimate is the itemized rule-based result before clamping.
type RuleEstimate struct {
	BaseKey     string       `json:"base_key,omitempty"`
	BaseMinutes int          `json:"base_minutes"`
	Adjustments []Adjustment `json:"adjustments"`
	Total       float64      `json:"total"`
}

// RuleEstimator predicts completion minutes from a static table and
// calendar adjustments. It holds no mutable state.
type RuleEstimator struct {
	cfg RuleConfig
}

func NewRuleEstimator(cfg RuleConfig) *RuleEstimator {
	if len(cfg.Table) == 0 {
		cfg.Table = DefaultBaseTimes
	}
	cfg.Table = append([]BaseTime(nil), cfg.Table...)
	return &RuleEstimator{cfg: cfg}
}

// BaseMinutes scans the table with bidirectional substring containment on
// the uppercased candidates, in candidate order. It falls back to the
// configured default.
func (r *RuleEstimator) BaseMinutes(candidates ...string) (string, int) {
	for _, c := range candidates {
		id := strings.ToUpper(strings.TrimSpace(c))
		if id == "" {
			continue
		}
		for _, row := range r.cfg.Table {
			if strings.Contains(row.Key, id) || strings.Contains(id, row.Key) {
				return row.Key, row.Minutes
			}
		}
	}
	return "", r.cfg.DefaultMinutes
}

// Estimate applies the base time, jitter and calendar adjustments. The
// jitter stream is seeded from the configured seed and the request, so the
// same request always gets the same answer.
func (r *RuleEstimator) Estimate(cal features.Calendar, clock, taskID string, candidates ...string) RuleEstimate {
	key, base := r.BaseMinutes(candidates...)
	est := RuleEstimate{BaseKey: key, BaseMinutes: base}

	add := func(rule string, minutes float64) {
		est.Adjustments = append(est.Adjustments, Adjustment{Rule: rule, Minutes: minutes})
	}

	if r.cfg.JitterPct > 0 {
		rng := rand.New(rand.NewSource(r.seedFor(cal, clock, taskID)))
		span := float64(base) * r.cfg.JitterPct
		add("jitter", (rng.Float64()*2-1)*span)
	}

	switch {
	case cal.Hour < 10:
		add("early_morning", -5)
	case cal.Hour >= 12 && cal.Hour < 14:
		add("lunch_hours", 10)
	case cal.Hour >= 16:
		add("late_afternoon", 5)
	}
	if cal.IsWeekend {
		add("weekend", 15)
	}
	switch cal.Weekday {
	case 0:
		add("monday", 8)
	case 4:
		add("friday", 5)
	}
	if cal.Month >= 6 && cal.Month <= 8 {
		add("summer", 7)
	}

	total := float64(base)
	for _, a := range est.Adjustments {
		total += a.Minutes
	}
	est.Total = total
	return est
}

func (r *RuleEstimator) seedFor(cal features.Calendar, clock, taskID string) int64 {
	h := fnv.New64a()
	var seed [8]byte
	for i := range seed {
		seed[i] = byte(uint64(r.cfg.Seed) >> (8 * i))
	}
	h.Write(seed[:])
	h.Write([]byte(cal.Date.Format("2006-01-02")))
	h.Write([]byte{0})
	h.Write([]byte(clock))
	h.Write([]byte{0})
	h.Write([]byte(taskID))
	return int64(h.Sum64() & math.MaxInt64)
}
