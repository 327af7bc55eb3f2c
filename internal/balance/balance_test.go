package balance

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalTOML = `
[quality]
producer_bonus = [0.0, 5.0, 12.0, 20.0]
producer_skill = [50.0, 65.0, 80.0, 95.0]
time_multiplier = [0.9, 1.0, 1.05, 1.15]
dampening = 0.7
outlier_breakout = 0.05
outlier_failure = 0.05

[costs]
producer_cost_mult = [1.0, 1.8, 3.0, 5.5]
time_cost_mult = [1.0, 1.25, 1.6, 2.0]

[costs.base_song_cost_cents]
single = 350000
ep = 400000
album = 450000

[costs.stage_share]
planning = 0.1
writing = 0.3
recording = 0.6

[streaming]
rate_cents_per_stream = 0.4
weekly_decay = 0.15
dormant_below_streams = 100
first_week_base_streams = 120000
quality_exponent = 2.0
marketing_streams_per_k = 900.0
awareness_stream_factor = 0.008
breakthrough_threshold = 70.0
breakthrough_mult = 2.5

[tour]
sell_through_base = 0.55
reputation_bonus_div = 500.0
popularity_bonus_div = 400.0
marketing_bonus_per_k = 0.004
ticket_price_cents = [2500, 4000, 6500, 9000]
venue_capacity = [300, 1200, 6000, 24000]
venue_cost_cents = [150000, 500000, 2200000, 8000000]
production_cost_per_city_cents = 120000
cities_base = 4
cities_per_budget_100k = 1
cities_max = 12

[chart]
size = 100
variance_min = 0.8
variance_max = 1.2

[access]
playlist_thresholds = [60, 180, 400]
press_thresholds = [90, 240, 500]
venue_thresholds = [120, 300, 600]
playlist_mult = [1.0, 1.15, 1.35, 1.6]
press_mult = [1.0, 1.1, 1.25, 1.45]

[expenses]
weekly_operations_cents = 350000
exec_salary_cadence_weeks = 4
role_meeting_cost_cents = 50000
bankruptcy_below_cents = -2500000
starting_cash_cents = 7500000

[decay]
mood_drift = 0.1
exec_loyalty_decay = 0.5
awareness_decay = 0.12

[seasons]
quarter_revenue_mult = [1.0, 0.95, 1.05, 1.25]

[lifecycle]
planning_weeks = 1
songs_per_writing_week = 3
recording_weeks = [1, 2, 3, 4]
tour_production_weeks = 2

[week]
focus_slots = 3
reputation_per_release = 5
reputation_per_top10 = 8
reputation_per_top40 = 3
`

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.toml")
	if err := os.WriteFile(path, []byte(minimalTOML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b.Week.FocusSlots != 3 || b.Expenses.StartingCashCents != 7_500_000 {
		t.Fatalf("values not loaded: %+v", b.Week)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
	}{
		{"zero focus slots", "focus_slots = 3", "focus_slots = 0"},
		{"bad decay", "weekly_decay = 0.15", "weekly_decay = 1.5"},
		{"short tier list", "producer_bonus = [0.0, 5.0, 12.0, 20.0]", "producer_bonus = [0.0, 5.0]"},
		{"positive bankruptcy line", "bankruptcy_below_cents = -2500000", "bankruptcy_below_cents = 2500000"},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "balance.toml")
		body := strings.Replace(minimalTOML, tc.from, tc.to, 1)
		if body == minimalTOML {
			t.Fatalf("%s: replacement had no effect", tc.name)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); !errors.Is(err, ErrConfig) {
			t.Fatalf("%s: expected ErrConfig, got %v", tc.name, err)
		}
	}
}

func TestMinimumViableCostCents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.toml")
	if err := os.WriteFile(path, []byte(minimalTOML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// EP at regional producer (1.8x) and standard time (1.25x).
	if got := b.MinimumViableCostCents("ep", 1, 1); got != 900_000 {
		t.Fatalf("min viable %d want 900000", got)
	}
	// Unknown type falls back to single.
	if got := b.MinimumViableCostCents("mixtape", 0, 0); got != 350_000 {
		t.Fatalf("fallback %d want 350000", got)
	}
}

func TestQuarterMult(t *testing.T) {
	b := &Balance{Seasons: SeasonTable{QuarterRevenueMult: []float64{1.0, 0.95, 1.05, 1.25}}}
	tests := []struct {
		week int
		want float64
	}{
		{1, 1.0}, {13, 1.0}, {14, 0.95}, {27, 1.05}, {40, 1.25}, {52, 1.25}, {53, 1.0},
	}
	for _, tc := range tests {
		if got := b.QuarterMult(tc.week); got != tc.want {
			t.Fatalf("week %d: mult %v want %v", tc.week, got, tc.want)
		}
	}
}
