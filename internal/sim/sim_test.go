package sim

import (
	"io"
	"log/slog"

	"backbeat/internal/balance"
	"backbeat/internal/catalog"
)

// testBalance mirrors the shipped balance.toml so test expectations line up
// with the real tuning.
func testBalance() *balance.Balance {
	return &balance.Balance{
		Quality: balance.QualityTable{
			ProducerBonus:   []float64{0, 5, 12, 20},
			ProducerSkill:   []float64{50, 65, 80, 95},
			TimeMultiplier:  []float64{0.9, 1.0, 1.05, 1.15},
			Dampening:       0.7,
			OutlierBreakout: 0.05,
			OutlierFailure:  0.05,
		},
		Costs: balance.CostTable{
			BaseSongCostCents: map[string]int64{"single": 350000, "ep": 400000, "album": 450000},
			ProducerCostMult:  []float64{1.0, 1.8, 3.0, 5.5},
			TimeCostMult:      []float64{1.0, 1.25, 1.6, 2.0},
			StageShare:        map[string]float64{"planning": 0.1, "writing": 0.3, "recording": 0.6},
		},
		Streaming: balance.StreamingTable{
			RateCentsPerStream:    0.4,
			WeeklyDecay:           0.15,
			DormantBelowStreams:   100,
			FirstWeekBaseStreams:  120000,
			QualityExponent:       2.0,
			MarketingStreamsPerK:  900,
			AwarenessStreamFactor: 0.008,
			BreakthroughThreshold: 70,
			BreakthroughMult:      2.5,
		},
		Tour: balance.TourTable{
			SellThroughBase:            0.55,
			ReputationBonusDiv:         500,
			PopularityBonusDiv:         400,
			MarketingBonusPerK:         0.004,
			TicketPriceCents:           []int64{2500, 4000, 6500, 9000},
			VenueCapacity:              []int64{300, 1200, 6000, 24000},
			VenueCostCents:             []int64{150000, 500000, 2200000, 8000000},
			ProductionCostPerCityCents: 120000,
			CitiesBase:                 4,
			CitiesPerBudget100K:        1,
			CitiesMax:                  12,
		},
		Chart: balance.ChartTable{Size: 100, VarianceMin: 0.8, VarianceMax: 1.2},
		Access: balance.AccessTable{
			PlaylistThresholds: []int{60, 180, 400},
			PressThresholds:    []int{90, 240, 500},
			VenueThresholds:    []int{120, 300, 600},
			PlaylistMult:       []float64{1.0, 1.15, 1.35, 1.6},
			PressMult:          []float64{1.0, 1.1, 1.25, 1.45},
		},
		Expenses: balance.ExpenseTable{
			WeeklyOperationsCents:  350000,
			ExecSalaryCadenceWeeks: 4,
			RoleMeetingCostCents:   50000,
			BankruptcyBelowCents:   -2500000,
			StartingCashCents:      7500000,
		},
		Decay:   balance.DecayTable{MoodDrift: 0.1, ExecLoyaltyDecay: 0.5, AwarenessDecay: 0.12},
		Seasons: balance.SeasonTable{QuarterRevenueMult: []float64{1.0, 0.95, 1.05, 1.25}},
		Lifecycle: balance.LifecycleTable{
			PlanningWeeks:       1,
			SongsPerWritingWeek: 3,
			RecordingWeeks:      []int{1, 2, 3, 4},
			TourProductionWeeks: 2,
		},
		Week: balance.WeekTable{
			FocusSlots:           3,
			ReputationPerRelease: 5,
			ReputationPerTop10:   8,
			ReputationPerTop40:   3,
		},
	}
}

func testCatalog() []catalog.Competitor {
	return []catalog.Competitor{
		{ID: "cmp-a", Title: "Heavy Rotation", Artist: "The Benchmarks", BaseStreams: 1_000_000},
		{ID: "cmp-b", Title: "Second Wind", Artist: "Control Group", BaseStreams: 400_000},
		{ID: "cmp-c", Title: "Floor Noise", Artist: "Baseline", BaseStreams: 1_000},
	}
}

func testState(week int) *GameState {
	state, inc := NewRNG(42, 1).Save()
	return &GameState{
		ID:         "g-test",
		Week:       week,
		CashCents:  7_500_000,
		Reputation: 10,
		FocusSlots: 3,
		RNGState:   state,
		RNGInc:     inc,
		Flags:      map[string]bool{},
		Artists: []Artist{
			{
				ID: "a1", Name: "Nova Reyes", Genre: "pop",
				Talent: 75, WorkEthic: 70, Popularity: 40, Mood: 60, Loyalty: 50,
				Signed: true, SigningCostCents: 500000, WeeklyCostCents: 40000,
			},
			{
				ID: "a2", Name: "Grey Harbor", Genre: "indie",
				Talent: 55, WorkEthic: 80, Popularity: 15, Mood: 55, Loyalty: 50,
				SigningCostCents: 200000, WeeklyCostCents: 25000,
			},
		},
		Executives: []Executive{
			{ID: "x1", Name: "Dana Cole", Role: "a_and_r", SalaryCents: 120000, Loyalty: 60, Mood: 60},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEngine(t interface{ Fatalf(string, ...any) }) *Engine {
	e, err := New(testBalance(), testCatalog(), testLogger())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}
