// Package balance loads the numeric tuning tables the simulation consumes.
// Tables come from a TOML file supplied by the operator; the engine refuses
// to run with missing or malformed values, so every load goes through
// Validate before anything touches money.
package balance

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var ErrConfig = errors.New("invalid balance configuration")

// Tier counts are fixed by the game design: four producer tiers, four time
// tiers, four access levels per channel, four calendar quarters.
const (
	TierCount        = 4
	AccessLevelCount = 4
	QuarterCount     = 4
)

type Balance struct {
	Quality   QualityTable   `koanf:"quality"`
	Costs     CostTable      `koanf:"costs"`
	Streaming StreamingTable `koanf:"streaming"`
	Tour      TourTable      `koanf:"tour"`
	Chart     ChartTable     `koanf:"chart"`
	Access    AccessTable    `koanf:"access"`
	Expenses  ExpenseTable   `koanf:"expenses"`
	Decay     DecayTable     `koanf:"decay"`
	Seasons   SeasonTable    `koanf:"seasons"`
	Lifecycle LifecycleTable `koanf:"lifecycle"`
	Week      WeekTable      `koanf:"week"`
}

type QualityTable struct {
	// Indexed by producer tier ordinal (local..legendary).
	ProducerBonus []float64 `koanf:"producer_bonus"`
	ProducerSkill []float64 `koanf:"producer_skill"`
	// Indexed by time-investment tier ordinal (rushed..perfectionist).
	TimeMultiplier []float64 `koanf:"time_multiplier"`

	Dampening       float64 `koanf:"dampening"`
	OutlierBreakout float64 `koanf:"outlier_breakout"`
	OutlierFailure  float64 `koanf:"outlier_failure"`
}

type CostTable struct {
	// Minimum-viable recording cost per song, cents, keyed by project type.
	BaseSongCostCents map[string]int64 `koanf:"base_song_cost_cents"`
	// Cost scaling per producer / time tier ordinal.
	ProducerCostMult []float64 `koanf:"producer_cost_mult"`
	TimeCostMult     []float64 `koanf:"time_cost_mult"`
	// Share of a project's budget consumed as each stage completes.
	StageShare map[string]float64 `koanf:"stage_share"`
}

type StreamingTable struct {
	RateCentsPerStream    float64 `koanf:"rate_cents_per_stream"`
	WeeklyDecay           float64 `koanf:"weekly_decay"`
	DormantBelowStreams   int64   `koanf:"dormant_below_streams"`
	FirstWeekBaseStreams  int64   `koanf:"first_week_base_streams"`
	QualityExponent       float64 `koanf:"quality_exponent"`
	MarketingStreamsPerK  float64 `koanf:"marketing_streams_per_k"`
	AwarenessStreamFactor float64 `koanf:"awareness_stream_factor"`
	BreakthroughThreshold float64 `koanf:"breakthrough_threshold"`
	BreakthroughMult      float64 `koanf:"breakthrough_mult"`
}

type TourTable struct {
	SellThroughBase      float64 `koanf:"sell_through_base"`
	ReputationBonusDiv   float64 `koanf:"reputation_bonus_div"`
	PopularityBonusDiv   float64 `koanf:"popularity_bonus_div"`
	MarketingBonusPerK   float64 `koanf:"marketing_bonus_per_k"`
	// Indexed by venue access level.
	TicketPriceCents []int64 `koanf:"ticket_price_cents"`
	VenueCapacity    []int64 `koanf:"venue_capacity"`
	VenueCostCents   []int64 `koanf:"venue_cost_cents"`

	ProductionCostPerCityCents int64 `koanf:"production_cost_per_city_cents"`
	CitiesBase                 int   `koanf:"cities_base"`
	CitiesPerBudget100K        int   `koanf:"cities_per_budget_100k"`
	CitiesMax                  int   `koanf:"cities_max"`
}

type ChartTable struct {
	Size        int     `koanf:"size"`
	VarianceMin float64 `koanf:"variance_min"`
	VarianceMax float64 `koanf:"variance_max"`
}

type AccessTable struct {
	// Reputation thresholds for advancing past level 0; len = AccessLevelCount-1.
	PlaylistThresholds []int `koanf:"playlist_thresholds"`
	PressThresholds    []int `koanf:"press_thresholds"`
	VenueThresholds    []int `koanf:"venue_thresholds"`
	// Revenue multipliers per level; len = AccessLevelCount.
	PlaylistMult []float64 `koanf:"playlist_mult"`
	PressMult    []float64 `koanf:"press_mult"`
}

type ExpenseTable struct {
	WeeklyOperationsCents   int64 `koanf:"weekly_operations_cents"`
	ExecSalaryCadenceWeeks  int   `koanf:"exec_salary_cadence_weeks"`
	RoleMeetingCostCents    int64 `koanf:"role_meeting_cost_cents"`
	BankruptcyBelowCents    int64 `koanf:"bankruptcy_below_cents"`
	StartingCashCents       int64 `koanf:"starting_cash_cents"`
}

type DecayTable struct {
	MoodDrift        float64 `koanf:"mood_drift"`
	ExecLoyaltyDecay float64 `koanf:"exec_loyalty_decay"`
	AwarenessDecay   float64 `koanf:"awareness_decay"`
}

type SeasonTable struct {
	// Revenue multiplier per calendar quarter; len = QuarterCount.
	QuarterRevenueMult []float64 `koanf:"quarter_revenue_mult"`
}

type LifecycleTable struct {
	PlanningWeeks      int `koanf:"planning_weeks"`
	SongsPerWritingWeek int `koanf:"songs_per_writing_week"`
	// Recording weeks indexed by time tier ordinal.
	RecordingWeeks      []int `koanf:"recording_weeks"`
	TourProductionWeeks int   `koanf:"tour_production_weeks"`
}

type WeekTable struct {
	FocusSlots      int     `koanf:"focus_slots"`
	ReputationPerRelease int `koanf:"reputation_per_release"`
	ReputationPerTop10   int `koanf:"reputation_per_top10"`
	ReputationPerTop40   int `koanf:"reputation_per_top40"`
}

// Load reads the balance tables from path and validates them. Any missing or
// out-of-range value is a hard error; the engine never guesses around money.
func Load(path string) (*Balance, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
	}
	var b Balance
	if err := k.Unmarshal("", &b); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfig, path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Balance) Validate() error {
	check := func(ok bool, key string) error {
		if !ok {
			return fmt.Errorf("%w: %s", ErrConfig, key)
		}
		return nil
	}
	checks := []struct {
		ok  bool
		key string
	}{
		{len(b.Quality.ProducerBonus) == TierCount, "quality.producer_bonus must list all four tiers"},
		{len(b.Quality.ProducerSkill) == TierCount, "quality.producer_skill must list all four tiers"},
		{len(b.Quality.TimeMultiplier) == TierCount, "quality.time_multiplier must list all four tiers"},
		{b.Quality.Dampening > 0 && b.Quality.Dampening <= 1, "quality.dampening must be in (0,1]"},
		{b.Quality.OutlierBreakout > 0 && b.Quality.OutlierFailure > 0 &&
			b.Quality.OutlierBreakout+b.Quality.OutlierFailure < 1, "quality outlier chances must be positive and sum below 1"},

		{b.Costs.BaseSongCostCents["single"] > 0, "costs.base_song_cost_cents.single missing"},
		{b.Costs.BaseSongCostCents["ep"] > 0, "costs.base_song_cost_cents.ep missing"},
		{b.Costs.BaseSongCostCents["album"] > 0, "costs.base_song_cost_cents.album missing"},
		{len(b.Costs.ProducerCostMult) == TierCount, "costs.producer_cost_mult must list all four tiers"},
		{len(b.Costs.TimeCostMult) == TierCount, "costs.time_cost_mult must list all four tiers"},
		{b.Costs.StageShare["planning"] >= 0 && b.Costs.StageShare["writing"] > 0 &&
			b.Costs.StageShare["recording"] > 0, "costs.stage_share missing planning/writing/recording"},

		{b.Streaming.RateCentsPerStream > 0, "streaming.rate_cents_per_stream must be positive"},
		{b.Streaming.WeeklyDecay > 0 && b.Streaming.WeeklyDecay < 1, "streaming.weekly_decay must be in (0,1)"},
		{b.Streaming.DormantBelowStreams > 0, "streaming.dormant_below_streams must be positive"},
		{b.Streaming.FirstWeekBaseStreams > 0, "streaming.first_week_base_streams must be positive"},
		{b.Streaming.QualityExponent > 0, "streaming.quality_exponent must be positive"},
		{b.Streaming.BreakthroughThreshold > 0, "streaming.breakthrough_threshold must be positive"},
		{b.Streaming.BreakthroughMult >= 1, "streaming.breakthrough_mult must be >= 1"},

		{b.Tour.SellThroughBase > 0 && b.Tour.SellThroughBase <= 1, "tour.sell_through_base must be in (0,1]"},
		{b.Tour.ReputationBonusDiv > 0, "tour.reputation_bonus_div must be positive"},
		{b.Tour.PopularityBonusDiv > 0, "tour.popularity_bonus_div must be positive"},
		{len(b.Tour.TicketPriceCents) == AccessLevelCount, "tour.ticket_price_cents must list all venue levels"},
		{len(b.Tour.VenueCapacity) == AccessLevelCount, "tour.venue_capacity must list all venue levels"},
		{len(b.Tour.VenueCostCents) == AccessLevelCount, "tour.venue_cost_cents must list all venue levels"},
		{b.Tour.CitiesBase > 0 && b.Tour.CitiesMax >= b.Tour.CitiesBase, "tour cities bounds invalid"},

		{b.Chart.Size > 0, "chart.size must be positive"},
		{b.Chart.VarianceMin > 0 && b.Chart.VarianceMax >= b.Chart.VarianceMin, "chart variance range invalid"},

		{len(b.Access.PlaylistThresholds) == AccessLevelCount-1, "access.playlist_thresholds must list three steps"},
		{len(b.Access.PressThresholds) == AccessLevelCount-1, "access.press_thresholds must list three steps"},
		{len(b.Access.VenueThresholds) == AccessLevelCount-1, "access.venue_thresholds must list three steps"},
		{len(b.Access.PlaylistMult) == AccessLevelCount, "access.playlist_mult must list all four levels"},
		{len(b.Access.PressMult) == AccessLevelCount, "access.press_mult must list all four levels"},

		{b.Expenses.WeeklyOperationsCents > 0, "expenses.weekly_operations_cents must be positive"},
		{b.Expenses.ExecSalaryCadenceWeeks > 0, "expenses.exec_salary_cadence_weeks must be positive"},
		{b.Expenses.RoleMeetingCostCents > 0, "expenses.role_meeting_cost_cents must be positive"},
		{b.Expenses.BankruptcyBelowCents < 0, "expenses.bankruptcy_below_cents must be negative"},
		{b.Expenses.StartingCashCents > 0, "expenses.starting_cash_cents must be positive"},

		{b.Decay.MoodDrift > 0 && b.Decay.MoodDrift <= 1, "decay.mood_drift must be in (0,1]"},
		{b.Decay.ExecLoyaltyDecay >= 0, "decay.exec_loyalty_decay must be non-negative"},
		{b.Decay.AwarenessDecay > 0 && b.Decay.AwarenessDecay < 1, "decay.awareness_decay must be in (0,1)"},

		{len(b.Seasons.QuarterRevenueMult) == QuarterCount, "seasons.quarter_revenue_mult must list all four quarters"},

		{b.Lifecycle.PlanningWeeks > 0, "lifecycle.planning_weeks must be positive"},
		{b.Lifecycle.SongsPerWritingWeek > 0, "lifecycle.songs_per_writing_week must be positive"},
		{len(b.Lifecycle.RecordingWeeks) == TierCount, "lifecycle.recording_weeks must list all four time tiers"},
		{b.Lifecycle.TourProductionWeeks > 0, "lifecycle.tour_production_weeks must be positive"},

		{b.Week.FocusSlots > 0, "week.focus_slots must be positive"},
		{b.Week.ReputationPerRelease > 0, "week.reputation_per_release must be positive"},
	}
	for _, c := range checks {
		if err := check(c.ok, c.key); err != nil {
			return err
		}
	}
	for i, m := range b.Seasons.QuarterRevenueMult {
		if m <= 0 {
			return fmt.Errorf("%w: seasons.quarter_revenue_mult[%d] must be positive", ErrConfig, i)
		}
	}
	return nil
}

// MinimumViableCostCents is the per-song budget threshold below which the
// quality budget factor starts penalizing. Scales with project type and the
// chosen producer and time tiers.
func (b *Balance) MinimumViableCostCents(projectType string, producerTier, timeTier int) int64 {
	base := b.Costs.BaseSongCostCents[projectType]
	if base == 0 {
		base = b.Costs.BaseSongCostCents["single"]
	}
	v := float64(base) * b.Costs.ProducerCostMult[producerTier] * b.Costs.TimeCostMult[timeTier]
	return int64(v + 0.5)
}

// QuarterMult returns the seasonal revenue multiplier for a game week.
// Thirteen weeks to a quarter, four quarters to a year.
func (b *Balance) QuarterMult(week int) float64 {
	q := ((week - 1) / 13) % QuarterCount
	if q < 0 {
		q = 0
	}
	return b.Seasons.QuarterRevenueMult[q]
}
