package sim

import "backbeat/internal/balance"

// Starter roster. Every new label sees the same scouting pool and staff; the
// seed only controls how the simulation unfolds from there.
var starterArtists = []Artist{
	{ID: "art-nova", Name: "Nova Reyes", Genre: "pop",
		Talent: 78, WorkEthic: 65, Popularity: 35, Mood: 60, Loyalty: 50, Temperament: 55, Energy: 80,
		SigningCostCents: 800_000, WeeklyCostCents: 45_000},
	{ID: "art-harbor", Name: "Grey Harbor", Genre: "indie",
		Talent: 62, WorkEthic: 85, Popularity: 12, Mood: 58, Loyalty: 55, Temperament: 70, Energy: 75,
		SigningCostCents: 300_000, WeeklyCostCents: 25_000},
	{ID: "art-vexa", Name: "Vexa", Genre: "electronic",
		Talent: 71, WorkEthic: 55, Popularity: 48, Mood: 52, Loyalty: 40, Temperament: 35, Energy: 90,
		SigningCostCents: 1_100_000, WeeklyCostCents: 60_000},
	{ID: "art-copper", Name: "Copper Lane", Genre: "folk",
		Talent: 55, WorkEthic: 78, Popularity: 8, Mood: 65, Loyalty: 60, Temperament: 80, Energy: 60,
		SigningCostCents: 180_000, WeeklyCostCents: 18_000},
	{ID: "art-solis", Name: "Mara Solis", Genre: "r&b",
		Talent: 84, WorkEthic: 60, Popularity: 55, Mood: 55, Loyalty: 45, Temperament: 50, Energy: 70,
		SigningCostCents: 1_600_000, WeeklyCostCents: 75_000},
	{ID: "art-district", Name: "North District", Genre: "hip-hop",
		Talent: 68, WorkEthic: 72, Popularity: 30, Mood: 60, Loyalty: 50, Temperament: 45, Energy: 85,
		SigningCostCents: 650_000, WeeklyCostCents: 38_000},
}

var starterExecutives = []Executive{
	{ID: "exec-cole", Name: "Dana Cole", Role: "a_and_r", SalaryCents: 140_000, Loyalty: 60, Mood: 60},
	{ID: "exec-brook", Name: "Sam Brook", Role: "marketing", SalaryCents: 120_000, Loyalty: 60, Mood: 60},
	{ID: "exec-ito", Name: "Rin Ito", Role: "touring", SalaryCents: 110_000, Loyalty: 60, Mood: 60},
}

// NewGame builds the week-1 state for a fresh label. The caller supplies the
// identity; the seed fixes the whole run's RNG stream.
func NewGame(id string, bal *balance.Balance, seed uint64) *GameState {
	state, inc := NewRNG(seed, 1).Save()

	st := &GameState{
		ID:         id,
		Week:       1,
		CashCents:  bal.Expenses.StartingCashCents,
		Reputation: 0,
		FocusSlots: bal.Week.FocusSlots,
		RNGState:   state,
		RNGInc:     inc,
		Flags:      map[string]bool{},
		Artists:    append([]Artist(nil), starterArtists...),
		Executives: append([]Executive(nil), starterExecutives...),
	}
	return st
}
