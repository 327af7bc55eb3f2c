package sim

import (
	"math"
	"testing"
)

func baseInputs() QualityInputs {
	return QualityInputs{
		Talent:             70,
		WorkEthic:          70,
		Popularity:         40,
		Mood:               60,
		ProducerTier:       ProducerRegional,
		TimeTier:           TimeStandard,
		BudgetPerSongCents: 700000,
		ProjectType:        ProjectEP,
		SongCount:          4,
	}
}

func TestComputeQualityBounds(t *testing.T) {
	bal := testBalance()
	rng := NewRNG(7, 0)
	in := baseInputs()
	for i := 0; i < 2000; i++ {
		q := ComputeQuality(in, bal, rng)
		if q < QualityMin || q > QualityMax {
			t.Fatalf("draw %d: quality %d outside [%d,%d]", i, q, QualityMin, QualityMax)
		}
	}
}

func TestComputeQualityConsumesTwoDraws(t *testing.T) {
	bal := testBalance()
	in := baseInputs()

	a := NewRNG(55, 0)
	ComputeQuality(in, bal, a)
	after := a.Float64()

	b := NewRNG(55, 0)
	b.Float64()
	b.Float64()
	want := b.Float64()
	if after != want {
		t.Fatalf("quality must consume exactly two draws: next=%v want=%v", after, want)
	}
}

func TestPreviewMatchesCoreWithoutVariance(t *testing.T) {
	bal := testBalance()
	in := baseInputs()
	got := PreviewQuality(in, bal)
	want := clampQuality(math.Round(qualityCore(in, bal)))
	if got != want {
		t.Fatalf("preview %d != core %d", got, want)
	}
	if got < QualityMin || got > QualityMax {
		t.Fatalf("preview out of bounds: %d", got)
	}
}

func TestBudgetFactorAnchors(t *testing.T) {
	minViable := int64(900_000)
	tests := []struct {
		name   string
		budget int64
		want   float64
	}{
		{"minimum viable", minViable, 0.85},
		{"double minimum", 2 * minViable, 1.20},
	}
	for _, tc := range tests {
		got := budgetFactor(tc.budget, minViable, 0.7)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: factor %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestBudgetFactorMonotonic(t *testing.T) {
	minViable := int64(500_000)
	prev := -1.0
	for budget := int64(0); budget <= 10*minViable; budget += minViable / 10 {
		f := budgetFactor(budget, minViable, 0.7)
		if f < prev {
			t.Fatalf("factor decreased at budget %d: %v < %v", budget, f, prev)
		}
		prev = f
	}
}

func TestBudgetFactorOverspendDampened(t *testing.T) {
	minViable := int64(500_000)
	at2x := budgetFactor(2*minViable, minViable, 0.7)
	at4x := budgetFactor(4*minViable, minViable, 0.7)
	at8x := budgetFactor(8*minViable, minViable, 0.7)
	gainNear := at4x - at2x
	gainFar := at8x - at4x
	if gainFar >= gainNear {
		t.Fatalf("overspend returns must diminish: near=%v far=%v", gainNear, gainFar)
	}
}

func TestFocusFactorPenalizesLongSessions(t *testing.T) {
	if focusFactor(1) != 1.0 || focusFactor(3) != 1.0 {
		t.Fatalf("sessions up to three songs must be unpenalized")
	}
	if got, want := focusFactor(5), math.Pow(0.97, 2); got != want {
		t.Fatalf("five-song session: %v want %v", got, want)
	}
	if focusFactor(12) >= focusFactor(6) {
		t.Fatalf("penalty must compound with song count")
	}
}

func TestVarianceSkillTightensSpread(t *testing.T) {
	bal := testBalance()

	elite := baseInputs()
	elite.Talent = 100
	elite.ProducerTier = ProducerLegendary // combined skill (100+95)/2

	rough := baseInputs()
	rough.Talent = 20
	rough.ProducerTier = ProducerLocal // combined skill (20+50)/2

	spreadOf := func(in QualityInputs, seed uint64) float64 {
		rng := NewRNG(seed, 0)
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < 5000; i++ {
			v := varianceMult(in, bal, rng)
			// Ignore outlier draws; the band is the normal case.
			if v >= 1.5 || v < 0.75 {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		return hi - lo
	}

	if eliteSpread, roughSpread := spreadOf(elite, 3), spreadOf(rough, 3); eliteSpread >= roughSpread {
		t.Fatalf("high skill must tighten variance: elite=%v rough=%v", eliteSpread, roughSpread)
	}
}

func TestVarianceOutlierRates(t *testing.T) {
	bal := testBalance()
	in := baseInputs()
	rng := NewRNG(11, 0)

	const n = 20000
	breakouts, failures := 0, 0
	for i := 0; i < n; i++ {
		v := varianceMult(in, bal, rng)
		switch {
		case v >= breakoutBase:
			breakouts++
		case v < failureBase+failureSpan:
			failures++
		}
	}
	// Each outlier class is configured at 5%; allow a wide statistical band.
	for _, tc := range []struct {
		name  string
		count int
	}{{"breakout", breakouts}, {"failure", failures}} {
		rate := float64(tc.count) / n
		if rate < 0.03 || rate > 0.07 {
			t.Fatalf("%s rate %v outside [0.03,0.07]", tc.name, rate)
		}
	}
}

func TestQualityRewardsBetterInputs(t *testing.T) {
	bal := testBalance()
	weak := baseInputs()
	weak.Talent = 30
	weak.ProducerTier = ProducerLocal
	weak.TimeTier = TimeRushed

	strong := baseInputs()
	strong.Talent = 90
	strong.ProducerTier = ProducerLegendary
	strong.TimeTier = TimePerfectionist
	strong.BudgetPerSongCents = 8_000_000

	if w, s := PreviewQuality(weak, bal), PreviewQuality(strong, bal); s <= w {
		t.Fatalf("stronger inputs must preview higher: weak=%d strong=%d", w, s)
	}
}
