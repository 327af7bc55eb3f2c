package sim

import (
	"math"

	"backbeat/internal/balance"
)

// Song quality bounds. Every recorded song lands inside these regardless of
// how extreme the inputs or variance draws are.
const (
	QualityMin = 25
	QualityMax = 98
)

// Budget efficiency anchors: spending exactly the minimum-viable cost scores
// 0.8 on the spend curve (factor 0.85), double the minimum scores 2.0
// (factor 1.20). Past the high anchor the configured dampening flattens the
// slope so money alone cannot carry a record.
const (
	budgetAnchorLow  = 0.8
	budgetAnchorHigh = 2.0
	budgetSlope      = 1.2
	overspendLogGain = 0.04
)

// Variance constants. Skill tightens the uniform band and softens the
// outliers: a high-skill session is consistent, not just better on average.
const (
	varianceBasePct  = 35.0
	varianceSkillPct = 30.0
	breakoutBase     = 1.5
	breakoutSpan     = 0.5
	breakoutTaperDiv = 250.0
	failureBase      = 0.5
	failureSpan      = 0.2
	failureShieldDiv = 200.0
)

type QualityInputs struct {
	Talent             float64
	WorkEthic          float64
	Popularity         float64
	Mood               float64
	ProducerTier       ProducerTier
	TimeTier           TimeTier
	BudgetPerSongCents int64
	ProjectType        ProjectType
	SongCount          int
}

// ComputeQuality resolves one song's quality. It consumes exactly two RNG
// draws (outlier selector, then magnitude) so the draw sequence per song is
// fixed. Result is rounded and clamped to [QualityMin, QualityMax].
func ComputeQuality(in QualityInputs, bal *balance.Balance, rng *RNG) int {
	core := qualityCore(in, bal)
	v := varianceMult(in, bal, rng)
	return clampQuality(math.Round(core * v))
}

// PreviewQuality is the estimate path: identical formula, variance pinned to
// its midpoint. Previews and authoritative resolution can never drift apart
// because both run through qualityCore.
func PreviewQuality(in QualityInputs, bal *balance.Balance) int {
	return clampQuality(math.Round(qualityCore(in, bal)))
}

func qualityCore(in QualityInputs, bal *balance.Balance) float64 {
	q := bal.Quality

	base := in.Talent + q.ProducerBonus[in.ProducerTier]
	timeFactor := q.TimeMultiplier[in.TimeTier] * (0.8 + 0.4*in.WorkEthic/100)
	popFactor := 0.8 + 0.3*in.Popularity/100
	moodFactor := 0.9 + 0.2*in.Mood/100
	focus := focusFactor(in.SongCount)
	budget := budgetFactor(in.BudgetPerSongCents,
		bal.MinimumViableCostCents(string(in.ProjectType), int(in.ProducerTier), int(in.TimeTier)),
		q.Dampening)

	return base * timeFactor * popFactor * focus * budget * moodFactor
}

// focusFactor models session fatigue: the first three songs of a session are
// free, every song beyond that compounds a small penalty.
func focusFactor(songCount int) float64 {
	if songCount <= 3 {
		return 1.0
	}
	return math.Pow(0.97, float64(songCount-3))
}

func budgetFactor(budgetPerSongCents, minViableCents int64, dampening float64) float64 {
	if minViableCents <= 0 {
		return 1.0
	}
	ratio := float64(budgetPerSongCents) / float64(minViableCents)
	var score float64
	switch {
	case ratio <= 1:
		score = budgetAnchorLow * ratio
	case ratio <= 2:
		score = budgetAnchorLow + (ratio-1)*budgetSlope
	default:
		score = budgetAnchorHigh + (ratio-2)*budgetSlope*dampening
	}
	return spendCurve(score)
}

// spendCurve maps a budget efficiency score to a quality multiplier: steep
// reward near the viable threshold, diminishing returns past it, and a floor
// so underspending never collapses quality to zero.
func spendCurve(s float64) float64 {
	switch {
	case s < 0.6:
		return 0.65
	case s < 0.8:
		return lerp(0.65, 0.85, (s-0.6)/0.2)
	case s < 1.2:
		return lerp(0.85, 1.05, (s-0.8)/0.4)
	case s < 2.0:
		return lerp(1.05, 1.20, (s-1.2)/0.8)
	case s < 3.5:
		return lerp(1.20, 1.35, (s-2.0)/1.5)
	default:
		return 1.35 + overspendLogGain*math.Log1p(s-3.5)
	}
}

func varianceMult(in QualityInputs, bal *balance.Balance, rng *RNG) float64 {
	q := bal.Quality
	combined := (in.Talent + q.ProducerSkill[in.ProducerTier]) / 2

	sel := rng.Float64()
	mag := rng.Float64()

	outlier := q.OutlierBreakout + q.OutlierFailure
	switch {
	case sel < 1-outlier:
		spread := (varianceBasePct - varianceSkillPct*combined/100) / 100
		return 1 + (2*mag-1)*spread
	case sel < 1-q.OutlierFailure:
		// Breakout session: larger for low-skill acts.
		span := breakoutSpan * (1 - combined/breakoutTaperDiv)
		return breakoutBase + mag*span
	default:
		// Failed session: skill shields the downside.
		mix := mag + (1-mag)*combined/failureShieldDiv
		return failureBase + mix*failureSpan
	}
}

func clampQuality(v float64) int {
	if v < QualityMin {
		return QualityMin
	}
	if v > QualityMax {
		return QualityMax
	}
	return int(v)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
