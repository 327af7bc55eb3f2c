package sim

import (
	"fmt"
	"math"

	"backbeat/internal/balance"
)

// Awareness gained per unit of weekly listening, and the shape of a song's
// first week. Awareness is audience familiarity, not quality; it decays in
// the passive-decay step and can cross the breakthrough threshold once.
const (
	awarenessPerBaseListen  = 5.0
	awarenessFromQualityDiv = 4.0
	awarenessPerMarketingK  = 1.5
)

// weekCosts accumulates the one-off costs incurred while earlier resolution
// steps run; the financial step folds them into the breakdown.
type weekCosts struct {
	signingCents     int64
	projectCents     int64
	marketingCents   int64
	roleMeetingCents int64
}

// resolveFinances runs the week's money: streaming decay revenue, tour
// settlements, then the itemized expense side. It mutates cash on the
// working state and never clamps; a bad week below the bankruptcy
// threshold is flagged, not rejected.
func resolveFinances(bal *balance.Balance, st *GameState, sum *WeekSummary, costs weekCosts) {
	revenue := streamingRevenue(bal, st, sum)
	revenue += settledTourRevenue(st, sum)

	b := FinancialBreakdown{
		OperationsCents:       bal.Expenses.WeeklyOperationsCents,
		SigningBonusesCents:   costs.signingCents,
		ProjectCostsCents:     costs.projectCents,
		MarketingCostsCents:   costs.marketingCents,
		RoleMeetingCostsCents: costs.roleMeetingCents,
	}
	for i := range st.Artists {
		if st.Artists[i].Signed {
			b.ArtistSalariesCents += st.Artists[i].WeeklyCostCents
		}
	}
	// Executive payroll runs on a batch cadence, not weekly.
	if st.Week%bal.Expenses.ExecSalaryCadenceWeeks == 0 {
		for i := range st.Executives {
			b.ExecutiveSalariesCents += st.Executives[i].SalaryCents
		}
	}

	expenses := b.Total()
	st.CashCents += revenue - expenses

	sum.RevenueCents = revenue
	sum.ExpensesCents = expenses
	sum.Breakdown = b
	if revenue > 0 {
		sum.Changes = append(sum.Changes, Change{
			Type:        ChangeRevenue,
			Description: "weekly revenue collected",
			AmountCents: revenue,
		})
	}
	if expenses > 0 {
		sum.Changes = append(sum.Changes, Change{
			Type:        ChangeExpense,
			Description: "weekly expenses paid",
			AmountCents: expenses,
		})
	}
	if st.CashCents < bal.Expenses.BankruptcyBelowCents {
		sum.BankruptcyRisk = true
		sum.Changes = append(sum.Changes, Change{
			Type:        ChangeBankruptcyRisk,
			Description: "cash below bankruptcy threshold",
			AmountCents: st.CashCents,
		})
	}
}

// streamingRevenue decays every released song's weekly streams, applies any
// one-time breakthrough surge, and converts streams to money through the
// per-stream rate, access-tier multipliers and the seasonal modifier.
func streamingRevenue(bal *balance.Balance, st *GameState, sum *WeekSummary) int64 {
	s := bal.Streaming
	tierMult := bal.Access.PlaylistMult[st.PlaylistAccess] * bal.Access.PressMult[st.PressAccess]
	seasonMult := bal.QuarterMult(st.Week)

	var total int64
	for i := range st.Songs {
		song := &st.Songs[i]
		if !song.Released || song.Dormant {
			continue
		}
		// A song released this week keeps its launch streams; older songs decay.
		if song.ReleasedWeek != st.Week {
			song.WeeklyStreams = int64(math.Round(float64(song.WeeklyStreams) * (1 - s.WeeklyDecay)))
		}
		song.Awareness = math.Min(100,
			song.Awareness+awarenessPerBaseListen*float64(song.WeeklyStreams)/float64(s.FirstWeekBaseStreams))
		if !song.BrokeThrough && song.Awareness >= s.BreakthroughThreshold {
			song.BrokeThrough = true
			song.WeeklyStreams = int64(math.Round(float64(song.WeeklyStreams) * s.BreakthroughMult))
			sum.Changes = append(sum.Changes, Change{
				Type:        ChangeBreakthrough,
				Description: fmt.Sprintf("%q broke through", song.Title),
				RefID:       song.ID,
			})
		}
		if song.WeeklyStreams < s.DormantBelowStreams {
			song.WeeklyStreams = 0
			song.Dormant = true
			continue
		}
		song.TotalStreams += song.WeeklyStreams
		cents := int64(math.Round(float64(song.WeeklyStreams) * s.RateCentsPerStream * tierMult * seasonMult))
		song.RevenueCents += cents
		total += cents
	}
	return total
}

// settledTourRevenue recognizes tours that completed this week. Net profit
// can be negative; it still lands on the revenue side so the cash equation
// stays money' = money + revenue - expenses.
func settledTourRevenue(st *GameState, sum *WeekSummary) int64 {
	var total int64
	for i := range st.Projects {
		p := &st.Projects[i]
		if p.Type != ProjectTour || p.Tour == nil || p.Tour.SettledWeek != st.Week {
			continue
		}
		total += p.Tour.NetCents
		sum.Changes = append(sum.Changes, Change{
			Type:        ChangeTourSettled,
			Description: fmt.Sprintf("tour settled over %d cities", p.Tour.Cities),
			AmountCents: p.Tour.NetCents,
			RefID:       p.ID,
		})
	}
	return total
}

// sellThrough is the fraction of a venue's capacity a tour stop sells:
// base rate plus reputation, popularity and marketing bonuses, capped at 1.
func sellThrough(bal *balance.Balance, reputation int, popularity float64, tourBudgetCents int64) float64 {
	t := bal.Tour
	marketingK := float64(tourBudgetCents) / 100_000 // cents -> thousands of dollars
	v := t.SellThroughBase +
		float64(reputation)/t.ReputationBonusDiv +
		popularity/t.PopularityBonusDiv +
		marketingK*t.MarketingBonusPerK
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// resolveTourCity settles one tour stop at the label's current venue access
// level and accumulates the profit into the tour's running total.
func resolveTourCity(bal *balance.Balance, st *GameState, p *Project, artist *Artist) TourCityResult {
	t := bal.Tour
	level := int(st.VenueAccess)

	rate := sellThrough(bal, st.Reputation, artist.Popularity, p.BudgetCents)
	sold := int64(math.Round(rate * float64(t.VenueCapacity[level])))
	gross := sold * t.TicketPriceCents[level]

	perCityMarketing := int64(0)
	if p.Tour.Cities > 0 {
		perCityMarketing = p.BudgetCents / int64(p.Tour.Cities)
	}
	profit := gross - t.VenueCostCents[level] - t.ProductionCostPerCityCents - perCityMarketing

	res := TourCityResult{
		City:        p.Tour.CitiesDone + 1,
		Week:        st.Week,
		SellThrough: rate,
		TicketsSold: sold,
		ProfitCents: profit,
	}
	p.Tour.CityResults = append(p.Tour.CityResults, res)
	p.Tour.CitiesDone++
	p.Tour.NetCents += profit
	return res
}

// launchStreams computes a song's first chart week from quality, the
// release's per-song marketing spend and any pre-release awareness.
func launchStreams(bal *balance.Balance, quality int, marketingPerSongCents int64, awareness float64) int64 {
	s := bal.Streaming
	q := float64(quality) / 100
	base := float64(s.FirstWeekBaseStreams) * math.Pow(q, s.QualityExponent)
	marketingK := float64(marketingPerSongCents) / 100_000
	streams := (base + marketingK*s.MarketingStreamsPerK) * (1 + awareness*s.AwarenessStreamFactor)
	return int64(math.Round(streams))
}
