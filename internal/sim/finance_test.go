package sim

import (
	"math"
	"testing"
)

func TestResolveFinancesCashEquation(t *testing.T) {
	bal := testBalance()
	st := testState(5)
	st.Songs = []Song{{
		ID: "s1", ProjectID: "p1", ArtistID: "a1", Title: "Midnight Parade",
		Quality: 70, Recorded: true, Released: true, ReleasedWeek: 3,
		WeeklyStreams: 50_000, Awareness: 20,
	}}
	before := st.CashCents

	sum := &WeekSummary{Week: st.Week}
	resolveFinances(bal, st, sum, weekCosts{projectCents: 120_000})

	if sum.Breakdown.Total() != sum.ExpensesCents {
		t.Fatalf("breakdown total %d != expenses %d", sum.Breakdown.Total(), sum.ExpensesCents)
	}
	if got := before + sum.RevenueCents - sum.ExpensesCents; st.CashCents != got {
		t.Fatalf("cash %d != before+revenue-expenses %d", st.CashCents, got)
	}
	if sum.RevenueCents <= 0 {
		t.Fatalf("streaming song must produce revenue")
	}
}

func TestExecSalaryCadence(t *testing.T) {
	bal := testBalance()
	for _, tc := range []struct {
		week int
		paid bool
	}{{3, false}, {4, true}, {5, false}, {8, true}, {12, true}} {
		st := testState(tc.week)
		sum := &WeekSummary{Week: st.Week}
		resolveFinances(bal, st, sum, weekCosts{})
		got := sum.Breakdown.ExecutiveSalariesCents
		if tc.paid && got != 120_000 {
			t.Fatalf("week %d: expected exec payroll, got %d", tc.week, got)
		}
		if !tc.paid && got != 0 {
			t.Fatalf("week %d: unexpected exec payroll %d", tc.week, got)
		}
	}
}

func TestStreamingDecaySkipsReleaseWeek(t *testing.T) {
	bal := testBalance()
	st := testState(6)
	st.Songs = []Song{
		{ID: "new", ProjectID: "p1", ArtistID: "a1", Title: "Fresh",
			Quality: 70, Recorded: true, Released: true, ReleasedWeek: 6, WeeklyStreams: 80_000},
		{ID: "old", ProjectID: "p1", ArtistID: "a1", Title: "Stale",
			Quality: 70, Recorded: true, Released: true, ReleasedWeek: 2, WeeklyStreams: 80_000},
	}
	sum := &WeekSummary{Week: st.Week}
	streamingRevenue(bal, st, sum)

	if st.Songs[0].WeeklyStreams != 80_000 {
		t.Fatalf("release-week song must keep launch streams, got %d", st.Songs[0].WeeklyStreams)
	}
	want := int64(math.Round(80_000 * 0.85))
	if st.Songs[1].WeeklyStreams != want {
		t.Fatalf("older song must decay to %d, got %d", want, st.Songs[1].WeeklyStreams)
	}
}

func TestStreamingDormancy(t *testing.T) {
	bal := testBalance()
	st := testState(10)
	st.Songs = []Song{{
		ID: "s1", ProjectID: "p1", ArtistID: "a1", Title: "Fading",
		Quality: 50, Recorded: true, Released: true, ReleasedWeek: 2, WeeklyStreams: 110,
	}}
	sum := &WeekSummary{Week: st.Week}
	streamingRevenue(bal, st, sum)

	song := &st.Songs[0]
	if !song.Dormant || song.WeeklyStreams != 0 {
		t.Fatalf("song below threshold must go dormant with zero streams: %+v", song)
	}
	if song.RevenueCents != 0 {
		t.Fatalf("dormant week must not earn, got %d", song.RevenueCents)
	}
}

func TestBreakthroughFiresOnce(t *testing.T) {
	bal := testBalance()
	st := testState(8)
	st.Songs = []Song{{
		ID: "s1", ProjectID: "p1", ArtistID: "a1", Title: "Climber",
		Quality: 85, Recorded: true, Released: true, ReleasedWeek: 4,
		WeeklyStreams: 100_000, Awareness: 69.5,
	}}
	sum := &WeekSummary{Week: st.Week}
	streamingRevenue(bal, st, sum)

	song := &st.Songs[0]
	if !song.BrokeThrough {
		t.Fatalf("awareness crossing threshold must trigger breakthrough")
	}
	want := int64(math.Round(math.Round(100_000*0.85) * 2.5))
	if song.WeeklyStreams != want {
		t.Fatalf("breakthrough surge: streams %d want %d", song.WeeklyStreams, want)
	}

	surged := song.WeeklyStreams
	sum2 := &WeekSummary{Week: st.Week + 1}
	st.Week++
	streamingRevenue(bal, st, sum2)
	if again := song.WeeklyStreams; again >= surged {
		t.Fatalf("breakthrough must not re-fire: streams %d after %d", again, surged)
	}
}

func TestTourSettlesNetAsRevenue(t *testing.T) {
	st := testState(9)
	st.Projects = []Project{{
		ID: "t1", ArtistID: "a1", Type: ProjectTour, Stage: StageCompleted,
		Tour: &TourStats{Cities: 4, CitiesDone: 4, NetCents: -75_000, SettledWeek: 9},
	}}
	sum := &WeekSummary{Week: st.Week}
	got := settledTourRevenue(st, sum)
	if got != -75_000 {
		t.Fatalf("tour net must land on revenue even when negative, got %d", got)
	}
	if len(sum.Changes) != 1 || sum.Changes[0].Type != ChangeTourSettled {
		t.Fatalf("expected one tour_settled change, got %+v", sum.Changes)
	}
}

func TestSellThroughCapped(t *testing.T) {
	bal := testBalance()
	if v := sellThrough(bal, 5000, 100, 500_000_000); v != 1 {
		t.Fatalf("sell-through must cap at 1, got %v", v)
	}
	low := sellThrough(bal, 0, 0, 0)
	if low != bal.Tour.SellThroughBase {
		t.Fatalf("baseline sell-through %v want %v", low, bal.Tour.SellThroughBase)
	}
}

func TestResolveTourCityAccumulates(t *testing.T) {
	bal := testBalance()
	st := testState(7)
	st.VenueAccess = 1
	p := &Project{
		ID: "t1", ArtistID: "a1", Type: ProjectTour, Stage: StageTouring,
		BudgetCents: 400_000,
		Tour:        &TourStats{Cities: 4},
	}
	artist := st.ArtistByID("a1")

	res := resolveTourCity(bal, st, p, artist)
	if res.City != 1 || p.Tour.CitiesDone != 1 {
		t.Fatalf("first stop must be city 1: %+v", res)
	}
	if p.Tour.NetCents != res.ProfitCents {
		t.Fatalf("net %d must match city profit %d", p.Tour.NetCents, res.ProfitCents)
	}
	if res.TicketsSold <= 0 || res.TicketsSold > bal.Tour.VenueCapacity[1] {
		t.Fatalf("tickets sold %d out of venue range", res.TicketsSold)
	}
}

func TestBankruptcyFlagNeverClamps(t *testing.T) {
	bal := testBalance()
	st := testState(3)
	st.CashCents = -2_400_000
	sum := &WeekSummary{Week: st.Week}
	resolveFinances(bal, st, sum, weekCosts{})

	if !sum.BankruptcyRisk {
		t.Fatalf("cash below threshold must flag bankruptcy risk")
	}
	if st.CashCents >= 0 {
		t.Fatalf("negative cash must be preserved, got %d", st.CashCents)
	}
}

func TestLaunchStreamsScalesWithQualityAndMarketing(t *testing.T) {
	bal := testBalance()
	plain := launchStreams(bal, 60, 0, 0)
	better := launchStreams(bal, 80, 0, 0)
	marketed := launchStreams(bal, 60, 2_000_000, 0)
	if better <= plain {
		t.Fatalf("higher quality must launch bigger: %d vs %d", better, plain)
	}
	if marketed <= plain {
		t.Fatalf("marketing must launch bigger: %d vs %d", marketed, plain)
	}
}
