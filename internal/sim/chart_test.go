package sim

import (
	"testing"

	"backbeat/internal/catalog"
)

func chartState(week int) *GameState {
	st := testState(week)
	st.Songs = []Song{
		{ID: "hit", ProjectID: "p1", ArtistID: "a1", Title: "Midnight Parade",
			Quality: 85, Recorded: true, Released: true, ReleasedWeek: week, WeeklyStreams: 2_000_000},
		{ID: "mid", ProjectID: "p1", ArtistID: "a1", Title: "Paper Letters",
			Quality: 60, Recorded: true, Released: true, ReleasedWeek: week - 2, WeeklyStreams: 500_000},
		{ID: "dead", ProjectID: "p1", ArtistID: "a1", Title: "Silence",
			Quality: 40, Recorded: true, Released: true, ReleasedWeek: week - 10, Dormant: true},
	}
	return st
}

func TestResolveChartOrderingAndPositions(t *testing.T) {
	bal := testBalance()
	st := chartState(5)
	entries := resolveChart(bal, st, testCatalog(), NewRNG(42, 0))

	if len(entries) == 0 {
		t.Fatalf("expected chart entries")
	}
	// Variance is capped at 1.2, so 2M player streams beat the 1M competitor.
	if entries[0].EntryID != "s:hit" || entries[0].Position != 1 {
		t.Fatalf("top entry should be the hit song: %+v", entries[0])
	}
	prevStreams := entries[0].Streams
	for i, e := range entries {
		if e.Position != 0 && e.Position != i+1 {
			t.Fatalf("entry %d holds position %d", i, e.Position)
		}
		if e.Position > bal.Chart.Size {
			t.Fatalf("position %d exceeds chart size", e.Position)
		}
		if e.Streams > prevStreams {
			t.Fatalf("streams not descending at %d", i)
		}
		prevStreams = e.Streams
		if e.EntryID == "s:dead" {
			t.Fatalf("dormant song must not chart")
		}
	}
}

func TestResolveChartTiebreakByID(t *testing.T) {
	bal := testBalance()
	st := testState(3)
	st.Songs = []Song{
		{ID: "p1-s2", ProjectID: "p1", ArtistID: "a1", Title: "B Side",
			Recorded: true, Released: true, ReleasedWeek: 3, WeeklyStreams: 10_000_000},
		{ID: "p1-s1", ProjectID: "p1", ArtistID: "a1", Title: "A Side",
			Recorded: true, Released: true, ReleasedWeek: 3, WeeklyStreams: 10_000_000},
	}
	entries := resolveChart(bal, st, testCatalog(), NewRNG(42, 0))
	if entries[0].EntryID != "s:p1-s1" || entries[1].EntryID != "s:p1-s2" {
		t.Fatalf("equal streams must break ties by id: %s then %s", entries[0].EntryID, entries[1].EntryID)
	}
}

func TestChartDebutAndMovement(t *testing.T) {
	bal := testBalance()
	st := chartState(5)
	first := resolveChart(bal, st, testCatalog(), NewRNG(42, 0))

	var hit ChartEntry
	for _, e := range first {
		if e.EntryID == "s:hit" {
			hit = e
		}
	}
	if !hit.IsDebut || hit.Movement != 0 || hit.Peak != hit.Position {
		t.Fatalf("first appearance must be a debut with zero movement: %+v", hit)
	}

	st.Chart = first
	st.Week++
	st.Songs[0].WeeklyStreams = 1_500_000
	second := resolveChart(bal, st, testCatalog(), NewRNG(43, 0))
	for _, e := range second {
		if e.EntryID != "s:hit" {
			continue
		}
		if e.IsDebut {
			t.Fatalf("second week must not re-debut")
		}
		if e.Movement != hit.Position-e.Position {
			t.Fatalf("movement %d want %d", e.Movement, hit.Position-e.Position)
		}
		if e.Peak > hit.Peak {
			t.Fatalf("peak must never worsen: %d after %d", e.Peak, hit.Peak)
		}
	}
}

func TestChartReentryIsFreshDebut(t *testing.T) {
	bal := testBalance()
	st := chartState(8)
	// Last week the song existed but held no position.
	st.Chart = []ChartEntry{{Week: 7, EntryID: "s:hit", Position: 0, IsPlayer: true, SongID: "hit"}}

	entries := resolveChart(bal, st, testCatalog(), NewRNG(42, 0))
	for _, e := range entries {
		if e.EntryID == "s:hit" {
			if !e.IsDebut {
				t.Fatalf("re-entry after falling off must count as a fresh debut")
			}
			return
		}
	}
	t.Fatalf("hit song missing from chart")
}

func TestChartDropsUnplacedCompetitorsKeepsPlayerRows(t *testing.T) {
	bal := testBalance()
	bal.Chart.Size = 2
	st := testState(4)
	st.Songs = []Song{{
		ID: "small", ProjectID: "p1", ArtistID: "a1", Title: "Quiet Weather",
		Recorded: true, Released: true, ReleasedWeek: 2, WeeklyStreams: 500,
	}}
	// Catalog rows that miss the cutoff vanish; the player row survives at
	// position 0 so the label can still see its own numbers.
	entries := resolveChart(bal, st, testCatalog(), NewRNG(42, 0))
	var sawPlayer bool
	placed := 0
	for _, e := range entries {
		if e.Position != 0 {
			placed++
		}
		if e.IsPlayer {
			sawPlayer = true
			if e.Position != 0 {
				t.Fatalf("500-stream song should not place on a chart led by millions")
			}
		}
	}
	if placed != 2 {
		t.Fatalf("expected exactly 2 placed rows, got %d", placed)
	}
	if !sawPlayer {
		t.Fatalf("unplaced player row must be kept")
	}
	if len(entries) != 3 {
		t.Fatalf("unplaced competitor must be dropped: %d rows", len(entries))
	}
}

func TestChartReputationAwards(t *testing.T) {
	bal := testBalance()
	st := testState(5)
	repBefore := st.Reputation
	sum := &WeekSummary{Week: st.Week}
	entries := []ChartEntry{
		{EntryID: "s:a", Position: 4, IsPlayer: true, IsDebut: true, SongID: "a", Title: "Top Ten"},
		{EntryID: "s:b", Position: 30, IsPlayer: true, SongID: "b", Title: "Mid Chart"},
		{EntryID: "cmp-a", Position: 1},
		{EntryID: "s:c", Position: 90, IsPlayer: true, SongID: "c", Title: "Tail"},
	}
	chartReputation(bal, st, sum, entries)

	want := repBefore + bal.Week.ReputationPerTop10 + bal.Week.ReputationPerTop40
	if st.Reputation != want {
		t.Fatalf("reputation %d want %d", st.Reputation, want)
	}
	if len(sum.Changes) != 1 || sum.Changes[0].Type != ChangeChartDebut {
		t.Fatalf("expected one debut change, got %+v", sum.Changes)
	}
}

func TestResolveChartCompetitorVarianceBand(t *testing.T) {
	bal := testBalance()
	st := testState(2)
	comps := []catalog.Competitor{{ID: "only", Title: "Only", Artist: "One", BaseStreams: 1_000_000}}
	for seed := uint64(1); seed <= 20; seed++ {
		entries := resolveChart(bal, st, comps, NewRNG(seed, 0))
		s := entries[0].Streams
		if s < 800_000 || s > 1_200_000 {
			t.Fatalf("seed %d: competitor streams %d outside variance band", seed, s)
		}
	}
}
