package sim

import (
	"fmt"
	"math"

	"backbeat/internal/balance"
)

// Song title word pools. Titles are drawn from the game RNG so a replayed
// week names its songs identically.
var (
	titleLead = []string{
		"Midnight", "Paper", "Golden", "Hollow", "Electric", "Quiet", "Neon",
		"Broken", "Silver", "Wildflower", "Last", "Crooked", "Velvet", "Northern",
	}
	titleTail = []string{
		"Parade", "Letters", "Static", "Harbor", "Youth", "Mirrors", "Engines",
		"Gardens", "Signals", "Weather", "Arrows", "Holiday", "Divide", "Honey",
	}
)

// stageWeeks returns how many weeks the project's current stage runs.
// Stages that wait on an external trigger (recorded, touring) report 0.
func stageWeeks(bal *balance.Balance, p *Project) int {
	lc := bal.Lifecycle
	switch p.Stage {
	case StagePlanning:
		return lc.PlanningWeeks
	case StageWriting:
		weeks := (p.SongCount + lc.SongsPerWritingWeek - 1) / lc.SongsPerWritingWeek
		if weeks < 1 {
			weeks = 1
		}
		return weeks
	case StageRecording:
		return lc.RecordingWeeks[p.TimeTier]
	case StageProduction:
		return lc.TourProductionWeeks
	}
	return 0
}

// advanceProjects moves every active project one week forward. Transitions
// are a pure function of (stage, weeks elapsed); the only RNG consumers are
// song titles (two draws) and quality (two draws), per song, in project
// order.
func advanceProjects(bal *balance.Balance, st *GameState, sum *WeekSummary, rng *RNG, costs *weekCosts) {
	for i := range st.Projects {
		p := &st.Projects[i]
		if p.Stage == terminalStage(p.Type) || p.Stage == StageRecorded {
			continue
		}
		if p.Type == ProjectTour {
			advanceTour(bal, st, sum, p)
			continue
		}

		due := stageWeeks(bal, p)
		if due == 0 || st.Week-p.StageStartedWeek+1 < due {
			continue
		}
		switch p.Stage {
		case StagePlanning:
			consumeStageBudget(bal, p, StagePlanning, costs)
			setStage(p, StageWriting, st.Week+1)
		case StageWriting:
			consumeStageBudget(bal, p, StageWriting, costs)
			setStage(p, StageRecording, st.Week+1)
		case StageRecording:
			consumeStageBudget(bal, p, StageRecording, costs)
			recordSongs(bal, st, sum, rng, p)
			setStage(p, StageRecorded, st.Week+1)
		}
	}
}

func advanceTour(bal *balance.Balance, st *GameState, sum *WeekSummary, p *Project) {
	switch p.Stage {
	case StagePlanning:
		if st.Week-p.StageStartedWeek+1 < stageWeeks(bal, p) {
			return
		}
		setStage(p, StageProduction, st.Week+1)
	case StageProduction:
		if st.Week-p.StageStartedWeek+1 < stageWeeks(bal, p) {
			return
		}
		if p.Tour == nil {
			p.Tour = &TourStats{Cities: tourCities(bal, p.BudgetCents)}
		}
		setStage(p, StageTouring, st.Week+1)
	case StageTouring:
		artist := st.ArtistByID(p.ArtistID)
		if artist == nil || p.Tour == nil {
			return
		}
		resolveTourCity(bal, st, p, artist)
		if p.Tour.CitiesDone >= p.Tour.Cities {
			p.Tour.SettledWeek = st.Week
			setStage(p, StageCompleted, st.Week)
			sum.Changes = append(sum.Changes, Change{
				Type:        ChangeProjectComplete,
				Description: fmt.Sprintf("%s tour wrapped after %d cities", artist.Name, p.Tour.Cities),
				RefID:       p.ID,
			})
		}
	}
}

// consumeStageBudget charges the completing stage's share of the project
// budget as this week's project spend.
func consumeStageBudget(bal *balance.Balance, p *Project, s Stage, costs *weekCosts) {
	share := bal.Costs.StageShare[string(s)]
	if share <= 0 {
		return
	}
	costs.projectCents += int64(math.Round(share * float64(p.BudgetCents)))
}

func tourCities(bal *balance.Balance, budgetCents int64) int {
	t := bal.Tour
	cities := t.CitiesBase + int(budgetCents/10_000_000)*t.CitiesPerBudget100K
	if cities > t.CitiesMax {
		cities = t.CitiesMax
	}
	return cities
}

// recordSongs materializes the project's planned songs at recording
// completion, using the settings the session actually ran with.
func recordSongs(bal *balance.Balance, st *GameState, sum *WeekSummary, rng *RNG, p *Project) {
	artist := st.ArtistByID(p.ArtistID)
	if artist == nil || p.SongCount <= 0 {
		return
	}
	budgetPerSong := p.BudgetCents / int64(p.SongCount)
	p.Session = &SessionInfo{
		RecordedWeek:       st.Week,
		ProducerTier:       p.ProducerTier,
		TimeTier:           p.TimeTier,
		BudgetPerSongCents: budgetPerSong,
	}
	for n := 0; n < p.SongCount; n++ {
		title := titleLead[rng.IntN(len(titleLead))] + " " + titleTail[rng.IntN(len(titleTail))]
		quality := ComputeQuality(QualityInputs{
			Talent:             artist.Talent,
			WorkEthic:          artist.WorkEthic,
			Popularity:         artist.Popularity,
			Mood:               artist.Mood,
			ProducerTier:       p.ProducerTier,
			TimeTier:           p.TimeTier,
			BudgetPerSongCents: budgetPerSong,
			ProjectType:        p.Type,
			SongCount:          p.SongCount,
		}, bal, rng)

		p.SongsCreated++
		st.Songs = append(st.Songs, Song{
			ID:        fmt.Sprintf("%s-s%d", p.ID, p.SongsCreated),
			ProjectID: p.ID,
			ArtistID:  p.ArtistID,
			Title:     title,
			Quality:   quality,
			Recorded:  true,
		})
	}
	// A good session lifts the artist; a rough one stings.
	avg := projectAverageQuality(st, p.ID)
	if avg >= 70 {
		artist.Mood = clamp100(artist.Mood + 5)
		artist.Loyalty = clamp100(artist.Loyalty + 3)
	} else if avg < 45 {
		artist.Mood = clamp100(artist.Mood - 5)
	}
	sum.Changes = append(sum.Changes, Change{
		Type:        ChangeProjectComplete,
		Description: fmt.Sprintf("%s finished recording %d songs", artist.Name, p.SongCount),
		RefID:       p.ID,
	})
}

func projectAverageQuality(st *GameState, projectID string) float64 {
	var total, n int
	for i := range st.Songs {
		if st.Songs[i].ProjectID == projectID {
			total += st.Songs[i].Quality
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// fireReleases publishes every planned release whose scheduled week has
// arrived: songs go live with their launch streams, marketing spend lands
// on this week's costs, and fully-released projects advance to released.
func fireReleases(bal *balance.Balance, st *GameState, sum *WeekSummary, costs *weekCosts) {
	for i := range st.Releases {
		rel := &st.Releases[i]
		if rel.Status != ReleasePlanned || rel.ScheduledWeek > st.Week {
			continue
		}
		marketingTotal := rel.TotalMarketingCents()
		perSong := int64(0)
		if len(rel.SongIDs) > 0 {
			perSong = marketingTotal / int64(len(rel.SongIDs))
		}
		for _, id := range rel.SongIDs {
			song := st.SongByID(id)
			if song == nil || !song.Recorded || song.Released {
				continue
			}
			marketingK := float64(perSong) / 100_000
			song.Released = true
			song.ReleasedWeek = st.Week
			song.Awareness = math.Min(100,
				float64(song.Quality)/awarenessFromQualityDiv+marketingK*awarenessPerMarketingK)
			song.WeeklyStreams = launchStreams(bal, song.Quality, perSong, song.Awareness)
			sum.Changes = append(sum.Changes, Change{
				Type:        ChangeSongReleased,
				Description: fmt.Sprintf("%q is out", song.Title),
				RefID:       song.ID,
			})
		}
		rel.Status = ReleaseReleased
		costs.marketingCents += marketingTotal
		st.Reputation += bal.Week.ReputationPerRelease
	}
	markReleasedProjects(st)
}

// markReleasedProjects advances recorded projects whose songs have all gone
// out. The stage never skips and never regresses.
func markReleasedProjects(st *GameState) {
	for i := range st.Projects {
		p := &st.Projects[i]
		if p.Type == ProjectTour || p.Stage != StageRecorded || p.SongsCreated == 0 {
			continue
		}
		all := true
		for j := range st.Songs {
			if st.Songs[j].ProjectID == p.ID && !st.Songs[j].Released {
				all = false
				break
			}
		}
		if all {
			setStage(p, StageReleased, st.Week)
		}
	}
}

func setStage(p *Project, s Stage, week int) {
	p.Stage = s
	p.StageStartedWeek = week
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
