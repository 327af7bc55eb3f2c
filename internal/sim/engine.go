package sim

import (
	"fmt"
	"log/slog"
	"sync"

	"backbeat/internal/balance"
	"backbeat/internal/catalog"
)

// Engine resolves weekly turns. It is stateless across games; per-game
// serialization is the lock map, so two concurrent advances of the same game
// run one after the other while different games proceed in parallel.
type Engine struct {
	bal *balance.Balance
	cat []catalog.Competitor
	log *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(bal *balance.Balance, competitors []catalog.Competitor, log *slog.Logger) (*Engine, error) {
	if bal == nil {
		return nil, ErrNilBalance
	}
	if len(competitors) == 0 {
		return nil, ErrEmptyCatalog
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		bal:   bal,
		cat:   competitors,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Balance exposes the tuning tables the engine was built with, so callers
// seed new games with the same numbers resolution uses.
func (e *Engine) Balance() *balance.Balance { return e.bal }

func (e *Engine) lockFor(gameID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[gameID] = l
	}
	return l
}

// AdvanceWeek resolves one turn. The input state is never mutated; on
// success the returned state is the committed next week. Invalid actions are
// dropped with a diagnostic rather than failing the turn, so the week always
// resolves.
func (e *Engine) AdvanceWeek(prev *GameState, actions []Action) (*GameState, *WeekSummary, error) {
	l := e.lockFor(prev.ID)
	l.Lock()
	defer l.Unlock()

	st := prev.Clone()
	rng := RestoreRNG(st.RNGState, st.RNGInc)
	sum := &WeekSummary{Week: st.Week, Changes: []Change{}}

	moodBefore := snapshotArtists(st)

	var costs weekCosts
	e.applyActions(st, sum, actions, &costs)
	advanceProjects(e.bal, st, sum, rng, &costs)
	fireReleases(e.bal, st, sum, &costs)
	resolveFinances(e.bal, st, sum, costs)

	entries := resolveChart(e.bal, st, e.cat, rng)
	chartReputation(e.bal, st, sum, entries)
	st.Chart = entries
	sum.Chart = entries

	e.passiveDecay(st)
	e.recomputeAccess(st, sum)
	sum.ArtistDeltas = artistDeltas(st, moodBefore)

	st.RNGState, st.RNGInc = rng.Save()
	st.Week++

	e.log.Info("week resolved",
		"game", st.ID,
		"week", sum.Week,
		"revenue_cents", sum.RevenueCents,
		"expenses_cents", sum.ExpensesCents,
		"cash_cents", st.CashCents,
		"actions", len(actions),
		"dropped", len(sum.Diagnostics))
	return st, sum, nil
}

// ValidateActions checks a batch against the current state without applying
// anything. The API uses it to reject a plan before the turn runs.
func (e *Engine) ValidateActions(st *GameState, actions []Action) error {
	if len(actions) > st.FocusSlots {
		return fmt.Errorf("%w: %d actions exceed %d focus slots", ErrUnknownAction, len(actions), st.FocusSlots)
	}
	reserved := plannedSongs(st)
	for i, a := range actions {
		if err := e.checkAction(st, a, reserved); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}

func plannedSongs(st *GameState) map[string]bool {
	reserved := make(map[string]bool)
	for i := range st.Releases {
		if st.Releases[i].Status != ReleasePlanned {
			continue
		}
		for _, id := range st.Releases[i].SongIDs {
			reserved[id] = true
		}
	}
	return reserved
}

func (e *Engine) checkAction(st *GameState, a Action, reserved map[string]bool) error {
	switch a.Type {
	case ActionSignArtist:
		artist := st.ArtistByID(a.ArtistID)
		if artist == nil {
			return fmt.Errorf("%w: unknown artist %s", ErrUnknownAction, a.ArtistID)
		}
		if artist.Signed {
			return fmt.Errorf("%w: artist %s already signed", ErrUnknownAction, a.ArtistID)
		}
	case ActionStartProject:
		artist := st.ArtistByID(a.ArtistID)
		if artist == nil || !artist.Signed {
			return fmt.Errorf("%w: project needs a signed artist", ErrUnknownAction)
		}
		p := a.Project
		if p == nil || !p.Type.Valid() || !p.ProducerTier.Valid() || !p.TimeTier.Valid() {
			return fmt.Errorf("%w: invalid project plan", ErrUnknownAction)
		}
		if p.BudgetCents <= 0 {
			return fmt.Errorf("%w: project budget must be positive", ErrUnknownAction)
		}
		if p.Type != ProjectTour && p.SongCount <= 0 {
			return fmt.Errorf("%w: song count must be positive", ErrUnknownAction)
		}
	case ActionScheduleRelease:
		r := a.Release
		if r == nil || len(r.SongIDs) == 0 {
			return fmt.Errorf("%w: release needs songs", ErrUnknownAction)
		}
		for _, id := range r.SongIDs {
			song := st.SongByID(id)
			if song == nil || !song.Recorded {
				return fmt.Errorf("%w: song %s is not recorded", ErrUnknownAction, id)
			}
			if song.Released {
				return fmt.Errorf("%w: song %s already released", ErrSongReserved, id)
			}
			if reserved[id] {
				return fmt.Errorf("%w: %s", ErrSongReserved, id)
			}
		}
	case ActionMeetExecutive:
		if st.ExecutiveByID(a.ExecutiveID) == nil {
			return fmt.Errorf("%w: unknown executive %s", ErrUnknownAction, a.ExecutiveID)
		}
	case ActionArtistDialogue:
		artist := st.ArtistByID(a.ArtistID)
		if artist == nil || !artist.Signed {
			return fmt.Errorf("%w: dialogue needs a signed artist", ErrUnknownAction)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return nil
}

// applyActions runs the week's focus actions in submission order. Actions
// past the slot cap or failing eligibility are skipped with a diagnostic; the
// state they would have touched is left alone.
func (e *Engine) applyActions(st *GameState, sum *WeekSummary, actions []Action, costs *weekCosts) {
	reserved := plannedSongs(st)
	applied := 0
	for i, a := range actions {
		if applied >= st.FocusSlots {
			sum.Diagnostics = append(sum.Diagnostics,
				fmt.Sprintf("action %d (%s) dropped: focus slots exhausted", i, a.Type))
			continue
		}
		if err := e.checkAction(st, a, reserved); err != nil {
			sum.Diagnostics = append(sum.Diagnostics,
				fmt.Sprintf("action %d dropped: %v", i, err))
			continue
		}
		applied++

		switch a.Type {
		case ActionSignArtist:
			artist := st.ArtistByID(a.ArtistID)
			artist.Signed = true
			costs.signingCents += artist.SigningCostCents
			sum.Changes = append(sum.Changes, Change{
				Type:        ChangeArtistSigned,
				Description: artist.Name + " signed to the label",
				AmountCents: artist.SigningCostCents,
				RefID:       artist.ID,
			})
		case ActionStartProject:
			plan := a.Project
			id := fmt.Sprintf("prj-w%d-%d", st.Week, len(st.Projects)+1)
			st.Projects = append(st.Projects, Project{
				ID:               id,
				ArtistID:         a.ArtistID,
				Type:             plan.Type,
				Stage:            StagePlanning,
				StageStartedWeek: st.Week,
				BudgetCents:      plan.BudgetCents,
				ProducerTier:     plan.ProducerTier,
				TimeTier:         plan.TimeTier,
				SongCount:        plan.SongCount,
			})
		case ActionScheduleRelease:
			plan := a.Release
			week := plan.Week
			if week < st.Week {
				week = st.Week
			}
			id := fmt.Sprintf("rel-w%d-%d", st.Week, len(st.Releases)+1)
			st.Releases = append(st.Releases, Release{
				ID:             id,
				Title:          plan.Title,
				SongIDs:        append([]string(nil), plan.SongIDs...),
				ScheduledWeek:  week,
				Status:         ReleasePlanned,
				MarketingCents: plan.MarketingCents,
			})
			for _, sid := range plan.SongIDs {
				reserved[sid] = true
			}
		case ActionMeetExecutive:
			exec := st.ExecutiveByID(a.ExecutiveID)
			exec.Loyalty = clamp100(exec.Loyalty + 10)
			exec.Mood = clamp100(exec.Mood + 5)
			costs.roleMeetingCents += e.bal.Expenses.RoleMeetingCostCents
			sum.Changes = append(sum.Changes, Change{
				Type:        ChangeInteraction,
				Description: "met with " + exec.Name,
				AmountCents: e.bal.Expenses.RoleMeetingCostCents,
				RefID:       exec.ID,
			})
		case ActionArtistDialogue:
			artist := st.ArtistByID(a.ArtistID)
			artist.Mood = clamp100(artist.Mood + 8)
			artist.Loyalty = clamp100(artist.Loyalty + 2)
			sum.Changes = append(sum.Changes, Change{
				Type:        ChangeInteraction,
				Description: "checked in with " + artist.Name,
				RefID:       artist.ID,
			})
		}
	}
}

// passiveDecay is the end-of-week drift: moods regress toward neutral,
// executive loyalty bleeds, song awareness fades.
func (e *Engine) passiveDecay(st *GameState) {
	d := e.bal.Decay
	for i := range st.Artists {
		a := &st.Artists[i]
		if !a.Signed {
			continue
		}
		a.Mood = clamp100(a.Mood + (50-a.Mood)*d.MoodDrift)
	}
	for i := range st.Executives {
		x := &st.Executives[i]
		x.Loyalty = clamp100(x.Loyalty - d.ExecLoyaltyDecay)
	}
	for i := range st.Songs {
		s := &st.Songs[i]
		if s.Released && !s.Dormant {
			s.Awareness *= 1 - d.AwarenessDecay
		}
	}
}

// recomputeAccess raises access levels whose reputation thresholds are now
// met. Levels only ever go up; a reputation dip never re-locks a channel.
func (e *Engine) recomputeAccess(st *GameState, sum *WeekSummary) {
	raise := func(current AccessLevel, thresholds []int, channel string) AccessLevel {
		level := current
		for i, t := range thresholds {
			if st.Reputation >= t && AccessLevel(i+1) > level {
				level = AccessLevel(i + 1)
			}
		}
		if level > current {
			sum.Changes = append(sum.Changes, Change{
				Type:        ChangeUnlock,
				Description: fmt.Sprintf("%s access reached level %d", channel, level),
			})
		}
		return level
	}
	st.PlaylistAccess = raise(st.PlaylistAccess, e.bal.Access.PlaylistThresholds, "playlist")
	st.PressAccess = raise(st.PressAccess, e.bal.Access.PressThresholds, "press")
	st.VenueAccess = raise(st.VenueAccess, e.bal.Access.VenueThresholds, "venue")
}

type artistSnapshot struct {
	mood    float64
	loyalty float64
}

func snapshotArtists(st *GameState) map[string]artistSnapshot {
	out := make(map[string]artistSnapshot, len(st.Artists))
	for i := range st.Artists {
		out[st.Artists[i].ID] = artistSnapshot{
			mood:    st.Artists[i].Mood,
			loyalty: st.Artists[i].Loyalty,
		}
	}
	return out
}

func artistDeltas(st *GameState, before map[string]artistSnapshot) []ArtistDelta {
	var deltas []ArtistDelta
	for i := range st.Artists {
		a := &st.Artists[i]
		prev, ok := before[a.ID]
		if !ok {
			continue
		}
		if a.Mood != prev.mood || a.Loyalty != prev.loyalty {
			deltas = append(deltas, ArtistDelta{
				ArtistID:     a.ID,
				MoodDelta:    a.Mood - prev.mood,
				LoyaltyDelta: a.Loyalty - prev.loyalty,
			})
		}
	}
	return deltas
}

// ProjectPreview is the pre-commit estimate for a project plan: the quality
// the formula would produce with variance pinned to its midpoint, and the
// budget threshold the plan is being measured against.
type ProjectPreview struct {
	EstimatedQuality     int   `json:"estimated_quality"`
	MinimumViableCents   int64 `json:"minimum_viable_cents"`
	BudgetPerSongCents   int64 `json:"budget_per_song_cents"`
	EstimatedFirstStream int64 `json:"estimated_first_week_streams"`
}

// PreviewProject estimates a plan without consuming RNG draws or touching
// state. Shares qualityCore with resolution so the estimate cannot drift
// from what AdvanceWeek would produce.
func (e *Engine) PreviewProject(st *GameState, artistID string, plan ProjectPlan) (ProjectPreview, error) {
	artist := st.ArtistByID(artistID)
	if artist == nil {
		return ProjectPreview{}, fmt.Errorf("%w: unknown artist %s", ErrUnknownAction, artistID)
	}
	if !plan.Type.Valid() || !plan.ProducerTier.Valid() || !plan.TimeTier.Valid() || plan.SongCount <= 0 {
		return ProjectPreview{}, fmt.Errorf("%w: invalid project plan", ErrUnknownAction)
	}
	perSong := plan.BudgetCents / int64(plan.SongCount)
	q := PreviewQuality(QualityInputs{
		Talent:             artist.Talent,
		WorkEthic:          artist.WorkEthic,
		Popularity:         artist.Popularity,
		Mood:               artist.Mood,
		ProducerTier:       plan.ProducerTier,
		TimeTier:           plan.TimeTier,
		BudgetPerSongCents: perSong,
		ProjectType:        plan.Type,
		SongCount:          plan.SongCount,
	}, e.bal)
	return ProjectPreview{
		EstimatedQuality:     q,
		MinimumViableCents:   e.bal.MinimumViableCostCents(string(plan.Type), int(plan.ProducerTier), int(plan.TimeTier)),
		BudgetPerSongCents:   perSong,
		EstimatedFirstStream: launchStreams(e.bal, q, 0, 0),
	}, nil
}
