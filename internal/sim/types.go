// Package sim implements the weekly turn resolution engine: the deterministic
// simulation that turns a game state plus the player's chosen focus actions
// into the next week's state, a structured summary, and chart artifacts.
package sim

type ProjectType string

const (
	ProjectSingle ProjectType = "single"
	ProjectEP     ProjectType = "ep"
	ProjectAlbum  ProjectType = "album"
	ProjectTour   ProjectType = "tour"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectSingle, ProjectEP, ProjectAlbum, ProjectTour:
		return true
	}
	return false
}

type ProducerTier int

const (
	ProducerLocal ProducerTier = iota
	ProducerRegional
	ProducerNational
	ProducerLegendary
)

func (p ProducerTier) Valid() bool { return p >= ProducerLocal && p <= ProducerLegendary }

func (p ProducerTier) String() string {
	switch p {
	case ProducerRegional:
		return "regional"
	case ProducerNational:
		return "national"
	case ProducerLegendary:
		return "legendary"
	default:
		return "local"
	}
}

type TimeTier int

const (
	TimeRushed TimeTier = iota
	TimeStandard
	TimeExtended
	TimePerfectionist
)

func (t TimeTier) Valid() bool { return t >= TimeRushed && t <= TimePerfectionist }

func (t TimeTier) String() string {
	switch t {
	case TimeStandard:
		return "standard"
	case TimeExtended:
		return "extended"
	case TimePerfectionist:
		return "perfectionist"
	default:
		return "rushed"
	}
}

// Stage is a project lifecycle stage. Stages only ever move forward; the
// ordinal makes monotonicity checkable.
type Stage string

const (
	StagePlanning  Stage = "planning"
	StageWriting   Stage = "writing"
	StageRecording Stage = "recording"
	StageRecorded  Stage = "recorded"
	StageReleased  Stage = "released"

	StageProduction Stage = "production"
	StageTouring    Stage = "touring"
	StageCompleted  Stage = "completed"
)

// StageIndex orders stages within a project type's lifecycle. Unknown stages
// report -1 so a corrupted save is visible rather than silently ordered.
func StageIndex(t ProjectType, s Stage) int {
	if t == ProjectTour {
		switch s {
		case StagePlanning:
			return 0
		case StageProduction:
			return 1
		case StageTouring:
			return 2
		case StageCompleted:
			return 3
		}
		return -1
	}
	switch s {
	case StagePlanning:
		return 0
	case StageWriting:
		return 1
	case StageRecording:
		return 2
	case StageRecorded:
		return 3
	case StageReleased:
		return 4
	}
	return -1
}

func terminalStage(t ProjectType) Stage {
	if t == ProjectTour {
		return StageCompleted
	}
	return StageReleased
}

// AccessLevel is an ordered unlock level for the playlist, press and venue
// channels. Level 0 is the starting tier.
type AccessLevel int

const MaxAccessLevel = AccessLevel(3)

type Artist struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Genre            string  `json:"genre"`
	Talent           float64 `json:"talent"`
	WorkEthic        float64 `json:"work_ethic"`
	Popularity       float64 `json:"popularity"`
	Mood             float64 `json:"mood"`
	Loyalty          float64 `json:"loyalty"`
	Temperament      float64 `json:"temperament"`
	Energy           float64 `json:"energy"`
	Signed           bool    `json:"signed"`
	SigningCostCents int64   `json:"signing_cost_cents"`
	WeeklyCostCents  int64   `json:"weekly_cost_cents"`
}

type Executive struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	SalaryCents int64   `json:"salary_cents"`
	Loyalty     float64 `json:"loyalty"`
	Mood        float64 `json:"mood"`
}

// TourStats is the tagged tour metadata variant: one city resolves per
// touring week, and the aggregate settles as revenue when the tour completes.
type TourStats struct {
	Cities      int              `json:"cities"`
	CitiesDone  int              `json:"cities_done"`
	NetCents    int64            `json:"net_cents"`
	SettledWeek int              `json:"settled_week,omitempty"`
	CityResults []TourCityResult `json:"city_results,omitempty"`
}

type TourCityResult struct {
	City        int     `json:"city"`
	Week        int     `json:"week"`
	SellThrough float64 `json:"sell_through"`
	TicketsSold int64   `json:"tickets_sold"`
	ProfitCents int64   `json:"profit_cents"`
}

// SessionInfo records the settings a recording session actually ran with,
// so a song's quality stays explainable after the project's fields change.
type SessionInfo struct {
	RecordedWeek       int          `json:"recorded_week"`
	ProducerTier       ProducerTier `json:"producer_tier"`
	TimeTier           TimeTier     `json:"time_tier"`
	BudgetPerSongCents int64        `json:"budget_per_song_cents"`
}

// RepairRecord tags a forward-only correction made by the load-time repair
// pass, keeping self-healing traceable instead of silent.
type RepairRecord struct {
	Week   int    `json:"week"`
	Target string `json:"target"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

type Project struct {
	ID               string       `json:"id"`
	ArtistID         string       `json:"artist_id"`
	Type             ProjectType  `json:"type"`
	Stage            Stage        `json:"stage"`
	StageStartedWeek int          `json:"stage_started_week"`
	BudgetCents      int64        `json:"budget_cents"`
	ProducerTier     ProducerTier `json:"producer_tier"`
	TimeTier         TimeTier     `json:"time_tier"`
	SongCount        int          `json:"song_count"`
	SongsCreated     int          `json:"songs_created"`

	Tour    *TourStats     `json:"tour,omitempty"`
	Session *SessionInfo   `json:"session,omitempty"`
	Repairs []RepairRecord `json:"repairs,omitempty"`
}

type Song struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"project_id"`
	ArtistID      string  `json:"artist_id"`
	Title         string  `json:"title"`
	Quality       int     `json:"quality"`
	Recorded      bool    `json:"recorded"`
	Released      bool    `json:"released"`
	ReleasedWeek  int     `json:"released_week,omitempty"`
	WeeklyStreams int64   `json:"weekly_streams"`
	TotalStreams  int64   `json:"total_streams"`
	RevenueCents  int64   `json:"revenue_cents"`
	Awareness     float64 `json:"awareness"`
	BrokeThrough  bool    `json:"broke_through"`
	Dormant       bool    `json:"dormant"`
}

type ReleaseStatus string

const (
	ReleasePlanned  ReleaseStatus = "planned"
	ReleaseReleased ReleaseStatus = "released"
)

type Release struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	SongIDs       []string         `json:"song_ids"`
	ScheduledWeek int              `json:"scheduled_week"`
	Status        ReleaseStatus    `json:"status"`
	// Marketing budget allocation by channel (playlist/social/radio), cents.
	MarketingCents map[string]int64 `json:"marketing_cents,omitempty"`
}

func (r *Release) TotalMarketingCents() int64 {
	var total int64
	for _, v := range r.MarketingCents {
		total += v
	}
	return total
}

// ChartEntry is one row of the weekly chart. Position 0 means unplaced.
// Rows are immutable once resolved; a new week produces new rows.
type ChartEntry struct {
	Week     int    `json:"week"`
	EntryID  string `json:"entry_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Streams  int64  `json:"streams"`
	Position int    `json:"position"`
	Movement int    `json:"movement"`
	IsDebut  bool   `json:"is_debut"`
	Peak     int    `json:"peak"`
	IsPlayer bool   `json:"is_player"`
	SongID   string `json:"song_id,omitempty"`
}

type GameState struct {
	ID         string `json:"id"`
	Week       int    `json:"week"`
	CashCents  int64  `json:"cash_cents"`
	Reputation int    `json:"reputation"`

	PlaylistAccess AccessLevel `json:"playlist_access"`
	PressAccess    AccessLevel `json:"press_access"`
	VenueAccess    AccessLevel `json:"venue_access"`

	FocusSlots int `json:"focus_slots"`

	RNGState uint64 `json:"rng_state"`
	RNGInc   uint64 `json:"rng_inc"`

	Flags map[string]bool `json:"flags,omitempty"`

	Artists    []Artist    `json:"artists"`
	Executives []Executive `json:"executives"`
	Projects   []Project   `json:"projects"`
	Songs      []Song      `json:"songs"`
	Releases   []Release   `json:"releases"`

	// Chart holds the most recently resolved week's rows; the full history
	// lives with the persistence collaborator.
	Chart []ChartEntry `json:"chart,omitempty"`
}

func (st *GameState) ArtistByID(id string) *Artist {
	for i := range st.Artists {
		if st.Artists[i].ID == id {
			return &st.Artists[i]
		}
	}
	return nil
}

func (st *GameState) ExecutiveByID(id string) *Executive {
	for i := range st.Executives {
		if st.Executives[i].ID == id {
			return &st.Executives[i]
		}
	}
	return nil
}

func (st *GameState) ProjectByID(id string) *Project {
	for i := range st.Projects {
		if st.Projects[i].ID == id {
			return &st.Projects[i]
		}
	}
	return nil
}

func (st *GameState) SongByID(id string) *Song {
	for i := range st.Songs {
		if st.Songs[i].ID == id {
			return &st.Songs[i]
		}
	}
	return nil
}

// Clone deep-copies the state. Resolution always computes into a clone so a
// failed turn leaves the caller's state untouched.
func (st *GameState) Clone() *GameState {
	out := *st
	out.Flags = make(map[string]bool, len(st.Flags))
	for k, v := range st.Flags {
		out.Flags[k] = v
	}
	out.Artists = append([]Artist(nil), st.Artists...)
	out.Executives = append([]Executive(nil), st.Executives...)
	out.Songs = append([]Song(nil), st.Songs...)
	out.Chart = append([]ChartEntry(nil), st.Chart...)

	out.Projects = make([]Project, len(st.Projects))
	for i, p := range st.Projects {
		cp := p
		if p.Tour != nil {
			t := *p.Tour
			t.CityResults = append([]TourCityResult(nil), p.Tour.CityResults...)
			cp.Tour = &t
		}
		if p.Session != nil {
			s := *p.Session
			cp.Session = &s
		}
		cp.Repairs = append([]RepairRecord(nil), p.Repairs...)
		out.Projects[i] = cp
	}

	out.Releases = make([]Release, len(st.Releases))
	for i, r := range st.Releases {
		cr := r
		cr.SongIDs = append([]string(nil), r.SongIDs...)
		if r.MarketingCents != nil {
			cr.MarketingCents = make(map[string]int64, len(r.MarketingCents))
			for k, v := range r.MarketingCents {
				cr.MarketingCents[k] = v
			}
		}
		out.Releases[i] = cr
	}
	return &out
}

type ChangeType string

const (
	ChangeRevenue         ChangeType = "revenue"
	ChangeExpense         ChangeType = "expense"
	ChangeUnlock          ChangeType = "unlock"
	ChangeProjectComplete ChangeType = "project_complete"
	ChangeSongReleased    ChangeType = "song_released"
	ChangeArtistSigned    ChangeType = "artist_signed"
	ChangeInteraction     ChangeType = "artist_interaction"
	ChangeChartDebut      ChangeType = "chart_debut"
	ChangeBreakthrough    ChangeType = "breakthrough"
	ChangeTourSettled     ChangeType = "tour_settled"
	ChangeBankruptcyRisk  ChangeType = "bankruptcy_risk"
)

type Change struct {
	Type        ChangeType `json:"type"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amount_cents,omitempty"`
	RefID       string     `json:"ref_id,omitempty"`
}

// FinancialBreakdown itemizes the week's expenses. Total must equal the
// scalar expenses figure reported to the player; this is an invariant, not
// an approximation.
type FinancialBreakdown struct {
	OperationsCents        int64 `json:"operations_cents"`
	ArtistSalariesCents    int64 `json:"artist_salaries_cents"`
	ExecutiveSalariesCents int64 `json:"executive_salaries_cents"`
	SigningBonusesCents    int64 `json:"signing_bonuses_cents"`
	ProjectCostsCents      int64 `json:"project_costs_cents"`
	MarketingCostsCents    int64 `json:"marketing_costs_cents"`
	RoleMeetingCostsCents  int64 `json:"role_meeting_costs_cents"`
}

func (b FinancialBreakdown) Total() int64 {
	return b.OperationsCents + b.ArtistSalariesCents + b.ExecutiveSalariesCents +
		b.SigningBonusesCents + b.ProjectCostsCents + b.MarketingCostsCents +
		b.RoleMeetingCostsCents
}

type ArtistDelta struct {
	ArtistID     string  `json:"artist_id"`
	MoodDelta    float64 `json:"mood_delta"`
	LoyaltyDelta float64 `json:"loyalty_delta"`
}

// WeekSummary is the engine's sole output artifact for a turn. Built fresh
// each resolution, handed to the persistence collaborator, never mutated
// after return.
type WeekSummary struct {
	Week          int                `json:"week"`
	Changes       []Change           `json:"changes"`
	RevenueCents  int64              `json:"revenue_cents"`
	ExpensesCents int64              `json:"expenses_cents"`
	Breakdown     FinancialBreakdown `json:"breakdown"`
	Chart         []ChartEntry       `json:"chart"`
	ArtistDeltas  []ArtistDelta      `json:"artist_deltas,omitempty"`
	Diagnostics   []string           `json:"diagnostics,omitempty"`
	Warnings      []string           `json:"warnings,omitempty"`
	BankruptcyRisk bool              `json:"bankruptcy_risk,omitempty"`
}

type ActionType string

const (
	ActionSignArtist      ActionType = "sign_artist"
	ActionStartProject    ActionType = "start_project"
	ActionScheduleRelease ActionType = "schedule_release"
	ActionMeetExecutive   ActionType = "meet_executive"
	ActionArtistDialogue  ActionType = "artist_dialogue"
)

// Action is one focus-slot allocation for the week.
type Action struct {
	Type        ActionType   `json:"type"`
	ArtistID    string       `json:"artist_id,omitempty"`
	ExecutiveID string       `json:"executive_id,omitempty"`
	Dialogue    string       `json:"dialogue,omitempty"`
	Project     *ProjectPlan `json:"project,omitempty"`
	Release     *ReleasePlan `json:"release,omitempty"`
}

type ProjectPlan struct {
	Type         ProjectType  `json:"type"`
	BudgetCents  int64        `json:"budget_cents"`
	ProducerTier ProducerTier `json:"producer_tier"`
	TimeTier     TimeTier     `json:"time_tier"`
	SongCount    int          `json:"song_count"`
}

type ReleasePlan struct {
	Title          string           `json:"title"`
	SongIDs        []string         `json:"song_ids"`
	Week           int              `json:"week"`
	MarketingCents map[string]int64 `json:"marketing_cents,omitempty"`
}
