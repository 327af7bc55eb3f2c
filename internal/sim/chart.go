package sim

import (
	"math"
	"sort"

	"backbeat/internal/balance"
	"backbeat/internal/catalog"
)

// chartContender is one merged row before ranking: either a player song or a
// synthetic competitor.
type chartContender struct {
	id      string
	title   string
	artist  string
	streams int64
	player  bool
	songID  string
}

// resolveChart simulates the week's 100-position chart. Competitor draws
// happen in catalog order (one uniform draw each) so the sequence is fixed;
// ranking is streams descending with ties broken by identifier ascending,
// which makes the position-100 cutoff deterministic too.
func resolveChart(bal *balance.Balance, st *GameState, competitors []catalog.Competitor, rng *RNG) []ChartEntry {
	c := bal.Chart

	contenders := make([]chartContender, 0, len(competitors)+len(st.Songs))
	for _, comp := range competitors {
		v := c.VarianceMin + rng.Float64()*(c.VarianceMax-c.VarianceMin)
		contenders = append(contenders, chartContender{
			id:      comp.ID,
			title:   comp.Title,
			artist:  comp.Artist,
			streams: int64(math.Round(float64(comp.BaseStreams) * v)),
		})
	}
	for i := range st.Songs {
		song := &st.Songs[i]
		if !song.Released || song.Dormant || song.WeeklyStreams <= 0 {
			continue
		}
		artistName := song.ArtistID
		if a := st.ArtistByID(song.ArtistID); a != nil {
			artistName = a.Name
		}
		contenders = append(contenders, chartContender{
			id:      "s:" + song.ID,
			title:   song.Title,
			artist:  artistName,
			streams: song.WeeklyStreams,
			player:  true,
			songID:  song.ID,
		})
	}

	sort.Slice(contenders, func(i, j int) bool {
		if contenders[i].streams != contenders[j].streams {
			return contenders[i].streams > contenders[j].streams
		}
		return contenders[i].id < contenders[j].id
	})

	// Only rows that held a position last week count as "charting" for
	// movement and peak; a song that fell off and returns is a fresh debut.
	prior := make(map[string]ChartEntry, len(st.Chart))
	for _, e := range st.Chart {
		if e.Position >= 1 {
			prior[e.EntryID] = e
		}
	}

	entries := make([]ChartEntry, 0, len(contenders))
	for idx, cont := range contenders {
		pos := 0
		if idx < c.Size {
			pos = idx + 1
		}
		// Unplaced competitor rows are market noise nobody consumes.
		if pos == 0 && !cont.player {
			continue
		}
		e := ChartEntry{
			Week:     st.Week,
			EntryID:  cont.id,
			Title:    cont.title,
			Artist:   cont.artist,
			Streams:  cont.streams,
			Position: pos,
			IsPlayer: cont.player,
			SongID:   cont.songID,
		}
		if prev, ok := prior[cont.id]; ok {
			if pos >= 1 {
				e.Movement = prev.Position - pos
				e.Peak = prev.Peak
				if pos < e.Peak {
					e.Peak = pos
				}
			}
		} else if pos >= 1 {
			e.IsDebut = true
			e.Peak = pos
		}
		entries = append(entries, e)
	}
	return entries
}

// chartReputation awards reputation for the player's chart placements and
// records debut changes on the summary.
func chartReputation(bal *balance.Balance, st *GameState, sum *WeekSummary, entries []ChartEntry) {
	for _, e := range entries {
		if !e.IsPlayer || e.Position < 1 {
			continue
		}
		switch {
		case e.Position <= 10:
			st.Reputation += bal.Week.ReputationPerTop10
		case e.Position <= 40:
			st.Reputation += bal.Week.ReputationPerTop40
		}
		if e.IsDebut {
			sum.Changes = append(sum.Changes, Change{
				Type:        ChangeChartDebut,
				Description: e.Title + " debuted on the chart",
				RefID:       e.SongID,
			})
		}
	}
}
