package sim

import "fmt"

// RepairState runs the forward-only consistency pass over a loaded state.
// Every correction advances an entity to the furthest stage its evidence
// supports; nothing ever moves backwards, and every change is recorded.
func RepairState(st *GameState) []RepairRecord {
	var records []RepairRecord

	record := func(target, from, to, reason string) {
		records = append(records, RepairRecord{
			Week:   st.Week,
			Target: target,
			From:   from,
			To:     to,
			Reason: reason,
		})
	}

	// Clocks in the future get pulled back to now.
	for i := range st.Projects {
		p := &st.Projects[i]
		if p.StageStartedWeek > st.Week {
			record(p.ID, fmt.Sprintf("stage_started_week=%d", p.StageStartedWeek),
				fmt.Sprintf("stage_started_week=%d", st.Week), "stage clock ahead of game week")
			p.StageStartedWeek = st.Week
		}
	}

	// A song's existence proves its project recorded; a released song proves
	// the project shipped.
	for i := range st.Songs {
		song := &st.Songs[i]
		p := st.ProjectByID(song.ProjectID)
		if p == nil || p.Type == ProjectTour {
			continue
		}
		if song.Recorded && StageIndex(p.Type, p.Stage) < StageIndex(p.Type, StageRecorded) {
			rec := RepairRecord{Week: st.Week, Target: p.ID, From: string(p.Stage),
				To: string(StageRecorded), Reason: "recorded song exists for earlier-stage project"}
			p.Repairs = append(p.Repairs, rec)
			records = append(records, rec)
			setStage(p, StageRecorded, st.Week)
		}
		if song.Released && p.Stage != StageReleased && allSongsReleased(st, p.ID) {
			rec := RepairRecord{Week: st.Week, Target: p.ID, From: string(p.Stage),
				To: string(StageReleased), Reason: "all songs released but project not"}
			p.Repairs = append(p.Repairs, rec)
			records = append(records, rec)
			setStage(p, StageReleased, st.Week)
		}
	}

	// A released release implies released member songs.
	for i := range st.Releases {
		rel := &st.Releases[i]
		if rel.Status != ReleaseReleased {
			continue
		}
		for _, id := range rel.SongIDs {
			song := st.SongByID(id)
			if song == nil || song.Released {
				continue
			}
			record(song.ID, "released=false", "released=true", "member of released release")
			song.Released = true
			if song.ReleasedWeek == 0 {
				song.ReleasedWeek = rel.ScheduledWeek
			}
		}
	}

	// Tours that played every city are complete regardless of what the stage
	// field claims.
	for i := range st.Projects {
		p := &st.Projects[i]
		if p.Type != ProjectTour || p.Tour == nil {
			continue
		}
		if p.Stage == StageTouring && p.Tour.CitiesDone >= p.Tour.Cities {
			rec := RepairRecord{Week: st.Week, Target: p.ID, From: string(p.Stage),
				To: string(StageCompleted), Reason: "all tour cities already played"}
			p.Repairs = append(p.Repairs, rec)
			records = append(records, rec)
			if p.Tour.SettledWeek == 0 {
				p.Tour.SettledWeek = st.Week
			}
			setStage(p, StageCompleted, st.Week)
		}
	}

	// A song belongs to at most one planned release; the earliest plan wins.
	reserved := make(map[string]string)
	for i := range st.Releases {
		rel := &st.Releases[i]
		if rel.Status != ReleasePlanned {
			continue
		}
		kept := rel.SongIDs[:0]
		for _, id := range rel.SongIDs {
			if owner, dup := reserved[id]; dup {
				record(rel.ID, "song "+id, "dropped",
					"song already reserved by release "+owner)
				continue
			}
			reserved[id] = rel.ID
			kept = append(kept, id)
		}
		rel.SongIDs = kept
	}

	return records
}

func allSongsReleased(st *GameState, projectID string) bool {
	for i := range st.Songs {
		if st.Songs[i].ProjectID == projectID && !st.Songs[i].Released {
			return false
		}
	}
	return true
}
