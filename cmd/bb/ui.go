package main

import (
	"fmt"
	"strings"

	"backbeat/internal/sim"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) { success.Println(msg) }
func printWarn(msg string)    { warn.Println(msg) }
func printInfo(msg string)    { neutral.Println(msg) }

func money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func printState(st *sim.GameState) {
	accent.Printf("Week %d\n", st.Week)
	neutral.Printf("Cash %s   Reputation %d   Focus slots %d\n",
		money(st.CashCents), st.Reputation, st.FocusSlots)
	neutral.Printf("Access  playlist L%d / press L%d / venue L%d\n",
		st.PlaylistAccess, st.PressAccess, st.VenueAccess)

	var signed, pool []string
	for _, a := range st.Artists {
		line := fmt.Sprintf("%s (%s, talent %.0f, mood %.0f)", a.Name, a.ID, a.Talent, a.Mood)
		if a.Signed {
			signed = append(signed, line)
		} else {
			pool = append(pool, line)
		}
	}
	if len(signed) > 0 {
		accent.Println("Roster")
		for _, l := range signed {
			neutral.Println("  " + l)
		}
	}
	if len(pool) > 0 {
		accent.Println("Scouting pool")
		for _, l := range pool {
			neutral.Println("  " + l)
		}
	}

	active := 0
	for _, p := range st.Projects {
		if p.Stage == sim.StageReleased || p.Stage == sim.StageCompleted {
			continue
		}
		active++
		neutral.Printf("  %s %s for %s: %s (budget %s)\n",
			p.Type, p.ID, p.ArtistID, p.Stage, money(p.BudgetCents))
	}
	if active > 0 {
		accent.Printf("%d active project(s)\n", active)
	}
}

func printPreview(pv sim.ProjectPreview) {
	accent.Println("Project preview")
	neutral.Printf("  Estimated quality   %d\n", pv.EstimatedQuality)
	neutral.Printf("  Budget per song     %s\n", money(pv.BudgetPerSongCents))
	neutral.Printf("  Viability threshold %s\n", money(pv.MinimumViableCents))
	if pv.BudgetPerSongCents < pv.MinimumViableCents {
		printWarn("  Budget is below the viable threshold for these settings.")
	}
}

func printPlanLine(n int, a sim.Action) {
	switch a.Type {
	case sim.ActionSignArtist:
		neutral.Printf("  %d. sign %s\n", n, a.ArtistID)
	case sim.ActionStartProject:
		neutral.Printf("  %d. start %s for %s (budget %s, %d songs)\n",
			n, a.Project.Type, a.ArtistID, money(a.Project.BudgetCents), a.Project.SongCount)
	case sim.ActionScheduleRelease:
		neutral.Printf("  %d. release %q week %d (%s)\n",
			n, a.Release.Title, a.Release.Week, strings.Join(a.Release.SongIDs, ", "))
	case sim.ActionMeetExecutive:
		neutral.Printf("  %d. meet %s\n", n, a.ExecutiveID)
	case sim.ActionArtistDialogue:
		neutral.Printf("  %d. talk to %s\n", n, a.ArtistID)
	default:
		neutral.Printf("  %d. %s\n", n, a.Type)
	}
}

func printSummary(sum *sim.WeekSummary, st *sim.GameState) {
	accent.Printf("Week %d resolved\n", sum.Week)
	neutral.Printf("Revenue %s   Expenses %s   Cash %s\n",
		money(sum.RevenueCents), money(sum.ExpensesCents), money(st.CashCents))

	b := sum.Breakdown
	neutral.Printf("  operations %s, artists %s, execs %s, projects %s, marketing %s\n",
		money(b.OperationsCents), money(b.ArtistSalariesCents), money(b.ExecutiveSalariesCents),
		money(b.ProjectCostsCents), money(b.MarketingCostsCents))

	for _, c := range sum.Changes {
		switch c.Type {
		case sim.ChangeBankruptcyRisk:
			danger.Printf("  ! %s\n", c.Description)
		case sim.ChangeBreakthrough, sim.ChangeChartDebut, sim.ChangeUnlock:
			success.Printf("  * %s\n", c.Description)
		default:
			neutral.Printf("  - %s\n", c.Description)
		}
	}
	for _, d := range sum.Diagnostics {
		printWarn("  dropped: " + d)
	}
	if sum.BankruptcyRisk {
		danger.Println("Cash is below the bankruptcy threshold.")
	}

	var playerRows []sim.ChartEntry
	for _, e := range sum.Chart {
		if e.IsPlayer && e.Position > 0 {
			playerRows = append(playerRows, e)
		}
	}
	if len(playerRows) > 0 {
		accent.Println("On the chart")
		for _, e := range playerRows {
			neutral.Printf("  #%d %s (%s)%s\n", e.Position, e.Title, formatMovement(e), debutTag(e))
		}
	}
}

func formatMovement(e sim.ChartEntry) string {
	switch {
	case e.IsDebut:
		return "new"
	case e.Movement > 0:
		return fmt.Sprintf("up %d", e.Movement)
	case e.Movement < 0:
		return fmt.Sprintf("down %d", -e.Movement)
	default:
		return "steady"
	}
}

func debutTag(e sim.ChartEntry) string {
	if e.Peak == e.Position && !e.IsDebut {
		return "  peak"
	}
	return ""
}

func printChart(week int, entries []sim.ChartEntry, limit int) {
	if len(entries) == 0 {
		printInfo("No chart resolved yet; advance a week first.")
		return
	}
	accent.Printf("Chart, week %d\n", week)
	shown := 0
	for _, e := range entries {
		if e.Position == 0 {
			continue
		}
		if shown >= limit && !e.IsPlayer {
			continue
		}
		line := fmt.Sprintf("#%-3d %-28s %-20s %11d  %s", e.Position, e.Title, e.Artist, e.Streams, formatMovement(e))
		if e.IsPlayer {
			success.Println(line)
		} else if shown < limit {
			neutral.Println(line)
		}
		shown++
	}
}

func printHistory(sums []sim.WeekSummary) {
	if len(sums) == 0 {
		printInfo("No resolved weeks yet.")
		return
	}
	for _, sum := range sums {
		net := sum.RevenueCents - sum.ExpensesCents
		line := fmt.Sprintf("week %-3d revenue %-12s expenses %-12s net %s",
			sum.Week, money(sum.RevenueCents), money(sum.ExpensesCents), money(net))
		if net < 0 {
			warn.Println(line)
		} else {
			neutral.Println(line)
		}
	}
}
