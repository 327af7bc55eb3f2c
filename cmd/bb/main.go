package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"backbeat/internal/actionq"
	cl "backbeat/internal/cli"
	"backbeat/internal/config"
	"backbeat/internal/sim"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "bb",
		Short:        "Backbeat label management client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newNewCmd(&apiBase),
		newUseCmd(),
		newStatusCmd(&apiBase),
		newPlanCmd(&apiBase),
		newPreviewCmd(&apiBase),
		newAdvanceCmd(&apiBase),
		newChartCmd(&apiBase),
		newHistoryCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func currentGame() (string, error) {
	s, err := cl.LoadSession()
	if err != nil {
		return "", err
	}
	return s.GameID, nil
}

func newNewCmd(apiBase *string) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new label",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			out, err := newClient(apiBase).CreateGame(ctx, seed)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{GameID: out.ID}); err != nil {
				return err
			}
			_ = actionq.Clear()
			printSuccess(fmt.Sprintf("New label started: %s", out.ID))
			printInfo(fmt.Sprintf("Week %d, %s in the bank.", out.State.Week, money(out.State.CashCents)))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "fixed simulation seed (0 = random)")
	return cmd
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <game-id>",
		Short: "Switch the active game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.SaveSession(cl.Session{GameID: args[0]}); err != nil {
				return err
			}
			_ = actionq.Clear()
			printSuccess("Active game set to " + args[0])
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the label's current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := currentGame()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			st, err := newClient(apiBase).GameState(ctx, gameID)
			if err != nil {
				return err
			}
			printState(&st)
			return nil
		},
	}
}

func newPlanCmd(apiBase *string) *cobra.Command {
	plan := &cobra.Command{
		Use:   "plan",
		Short: "Queue focus actions for the next week",
	}
	plan.AddCommand(
		newPlanSignCmd(),
		newPlanProjectCmd(),
		newPlanReleaseCmd(),
		newPlanMeetCmd(),
		newPlanTalkCmd(),
		newPlanShowCmd(),
		newPlanClearCmd(),
	)
	return plan
}

func queueAction(a sim.Action) error {
	gameID, err := currentGame()
	if err != nil {
		return err
	}
	n, err := actionq.Push(gameID, a)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Queued %s (%d action(s) planned).", a.Type, n))
	return nil
}

func newPlanSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <artist-id>",
		Short: "Sign an artist from the scouting pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return queueAction(sim.Action{Type: sim.ActionSignArtist, ArtistID: args[0]})
		},
	}
}

func newPlanProjectCmd() *cobra.Command {
	var (
		projectType string
		budget      int64
		producer    string
		timeTier    string
		songs       int
	)
	cmd := &cobra.Command{
		Use:   "project <artist-id>",
		Short: "Start a recording project or tour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parseProducerTier(producer)
			if err != nil {
				return err
			}
			tt, err := parseTimeTier(timeTier)
			if err != nil {
				return err
			}
			return queueAction(sim.Action{
				Type:     sim.ActionStartProject,
				ArtistID: args[0],
				Project: &sim.ProjectPlan{
					Type:         sim.ProjectType(projectType),
					BudgetCents:  budget,
					ProducerTier: pt,
					TimeTier:     tt,
					SongCount:    songs,
				},
			})
		},
	}
	cmd.Flags().StringVar(&projectType, "type", "single", "single, ep, album or tour")
	cmd.Flags().Int64Var(&budget, "budget", 0, "total project budget in cents")
	cmd.Flags().StringVar(&producer, "producer", "local", "local, regional, national or legendary")
	cmd.Flags().StringVar(&timeTier, "time", "standard", "rushed, standard, extended or perfectionist")
	cmd.Flags().IntVar(&songs, "songs", 1, "songs to record (ignored for tours)")
	return cmd
}

func newPlanReleaseCmd() *cobra.Command {
	var (
		title     string
		songIDs   []string
		week      int
		marketing []string
	)
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Schedule recorded songs for release",
		RunE: func(cmd *cobra.Command, args []string) error {
			mk := map[string]int64{}
			for _, spec := range marketing {
				channel, amount, ok := strings.Cut(spec, "=")
				if !ok {
					return fmt.Errorf("marketing spec %q must be channel=cents", spec)
				}
				var cents int64
				if _, err := fmt.Sscanf(amount, "%d", &cents); err != nil {
					return fmt.Errorf("marketing spec %q: %v", spec, err)
				}
				mk[channel] = cents
			}
			return queueAction(sim.Action{
				Type: sim.ActionScheduleRelease,
				Release: &sim.ReleasePlan{
					Title:          title,
					SongIDs:        songIDs,
					Week:           week,
					MarketingCents: mk,
				},
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "release title")
	cmd.Flags().StringSliceVar(&songIDs, "songs", nil, "song ids to include")
	cmd.Flags().IntVar(&week, "week", 0, "week to go live (0 = next resolved week)")
	cmd.Flags().StringSliceVar(&marketing, "marketing", nil, "channel=cents, repeatable")
	return cmd
}

func newPlanMeetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meet <executive-id>",
		Short: "Spend a focus slot with an executive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return queueAction(sim.Action{Type: sim.ActionMeetExecutive, ExecutiveID: args[0]})
		},
	}
}

func newPlanTalkCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "talk <artist-id>",
		Short: "Check in with a signed artist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return queueAction(sim.Action{Type: sim.ActionArtistDialogue, ArtistID: args[0], Dialogue: note})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "what to talk about")
	return cmd
}

func newPlanShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the queued plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := actionq.Load()
			if err != nil {
				return err
			}
			if len(p.Actions) == 0 {
				printInfo("No actions planned.")
				return nil
			}
			printInfo(fmt.Sprintf("Plan for game %s:", p.GameID))
			for i, a := range p.Actions {
				printPlanLine(i+1, a)
			}
			return nil
		},
	}
}

func newPlanClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the queued plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := actionq.Clear(); err != nil {
				return err
			}
			printSuccess("Plan cleared.")
			return nil
		},
	}
}

func newPreviewCmd(apiBase *string) *cobra.Command {
	var (
		projectType string
		budget      int64
		producer    string
		timeTier    string
		songs       int
	)
	cmd := &cobra.Command{
		Use:   "preview <artist-id>",
		Short: "Estimate a project before committing a focus slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := currentGame()
			if err != nil {
				return err
			}
			pt, err := parseProducerTier(producer)
			if err != nil {
				return err
			}
			tt, err := parseTimeTier(timeTier)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			pv, err := newClient(apiBase).Preview(ctx, gameID, args[0], sim.ProjectPlan{
				Type:         sim.ProjectType(projectType),
				BudgetCents:  budget,
				ProducerTier: pt,
				TimeTier:     tt,
				SongCount:    songs,
			})
			if err != nil {
				return err
			}
			printPreview(pv)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectType, "type", "single", "single, ep or album")
	cmd.Flags().Int64Var(&budget, "budget", 0, "total project budget in cents")
	cmd.Flags().StringVar(&producer, "producer", "local", "producer tier")
	cmd.Flags().StringVar(&timeTier, "time", "standard", "time investment tier")
	cmd.Flags().IntVar(&songs, "songs", 1, "songs to record")
	return cmd
}

func newAdvanceCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Resolve the week with the queued plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := currentGame()
			if err != nil {
				return err
			}
			p, err := actionq.Load()
			if err != nil {
				return err
			}
			actions := p.Actions
			if p.GameID != gameID {
				actions = nil
			}

			ctx, cancel := cmdContext(cmd)
			defer cancel()

			out, err := newClient(apiBase).Advance(ctx, gameID, actions, uuid.NewString())
			if err != nil {
				return err
			}
			_ = actionq.Clear()
			printSummary(&out.Summary, &out.State)
			return nil
		},
	}
}

func newChartCmd(apiBase *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show last week's chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := currentGame()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			week, entries, err := newClient(apiBase).Chart(ctx, gameID)
			if err != nil {
				return err
			}
			printChart(week, entries, limit)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to show")
	return cmd
}

func newHistoryCmd(apiBase *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent week summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := currentGame()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			sums, err := newClient(apiBase).Summaries(ctx, gameID, limit)
			if err != nil {
				return err
			}
			printHistory(sums)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 8, "weeks to show")
	return cmd
}

func parseProducerTier(s string) (sim.ProducerTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return sim.ProducerLocal, nil
	case "regional":
		return sim.ProducerRegional, nil
	case "national":
		return sim.ProducerNational, nil
	case "legendary":
		return sim.ProducerLegendary, nil
	}
	return 0, fmt.Errorf("unknown producer tier %q", s)
}

func parseTimeTier(s string) (sim.TimeTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rushed":
		return sim.TimeRushed, nil
	case "standard":
		return sim.TimeStandard, nil
	case "extended":
		return sim.TimeExtended, nil
	case "perfectionist":
		return sim.TimePerfectionist, nil
	}
	return 0, fmt.Errorf("unknown time tier %q", s)
}
