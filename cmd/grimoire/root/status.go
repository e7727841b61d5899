package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

func newStatusCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, league, streak and today's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			ov := rt.Engine.Overview()
			out := cmd.OutOrStdout()

			title := "Daily Grimoire · " + ov.Today
			if ov.Offset != 0 {
				title += fmt.Sprintf(" (offset %+d)", ov.Offset)
			}
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, title))
			fmt.Fprintln(out, ui.LabelValue("Level", ov.Level.Level)+" "+ui.ProgressBar(ov.Level.Fraction, 20)+
				ui.Muted.Render(fmt.Sprintf(" %d / %d XP", ov.Level.TotalXP, ov.Level.NextLevelXP)))
			fmt.Fprintln(out, ui.LabelValue("League", ui.LeagueName(ov.League.Tier.Name))+" "+
				ui.ProgressBar(float64(ov.League.Progress)/100, 20)+
				ui.Muted.Render(fmt.Sprintf(" %d XP this month", ov.MonthlyXP)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d (best %d)", ui.IconFire, ov.Streak, ov.LongestStreak)))

			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.H2.Render("Today"))
			n := 0
			for _, t := range rt.Engine.Snapshot().Tasks {
				if t.Date != ov.Today && !t.Accumulator {
					continue
				}
				printTask(out, t)
				n++
			}
			if n == 0 {
				fmt.Fprintln(out, ui.Muted.Render("nothing scheduled"))
			}
			return nil
		},
	}
}
