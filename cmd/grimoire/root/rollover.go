package root

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

func newRolloverCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Run the day rollover and report what changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			// the session start already rolled over; show that pass
			printRollover(cmd.OutOrStdout(), rt.Start)
			return nil
		},
	}
}

func printRollover(w io.Writer, r game.RolloverReport) {
	fmt.Fprintln(w, ui.Heading(ui.IconClock, "Rollover · "+r.Today))
	fmt.Fprintln(w, ui.LabelValue("tasks archived", r.TasksArchived))
	fmt.Fprintln(w, ui.LabelValue("tasks pruned", r.TasksPruned))
	fmt.Fprintln(w, ui.LabelValue("tasks generated", r.TasksGenerated))
	fmt.Fprintln(w, ui.LabelValue("goals lapsed", r.GoalsLapsed))
	fmt.Fprintln(w, ui.LabelValue("habits lapsed", r.HabitsLapsed))
	fmt.Fprintln(w, ui.LabelValue("vice days backfilled", r.VicesBackfilled))
	if r.GlobalStreakReset {
		fmt.Fprintln(w, ui.Warn.Render(ui.IconWarn+" streak reset"))
	}
}
