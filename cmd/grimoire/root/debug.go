package root

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

func newDebugCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "debug",
		Short:  "Testing affordances: time travel, XP, league",
		Hidden: true,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "advance",
			Short: "Move the calendar one day forward",
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, cleanup, err := openSession(cmd.Context(), g)
				if err != nil {
					return err
				}
				defer cleanup()
				printRollover(cmd.OutOrStdout(), rt.Engine.Debug().AdvanceDay(cmd.Context()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "offset <days>",
			Short: "Pin the calendar offset",
			Args:  exactlyOne("days"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("days must be an integer")
				}
				rt, cleanup, err := openSession(cmd.Context(), g)
				if err != nil {
					return err
				}
				defer cleanup()
				printRollover(cmd.OutOrStdout(), rt.Engine.Debug().SetDateOffset(cmd.Context(), n))
				return nil
			},
		},
		&cobra.Command{
			Use:   "league [name]",
			Short: "Override the league; no name clears it",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, cleanup, err := openSession(cmd.Context(), g)
				if err != nil {
					return err
				}
				defer cleanup()

				dbg := rt.Engine.Debug()
				if len(args) == 0 {
					dbg.ClearLeagueOverride(cmd.Context())
				} else if !dbg.SetLeagueOverride(cmd.Context(), args[0]) {
					return fmt.Errorf("unknown league %q", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("League", ui.LeagueName(rt.Engine.League().Tier.Name)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "xp <amount>",
			Short: "Inject XP",
			Args:  exactlyOne("amount"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("amount must be a positive integer")
				}
				rt, cleanup, err := openSession(cmd.Context(), g)
				if err != nil {
					return err
				}
				defer cleanup()
				printReward(cmd.OutOrStdout(), rt.Engine.Debug().InjectXP(cmd.Context(), n))
				return nil
			},
		},
		&cobra.Command{
			Use:   "streak <days>",
			Short: "Set the global streak",
			Args:  exactlyOne("days"),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 0 {
					return fmt.Errorf("days must be a non-negative integer")
				}
				rt, cleanup, err := openSession(cmd.Context(), g)
				if err != nil {
					return err
				}
				defer cleanup()
				rt.Engine.Debug().SetStreak(cmd.Context(), n)
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Streak", n))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Wipe all progress (keeps the offset)",
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, cleanup, err := openSession(cmd.Context(), g)
				if err != nil {
					return err
				}
				defer cleanup()
				rt.Engine.Debug().Reset(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("progress wiped"))
				return nil
			},
		},
	)
	return cmd
}
