package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

func newViceCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vice",
		Short: "Track vices",
	}
	cmd.AddCommand(newViceAddCmd(g), newViceCheckCmd(g), newViceListCmd(g))
	return cmd
}

func newViceAddCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Start tracking a vice",
		Args:  exactlyOne("title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			v, err := rt.Engine.AddVice(cmd.Context(), game.NewViceInput{Title: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconShield+" tracking ")+string(v.ID))
			return nil
		},
	}
}

func newViceCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <id> <clean|relapsed>",
		Short: "Record today's check-in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := model.ViceStatus(args[1])
			if !status.IsValid() {
				return fmt.Errorf("status must be clean or relapsed")
			}
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			id := model.ViceID(args[0])
			if rt.Engine.Snapshot().Vice(id) == nil {
				return fmt.Errorf("vice %s not found", id)
			}
			r := rt.Engine.CheckInVice(cmd.Context(), id, status)
			if status == model.ViceRelapsed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconSkull+" streak reset"))
				return nil
			}
			printReward(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func newViceListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vices",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			vices := rt.Engine.Snapshot().Vices
			if len(vices) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("no vices"))
				return nil
			}
			for _, v := range vices {
				fmt.Fprintf(out, "%s %s %s\n", v.Title,
					ui.LabelValue("clean", fmt.Sprintf("%d (best %d)", v.CurrentStreak, v.LongestStreak)),
					ui.Muted.Render(string(v.ID)))
			}
			return nil
		},
	}
}
