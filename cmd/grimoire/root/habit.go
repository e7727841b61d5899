package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

func newHabitCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}
	cmd.AddCommand(newHabitAddCmd(g), newHabitDoneCmd(g), newHabitListCmd(g))
	return cmd
}

func newHabitAddCmd(g *globalFlags) *cobra.Command {
	var (
		in         game.NewHabitInput
		period     string
		difficulty string
		exercises  []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a habit",
		Args:  exactlyOne("title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			exs, err := parseExercises(exercises)
			if err != nil {
				return err
			}
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			in.Title = args[0]
			in.Period = model.Period(period)
			in.Difficulty = model.Difficulty(difficulty)
			in.Exercises = exs
			h, err := rt.Engine.AddHabit(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconLoop+" added ")+string(h.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "daily|weekly")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "easy|medium|hard|epic")
	cmd.Flags().BoolVar(&in.Atomic, "atomic", false, "start tiny and grow")
	cmd.Flags().StringArrayVarP(&exercises, "exercise", "e", nil, "name:unit:start:target (repeatable)")
	cmd.Flags().IntVar(&in.WeeklyTarget, "weekly-target", 0, "completions per week (weekly habits)")
	return cmd
}

func newHabitDoneCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete today's habit task",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			id := model.HabitID(args[0])
			if rt.Engine.Snapshot().Habit(id) == nil {
				return fmt.Errorf("habit %s not found", id)
			}
			printReward(cmd.OutOrStdout(), rt.Engine.CompleteHabit(cmd.Context(), id))
			return nil
		},
	}
}

func newHabitListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			habits := rt.Engine.Snapshot().Habits
			if len(habits) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("no habits"))
				return nil
			}
			for _, h := range habits {
				fmt.Fprintf(out, "%s %s %s\n", h.Title,
					ui.LabelValue("streak", fmt.Sprintf("%s %d", ui.IconFire, h.Streak)),
					ui.Muted.Render(string(h.Period)+" · "+string(h.ID)))
			}
			return nil
		},
	}
}
