package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

func newGoalCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}
	cmd.AddCommand(newGoalAddCmd(g), newGoalClaimCmd(g), newGoalHabitCmd(g), newGoalListCmd(g))
	return cmd
}

func newGoalAddCmd(g *globalFlags) *cobra.Command {
	var (
		in         game.NewGoalInput
		goalType   string
		period     string
		difficulty string
		unit       string
		exercises  []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a progressive, accumulator or frequency goal",
		Example: `  grimoire goal add "Pushups" --type progressive --exercise Pushups:reps:10:50
  grimoire goal add "Read 12 books" --type accumulator --target-total 12 --unit books
  grimoire goal add "Gym" --type frequency --period weekly --target-count 3`,
		Args: exactlyOne("title"),
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
			in.Type = model.GoalType(goalType)
			in.Period = model.Period(period)
			in.Difficulty = model.Difficulty(difficulty)
			in.Unit = model.Unit(unit)
			in.Exercises = exs
			goal, err := rt.Engine.AddGoal(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconTarget+" added ")+string(goal.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&goalType, "type", "t", string(model.GoalProgressive), "progressive|accumulator|frequency")
	cmd.Flags().StringVar(&period, "period", "", "daily|weekly")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "easy|medium|hard|epic")
	cmd.Flags().StringArrayVarP(&exercises, "exercise", "e", nil, "name:unit:start:target (repeatable)")
	cmd.Flags().IntVar(&in.TargetTotal, "target-total", 0, "accumulator total")
	cmd.Flags().StringVar(&unit, "unit", "", "accumulator unit")
	cmd.Flags().IntVar(&in.TargetCount, "target-count", 0, "frequency completions per period")
	cmd.Flags().StringVar(&in.Deadline, "deadline", "", "YYYY-MM-DD")
	return cmd
}

func newGoalClaimCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <id>",
		Short: "Claim a completed goal's bonus",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()
			printReward(cmd.OutOrStdout(), rt.Engine.ClaimGoalReward(cmd.Context(), model.GoalID(args[0])))
			return nil
		},
	}
}

func newGoalHabitCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "habit <id>",
		Short: "Turn a completed goal into a habit",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			h, ok := rt.Engine.MoveGoalToHabit(cmd.Context(), model.GoalID(args[0]))
			if !ok {
				return fmt.Errorf("goal %s not found or not completed", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconLoop+" habit ")+string(h.ID))
			return nil
		},
	}
}

func newGoalListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			goals := rt.Engine.Snapshot().Goals
			if len(goals) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("no goals"))
				return nil
			}
			for _, goal := range goals {
				fmt.Fprintf(out, "%s %s %s %s\n",
					ui.DoneMark(goal.Completed),
					goal.Title,
					ui.Muted.Render(string(goal.Type)+" · "+string(goal.ID)),
					goalProgress(goal),
				)
			}
			return nil
		},
	}
}

func goalProgress(goal model.Goal) string {
	switch goal.Type {
	case model.GoalAccumulator:
		return fmt.Sprintf("%d/%d %s", goal.CurrentTotal, goal.TargetTotal, goal.Unit)
	case model.GoalFrequency:
		return fmt.Sprintf("%d/%d this %s", goal.WeeklyProgress, goal.TargetCount, periodNoun(goal.Period))
	default:
		s := ""
		for i, ex := range goal.Exercises {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%s %d/%d", ex.Name, ex.CurrentAmount, ex.TargetAmount)
		}
		return s
	}
}

func periodNoun(p model.Period) string {
	if p == model.PeriodDaily {
		return "day"
	}
	return "week"
}
