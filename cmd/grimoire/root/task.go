package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

func newTaskCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTaskAddCmd(g), newTaskDoneCmd(g), newTaskRmCmd(g), newTaskListCmd(g))
	return cmd
}

func newTaskAddCmd(g *globalFlags) *cobra.Command {
	var in game.NewTaskInput
	var difficulty string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an ad hoc task",
		Args:  exactlyOne("title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			in.Title = args[0]
			in.Difficulty = model.Difficulty(difficulty)
			t, err := rt.Engine.AddTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPlus+" added ")+string(t.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "medium", "easy|medium|hard|epic")
	cmd.Flags().BoolVar(&in.Daily, "daily", false, "regenerate every day")
	cmd.Flags().IntVar(&in.TimerMinutes, "timer", 0, "focus timer in minutes")
	return cmd
}

func newTaskDoneCmd(g *globalFlags) *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			id := model.TaskID(args[0])
			if rt.Engine.Snapshot().Task(id) == nil {
				return fmt.Errorf("task %s not found", id)
			}
			var actual *int
			if cmd.Flags().Changed("amount") {
				actual = &amount
			}
			printReward(cmd.OutOrStdout(), rt.Engine.Complete(cmd.Context(), id, actual))
			return nil
		},
	}
	cmd.Flags().IntVarP(&amount, "amount", "n", 0, "amount actually done (accumulators, overclocking)")
	return cmd
}

func newTaskRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			if !rt.Engine.DeleteTask(cmd.Context(), model.TaskID(args[0])) {
				return fmt.Errorf("task %s not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("deleted "+args[0]))
			return nil
		},
	}
}

func newTaskListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openSession(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks := rt.Engine.Snapshot().Tasks
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("no tasks"))
				return nil
			}
			for _, t := range tasks {
				printTask(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
