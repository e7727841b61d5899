package root

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

const Version = "0.1.0"

type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "grimoire",
		Short:         "Daily Grimoire: tasks, goals, habits and vices with XP",
		Long:          "Daily Grimoire is a local-first progression tracker. Every command runs the day rollover first.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&g.configPath, "config", "grimoire.yml", "path to YAML config")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log engine activity to stderr")

	cmd.AddCommand(
		newStatusCmd(g),
		newTaskCmd(g),
		newGoalCmd(g),
		newHabitCmd(g),
		newViceCmd(g),
		newRolloverCmd(g),
		newDebugCmd(g),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

func exactlyOne(what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New(what + " is required")
		}
		return nil
	}
}
