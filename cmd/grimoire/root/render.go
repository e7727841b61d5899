package root

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

func printReward(w io.Writer, r game.Reward) {
	if r.XP == 0 {
		fmt.Fprintln(w, ui.Muted.Render("nothing changed"))
		return
	}
	fmt.Fprintln(w, ui.Good.Render(fmt.Sprintf("%s +%d XP", ui.IconSparkle, r.XP)))
	if r.LeveledUp {
		fmt.Fprintln(w, ui.BadgeLevelUp+" "+ui.LabelValue("level", r.NewLevel))
	}
}

func printTask(w io.Writer, t model.Task) {
	amount := ""
	if t.RequiredAmount > 0 {
		amount = fmt.Sprintf(" %d %s", t.RequiredAmount, t.Unit)
	}
	fmt.Fprintf(w, "%s %s%s %s %s\n",
		ui.DoneMark(t.Completed),
		t.Title,
		amount,
		ui.Difficulty(string(t.Difficulty)),
		ui.Muted.Render(fmt.Sprintf("%d XP · %s", t.XP, t.ID)),
	)
}

// parseExercise reads "name:unit:start:target".
func parseExercise(s string) (game.ExerciseInput, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return game.ExerciseInput{}, fmt.Errorf("exercise %q: want name:unit:start:target", s)
	}
	start, err := strconv.Atoi(parts[2])
	if err != nil {
		return game.ExerciseInput{}, fmt.Errorf("exercise %q: start must be an integer", s)
	}
	target, err := strconv.Atoi(parts[3])
	if err != nil {
		return game.ExerciseInput{}, fmt.Errorf("exercise %q: target must be an integer", s)
	}
	return game.ExerciseInput{
		Name:         strings.TrimSpace(parts[0]),
		Unit:         model.Unit(strings.TrimSpace(parts[1])),
		StartAmount:  start,
		TargetAmount: target,
	}, nil
}

func parseExercises(raw []string) ([]game.ExerciseInput, error) {
	out := make([]game.ExerciseInput, 0, len(raw))
	for _, s := range raw {
		ex, err := parseExercise(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}
