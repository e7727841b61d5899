package game

import (
	"math"
)

// LevelFromTotalXP implements max(1, floor(0.1*sqrt(total))+1) with an
// integer square root so level boundaries are exact.
func LevelFromTotalXP(total int) int {
	if total <= 0 {
		return 1
	}
	return max(1, isqrt(total)/10+1)
}

// XPForLevel is the first XP total at which level n is reached.
func XPForLevel(n int) int {
	if n <= 1 {
		return 0
	}
	k := n - 1
	return 100 * k * k
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

type LevelProgress struct {
	Level       int     `json:"level"`
	TotalXP     int     `json:"totalXP"`
	LevelXP     int     `json:"levelXP"`
	NextLevelXP int     `json:"nextLevelXP"`
	Fraction    float64 `json:"fraction"`
}

func ProgressForTotalXP(total int) LevelProgress {
	if total < 0 {
		total = 0
	}
	level := LevelFromTotalXP(total)
	start, next := XPForLevel(level), XPForLevel(level+1)
	return LevelProgress{
		Level:       level,
		TotalXP:     total,
		LevelXP:     start,
		NextLevelXP: next,
		Fraction:    float64(total-start) / float64(next-start),
	}
}

type League struct {
	Name  string `json:"name"`
	MinXP int    `json:"minXP"`
}

// Leagues is ordered by ascending threshold; monthly XP picks the tier.
var Leagues = []League{
	{Name: "bronze", MinXP: 0},
	{Name: "silver", MinXP: 500},
	{Name: "gold", MinXP: 1500},
	{Name: "platinum", MinXP: 3000},
	{Name: "diamond", MinXP: 5000},
	{Name: "master", MinXP: 8000},
	{Name: "grandmaster", MinXP: 12000},
	{Name: "champion", MinXP: 18000},
	{Name: "legend", MinXP: 25000},
	{Name: "immortal", MinXP: 35000},
}

// minVisibleProgress keeps a sliver of the bar visible once any XP exists.
const minVisibleProgress = 3

func leagueIndexForXP(monthlyXP int) int {
	idx := 0
	for i, l := range Leagues {
		if monthlyXP >= l.MinXP {
			idx = i
		}
	}
	return idx
}

func LeagueForXP(monthlyXP int) League {
	return Leagues[leagueIndexForXP(monthlyXP)]
}

func leagueIndexByName(name string) (int, bool) {
	for i, l := range Leagues {
		if l.Name == name {
			return i, true
		}
	}
	return 0, false
}

type LeagueStanding struct {
	Tier       League  `json:"tier"`
	Next       *League `json:"next,omitempty"`
	MonthlyXP  int     `json:"monthlyXP"`
	Progress   int     `json:"progress"`
	Overridden bool    `json:"overridden"`
}

// Standing derives the league view. A non-empty override that names a known
// tier always wins over the computed tier.
func Standing(monthlyXP int, override string) LeagueStanding {
	idx := leagueIndexForXP(monthlyXP)
	overridden := false
	if override != "" {
		if i, ok := leagueIndexByName(override); ok {
			idx = i
			overridden = true
		}
	}
	out := LeagueStanding{
		Tier:       Leagues[idx],
		MonthlyXP:  monthlyXP,
		Overridden: overridden,
	}
	if idx+1 < len(Leagues) {
		next := Leagues[idx+1]
		out.Next = &next
	}
	out.Progress = leagueProgress(monthlyXP, idx)
	return out
}

func leagueProgress(monthlyXP, idx int) int {
	if idx+1 >= len(Leagues) {
		return 100
	}
	cur, next := Leagues[idx], Leagues[idx+1]
	pct := int(math.Round(float64(monthlyXP-cur.MinXP) / float64(next.MinXP-cur.MinXP) * 100))
	pct = min(max(pct, 0), 100)
	if pct == 0 && monthlyXP > 0 {
		pct = minVisibleProgress
	}
	return pct
}
