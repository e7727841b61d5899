package config

// Balance holds the economy tuning table.
type Balance struct {
	// Task XP by difficulty
	EasyTaskXP   int `yaml:"easy_task_xp" json:"easy_task_xp"`
	MediumTaskXP int `yaml:"medium_task_xp" json:"medium_task_xp"`
	HardTaskXP   int `yaml:"hard_task_xp" json:"hard_task_xp"`
	EpicTaskXP   int `yaml:"epic_task_xp" json:"epic_task_xp"`

	// Bonuses
	GoalCompletionBonus       int `yaml:"goal_completion_bonus" json:"goal_completion_bonus"`
	WeeklyFrequencyBonus      int `yaml:"weekly_frequency_bonus" json:"weekly_frequency_bonus"`
	ViceCleanXP               int `yaml:"vice_clean_xp" json:"vice_clean_xp"`
	AccumulatorContributionXP int `yaml:"accumulator_contribution_xp" json:"accumulator_contribution_xp"`

	// Overclock
	OverclockMultiplier int     `yaml:"overclock_multiplier" json:"overclock_multiplier"`
	OverclockCap        int     `yaml:"overclock_cap" json:"overclock_cap"`
	OverclockFastTrack  float64 `yaml:"overclock_fast_track" json:"overclock_fast_track"`

	// Progressive overload
	OverloadThresholdDays int     `yaml:"overload_threshold_days" json:"overload_threshold_days"`
	OverloadRate          float64 `yaml:"overload_rate" json:"overload_rate"`
	OverloadMinStep       int     `yaml:"overload_min_step" json:"overload_min_step"`
	AtomicSeedAmount      int     `yaml:"atomic_seed_amount" json:"atomic_seed_amount"`

	// Ledger
	DailyXPRetentionDays int `yaml:"daily_xp_retention_days" json:"daily_xp_retention_days"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		EasyTaskXP:                10,
		MediumTaskXP:              25,
		HardTaskXP:                50,
		EpicTaskXP:                100,
		GoalCompletionBonus:       1000,
		WeeklyFrequencyBonus:      50,
		ViceCleanXP:               50,
		AccumulatorContributionXP: 10,
		OverclockMultiplier:       2,
		OverclockCap:              100,
		OverclockFastTrack:        0.5,
		OverloadThresholdDays:     3,
		OverloadRate:              0.10,
		OverloadMinStep:           2,
		AtomicSeedAmount:          2,
		DailyXPRetentionDays:      30,
	}
}

// ApplyDefaults fills zero fields from Default so partial YAML stays usable.
func (b *Balance) ApplyDefaults() {
	d := Default()
	fillInt(&b.EasyTaskXP, d.EasyTaskXP)
	fillInt(&b.MediumTaskXP, d.MediumTaskXP)
	fillInt(&b.HardTaskXP, d.HardTaskXP)
	fillInt(&b.EpicTaskXP, d.EpicTaskXP)
	fillInt(&b.GoalCompletionBonus, d.GoalCompletionBonus)
	fillInt(&b.WeeklyFrequencyBonus, d.WeeklyFrequencyBonus)
	fillInt(&b.ViceCleanXP, d.ViceCleanXP)
	fillInt(&b.AccumulatorContributionXP, d.AccumulatorContributionXP)
	fillInt(&b.OverclockMultiplier, d.OverclockMultiplier)
	fillInt(&b.OverclockCap, d.OverclockCap)
	fillInt(&b.OverloadThresholdDays, d.OverloadThresholdDays)
	fillInt(&b.OverloadMinStep, d.OverloadMinStep)
	fillInt(&b.AtomicSeedAmount, d.AtomicSeedAmount)
	fillInt(&b.DailyXPRetentionDays, d.DailyXPRetentionDays)
	if b.OverclockFastTrack <= 0 {
		b.OverclockFastTrack = d.OverclockFastTrack
	}
	if b.OverloadRate <= 0 {
		b.OverloadRate = d.OverloadRate
	}
}

func fillInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}
