package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// FromEnv applies environment overrides to cfg. A .env file in the working
// directory is loaded first when present; real environment variables win.
func FromEnv(cfg *Config) *Config {
	if cfg == nil {
		cfg = Defaults()
	}
	_ = godotenv.Load()

	if val := getEnvString("GRIMOIRE_ADDR"); val != "" {
		cfg.Server.Addr = val
	}
	if val := getEnvString("GRIMOIRE_DATA_DIR"); val != "" {
		cfg.Storage.DataDir = val
	}
	if val := getEnvString("GRIMOIRE_STORE"); val != "" {
		cfg.Storage.Driver = strings.ToLower(val)
	}
	if val := getEnvString("GRIMOIRE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLitePath = val
	}
	if val := getEnvString("GRIMOIRE_REDIS_ADDR"); val != "" {
		cfg.Storage.Redis.Addr = val
	}
	if val := getEnvString("GRIMOIRE_REDIS_PASSWORD"); val != "" {
		cfg.Storage.Redis.Password = val
	}
	if val := getEnvString("GRIMOIRE_LOG_MODE"); val != "" {
		cfg.Log.Mode = val
	}
	if val := getEnvString("GRIMOIRE_TZ"); val != "" {
		cfg.Timezone = val
	}

	b := &cfg.Balance
	if val := getEnvInt("GOAL_COMPLETION_BONUS"); val > 0 {
		b.GoalCompletionBonus = val
	}
	if val := getEnvInt("WEEKLY_FREQUENCY_BONUS"); val > 0 {
		b.WeeklyFrequencyBonus = val
	}
	if val := getEnvInt("VICE_CLEAN_XP"); val > 0 {
		b.ViceCleanXP = val
	}
	if val := getEnvInt("ACCUMULATOR_CONTRIBUTION_XP"); val > 0 {
		b.AccumulatorContributionXP = val
	}
	if val := getEnvInt("OVERCLOCK_CAP"); val > 0 {
		b.OverclockCap = val
	}
	if val := getEnvInt("OVERLOAD_THRESHOLD_DAYS"); val > 0 {
		b.OverloadThresholdDays = val
	}
	if val := getEnvInt("DAILY_XP_RETENTION_DAYS"); val > 0 {
		b.DailyXPRetentionDays = val
	}

	return cfg
}

func getEnvString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
