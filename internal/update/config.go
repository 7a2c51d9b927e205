package update

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RuntimeConfig struct {
	DBPath               string
	LogFile              string
	LogMode              string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiBaseURL        string
	FocusMinutes         int
	TickInterval         time.Duration
	ToastDuration        time.Duration
	SchedulerBuffer      int
	DesktopNotifications bool
	AITimeout            time.Duration
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               "mentord.db",
		LogFile:              "mentord.log",
		LogMode:              "prod",
		GeminiModel:          "gemini-3-flash-preview",
		FocusMinutes:         25,
		TickInterval:         200 * time.Millisecond,
		ToastDuration:        4 * time.Second,
		SchedulerBuffer:      64,
		DesktopNotifications: false,
		AITimeout:            60 * time.Second,
	}
}

// LoadDotEnv loads the given env files (".env" when none), keeping variables that are
// already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("MENTORD_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("MENTORD_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("MENTORD_LOG_MODE"); ok {
		cfg.LogMode = v
	}
	if v, ok := getEnvString("MENTORD_GEMINI_API_KEY"); ok {
		cfg.GeminiAPIKey = v
	} else if v, ok := getEnvString("GEMINI_API_KEY"); ok {
		cfg.GeminiAPIKey = v
	}
	if v, ok := getEnvString("MENTORD_GEMINI_MODEL"); ok {
		cfg.GeminiModel = v
	}
	if v, ok := getEnvString("MENTORD_GEMINI_BASE_URL"); ok {
		cfg.GeminiBaseURL = v
	}
	if v, ok := getEnvInt("MENTORD_FOCUS_MINUTES"); ok && v > 0 {
		cfg.FocusMinutes = v
	}
	if v, ok := getEnvInt("MENTORD_TICK_MS"); ok && v > 0 {
		cfg.TickInterval = time.Duration(v) * time.Millisecond
	}
	if v, ok := getEnvInt("MENTORD_TOAST_SECONDS"); ok && v > 0 {
		cfg.ToastDuration = time.Duration(v) * time.Second
	}
	if v, ok := getEnvInt("MENTORD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("MENTORD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("MENTORD_AI_TIMEOUT_SECONDS"); ok && v > 0 {
		cfg.AITimeout = time.Duration(v) * time.Second
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
