package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mentord/internal/auth"
	"github.com/sandeepkv93/mentord/internal/chat"
	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/mentor"
	"github.com/sandeepkv93/mentord/internal/mindmap"
	"github.com/sandeepkv93/mentord/internal/scheduler"
	"github.com/sandeepkv93/mentord/internal/signals"
	"github.com/sandeepkv93/mentord/internal/storage"
	"github.com/sandeepkv93/mentord/internal/timer"
	"github.com/sandeepkv93/mentord/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mentord failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := update.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	log, err := logging.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := auth.NewLocalProvider(store, auth.WithLogger(log))
	ledger := gamification.NewLedger(store, provider, gamification.WithLogger(log))

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	alarm := timer.Alarms{timer.BellAlarm{W: os.Stdout}}
	if cfg.DesktopNotifications {
		alarm = append(alarm, update.DesktopAlarm(notifier))
	}
	machine := timer.New(store, ledger,
		timer.WithAlarm(alarm),
		timer.WithLogger(log),
		timer.WithDefaultDuration(cfg.FocusMinutes*60),
	)
	if err := machine.Restore(ctx); err != nil {
		log.Warn("timer restore failed", "error", err)
	}

	geminiOpts := []mentor.GeminiOption{mentor.WithTimeout(cfg.AITimeout), mentor.WithLogger(log)}
	if cfg.GeminiBaseURL != "" {
		geminiOpts = append(geminiOpts, mentor.WithBaseURL(cfg.GeminiBaseURL))
	}
	client := mentor.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, geminiOpts...)
	if cfg.GeminiAPIKey == "" {
		log.Warn("gemini api key missing; mentor replies will carry the configuration hint")
	}

	sessions := chat.NewSessions(store, provider, time.Now, log)
	chatSvc := chat.NewService(sessions, client, ledger, signals.NewProcessor(ledger),
		chat.WithModelName(client.Model()),
		chat.WithLogger(log),
	)
	maps := mindmap.NewGenerator(client, mindmap.NewStore(store, provider, time.Now, log), ledger, log)

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	model := update.NewModel(update.Services{
		Ctx:       ctx,
		Auth:      provider,
		Ledger:    ledger,
		Timer:     machine,
		Chat:      chatSvc,
		MindMaps:  maps,
		Scheduler: engine,
		Log:       log,
	}, cfg, notifier)
	defer model.Close()

	log.Info("mentord started", "db", cfg.DBPath, "model", client.Model())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
