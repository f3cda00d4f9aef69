package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/bot"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/calendar"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/config"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/drive"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/gemini"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/mattermost"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/meetings"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/scheduler"
)

// statusRefreshInterval is how often the bot re-asserts its online status.
const statusRefreshInterval = 5 * time.Minute

// newServeCmd creates the `styrbot serve` command that starts the daemon.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the bot daemon",
		Long: `Connects to the Mattermost event websocket and serves board commands,
meeting scheduling, document search, and the generative fallback. Also
runs the periodic meeting-reminder sweep.

Examples:
  styrbot serve
  styrbot serve --config ./config.yaml --verbose`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Transport ──
	mm := mattermost.NewClient(cfg.ServerURL, cfg.BotToken, logger)
	me, err := mm.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("connecting to mattermost: %w", err)
	}
	logger.Info("connected to mattermost", "bot", me.Username, "server", cfg.ServerURL)

	// ── Generative backend ──
	gen := gemini.New(cfg.GeminiAPIKey, cfg.Model, cfg.SystemPrompt, logger)

	// ── Google providers (optional) ──
	var driveSvc *drive.Service
	var calSvc *calendar.Service
	if cfg.GoogleCredentials != "" {
		driveSvc, err = drive.NewService(ctx, cfg.GoogleCredentials, cfg.DriveFolderID, logger)
		if err != nil {
			return fmt.Errorf("initializing google drive: %w", err)
		}
		calSvc, err = calendar.NewService(ctx, cfg.GoogleCredentials, logger)
		if err != nil {
			return fmt.Errorf("initializing google calendar: %w", err)
		}
		logger.Info("google integration enabled", "drive_folder", cfg.DriveFolderID)
	} else {
		logger.Warn("google integration disabled (GOOGLE_APPLICATION_CREDENTIALS not set)")
	}

	// ── Durable state ──
	runtime, err := config.OpenRuntime(filepath.Join(cfg.DataDir, "config.json"))
	if err != nil {
		return fmt.Errorf("opening runtime overrides: %w", err)
	}

	storeOpts := []meetings.Option{}
	if cfg.DefaultAttendee != "" {
		storeOpts = append(storeOpts, meetings.WithDefaultAttendee(cfg.DefaultAttendee))
	}
	if calSvc != nil {
		storeOpts = append(storeOpts, meetings.WithSyncer(&calendarSyncer{
			service: calSvc,
			runtime: runtime,
			cfg:     cfg,
		}))
	}
	store, err := meetings.Open(filepath.Join(cfg.DataDir, "meetings.json"), logger, storeOpts...)
	if err != nil {
		return fmt.Errorf("opening meeting store: %w", err)
	}

	intros, err := bot.OpenIntroductions(filepath.Join(cfg.DataDir, "introduced_channels.json"), logger)
	if err != nil {
		return fmt.Errorf("opening introduction tracker: %w", err)
	}

	// ── Assemble the bot ──
	opts := bot.Options{
		Chat:      mm,
		Generator: gen,
		Store:     store,
		Intros:    intros,
		Runtime:   runtime,
		BotID:     me.ID,
		Logger:    logger,
	}
	if driveSvc != nil {
		opts.Drive = driveSvc
	}
	if calSvc != nil {
		opts.Calendar = calSvc
	}
	b := bot.New(opts)

	// ── Reminder sweeper ──
	sweeper := scheduler.New(store, b, cfg.SweepInterval, cfg.ReminderWindowDays, logger)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}

	// ── Presence ──
	go refreshStatus(ctx, mm, me.ID, logger)

	// ── Event loop ──
	go mm.ListenEvents(ctx, func(ev *mattermost.Event) {
		b.HandleEvent(ctx, ev)
	})

	logger.Info("styrbot running, press Ctrl+C to stop", "name", cfg.Name, "model", cfg.Model)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, stopping...")
	cancel()

	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(done)
	}()
	select {
	case <-done:
		logger.Info("shutdown complete")
	case <-time.After(10 * time.Second):
		logger.Warn("shutdown timed out after 10s, forcing exit")
	}
	return nil
}

// refreshStatus keeps the bot marked online. Mattermost flips idle bots to
// away after a few minutes without activity.
func refreshStatus(ctx context.Context, mm *mattermost.Client, userID string, logger *slog.Logger) {
	set := func() {
		if err := mm.UpdateStatus(ctx, userID, "online"); err != nil {
			logger.Warn("updating bot status failed", "error", err)
		}
	}
	set()

	ticker := time.NewTicker(statusRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			set()
		}
	}
}

// calendarSyncer pushes a created meeting to Google Calendar. The target
// calendar resolves runtime override first, then the configured ID, then
// the service account's primary calendar.
type calendarSyncer struct {
	service *calendar.Service
	runtime *config.RuntimeStore
	cfg     *config.Config
}

func (cs *calendarSyncer) Sync(ctx context.Context, m *meetings.Meeting) (string, error) {
	start, err := m.StartTime()
	if err != nil {
		return "", fmt.Errorf("meeting has no valid start time: %w", err)
	}

	calendarID := cs.runtime.CalendarID()
	if calendarID == "" {
		calendarID = cs.cfg.CalendarID
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	return cs.service.AddEvent(ctx, calendarID, calendar.EventInput{
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		Start:       start,
	})
}

// loadConfig reads the configuration honoring the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.Load(configPath)
}

// newLogger builds the slog logger for a command run.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose || cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
