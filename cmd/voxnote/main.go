package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/voxnote/voxnote/internal/api"
	"github.com/voxnote/voxnote/internal/app"
	"github.com/voxnote/voxnote/internal/config"
	"github.com/voxnote/voxnote/internal/files"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "voxnote:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer closeLog()

	log.Info().
		Str("transcription", cfg.Endpoints.Transcription).
		Str("summarization", cfg.Endpoints.Summarization).
		Str("audio_dir", cfg.Audio.Dir).
		Msg("starting voxnote")

	client := api.New(cfg.Endpoints.Transcription, cfg.Endpoints.Summarization, cfg.RequestTimeout, log)

	watcher, err := files.Watch(cfg.Audio.Dir)
	if err != nil {
		// The app still works without live refresh; files are scanned once.
		log.Warn().Err(err).Msg("directory watching disabled")
		watcher = nil
	}

	p := tea.NewProgram(app.New(cfg, client, watcher, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// newLogger opens the log file and builds the root logger. The terminal
// belongs to the TUI, so logs never go to stdout.
func newLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}
