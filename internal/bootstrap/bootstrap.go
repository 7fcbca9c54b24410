package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	playbackinadapter "storydeck/internal/modules/playback/adapter/in"
	playbackoutadapter "storydeck/internal/modules/playback/adapter/out"
	playbackout "storydeck/internal/modules/playback/port/out"
	playbackservice "storydeck/internal/modules/playback/service"
	playbackusecase "storydeck/internal/modules/playback/usecase"
	progressinadapter "storydeck/internal/modules/progress/adapter/in"
	progressoutadapter "storydeck/internal/modules/progress/adapter/out"
	progressdomain "storydeck/internal/modules/progress/domain"
	progressout "storydeck/internal/modules/progress/port/out"
	progressservice "storydeck/internal/modules/progress/service"
	progressusecase "storydeck/internal/modules/progress/usecase"
	storyinadapter "storydeck/internal/modules/story/adapter/in"
	storyoutadapter "storydeck/internal/modules/story/adapter/out"
	storyservice "storydeck/internal/modules/story/service"
	storyusecase "storydeck/internal/modules/story/usecase"
	"storydeck/internal/platform/clock"
	"storydeck/internal/platform/config"
	"storydeck/internal/platform/id"
	"storydeck/internal/platform/logging"
	uiapp "storydeck/internal/ui/app"
)

type App struct {
	Config      *config.Config
	Logger      *logging.Logger
	StoryCLI    storyinadapter.CLIHandler
	ProgressCLI progressinadapter.CLIHandler
	PlaybackCLI playbackinadapter.CLIHandler
	PlaybackTUI playbackinadapter.TUIHandler

	closers []io.Closer
}

func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	clk := clock.SystemClock{}
	app := &App{Config: cfg, Logger: logger}

	storySvc := storyservice.NewStoryService(
		storyoutadapter.NewYAMLCatalog(cfg.Paths.Catalog, cfg.Paths.AudioDir),
		time.Duration(cfg.Playback.DefaultSubtitleMS)*time.Millisecond,
		logger.Named("story"),
	)
	ordinals, err := storySvc.Ordinals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	store, err := newKVStore(cfg, clk)
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, closer)
	}
	progressUC := progressusecase.NewInteractor(
		progressservice.NewProgressService(clk, store, cfg.Store.Key, progressdomain.NewCourse(ordinals), logger.Named("progress")),
		progressoutadapter.NewMarkdownCertificateStore(cfg.Paths.CertificateDir),
	)
	storyUC := storyusecase.NewInteractor(storySvc, storyoutadapter.NewProgressAdapter(progressUC))

	audio := playbackservice.NewAudioController(
		newAudioPlayer(cfg, clk, logger),
		time.Duration(cfg.Audio.PollIntervalMS)*time.Millisecond,
		logger.Named("audio"),
	)
	audio.SetVolume(cfg.Playback.Volume)
	playbackUC := playbackusecase.NewInteractor(playbackservice.NewPlaybackService(
		playbackoutadapter.NewStoryAdapter(storyUC),
		playbackoutadapter.NewProgressAdapter(progressUC),
		audio,
		playbackoutadapter.NewTimerScheduler,
		playbackoutadapter.NewFFprobeProber(),
		id.UUID{},
		playbackservice.SessionOptions{
			Autoplay:         cfg.Playback.AutoplayOnOpen,
			AudioEnabled:     cfg.Playback.AudioEnabled,
			SubtitlesVisible: cfg.Playback.SubtitlesVisible,
			WheelThreshold:   cfg.Playback.WheelThreshold,
		},
		logger.Named("playback"),
	))

	app.StoryCLI = storyinadapter.NewCLIHandler(storyUC)
	app.ProgressCLI = progressinadapter.NewCLIHandler(progressUC)
	app.PlaybackCLI = playbackinadapter.NewCLIHandler(playbackUC)
	app.PlaybackTUI = playbackinadapter.NewTUIHandler(playbackUC)
	return app, nil
}

func newKVStore(cfg *config.Config, clk clock.Clock) (progressout.KVStore, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		store, err := progressoutadapter.NewSQLiteKVStore(cfg.DBPath(), clk)
		if err != nil {
			return nil, fmt.Errorf("open progress store: %w", err)
		}
		return store, nil
	default:
		return progressoutadapter.NewFileKVStore(cfg.DataDir()), nil
	}
}

func newAudioPlayer(cfg *config.Config, clk clock.Clock, logger *logging.Logger) playbackout.AudioPlayer {
	if cfg.Audio.Output == config.OutputFFmpeg {
		return playbackoutadapter.NewFFmpegPlayer(playbackoutadapter.FFmpegOptions{
			FFmpegPath:   cfg.Audio.FFmpegPath,
			DeviceFormat: cfg.Audio.DeviceFormat,
			Device:       cfg.Audio.Device,
		}, clk, logger.Named("ffmpeg"))
	}
	return playbackoutadapter.NewSilentPlayer(clk)
}

// Close stops playback and releases stores. It is safe to call once.
func (a *App) Close() error {
	a.PlaybackCLI.Shutdown()
	var errs []error
	for _, closer := range a.closers {
		errs = append(errs, closer.Close())
	}
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.StoryCLI, app.PlaybackTUI, app.ProgressCLI, app.Config.Playback.Volume)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}
