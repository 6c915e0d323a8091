package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"loothound/internal/adapter/chain"
	"loothound/internal/adapter/journal/gormjournal"
	"loothound/internal/adapter/metrics/inmemory"
	observeradapter "loothound/internal/adapter/observer"
	sessionfile "loothound/internal/adapter/session/file"
	"loothound/internal/adapter/signer/bridge"
	"loothound/internal/app/ports"
	"loothound/internal/app/run"
	"loothound/internal/config"
)

func main() {
	configPath := flag.String("config", "loothound.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	journal, err := gormjournal.Open(cfg.JournalDSN)
	if err != nil {
		logger.Error("open journal", "error", err)
		os.Exit(1)
	}

	client, err := chain.NewClient(cfg.RPCURL, 15*time.Second)
	if err != nil {
		logger.Error("new rpc client", "error", err)
		os.Exit(1)
	}

	sessions := sessionfile.NewStore(cfg.SessionPath)
	adventurerID := resolveAdventurer(cfg, sessions, logger)

	minter := chain.Minter{Client: client, Address: cfg.Address}
	if adventurerID == 0 && cfg.SignerMode == config.SignerDirect {
		adventurerID, err = minter.Mint(context.Background(), uuid.NewString())
		if err != nil {
			logger.Error("mint adventurer", "error", err)
			os.Exit(1)
		}
		saveSession(sessions, cfg.Address, adventurerID, logger)
	}

	counters := inmemory.NewRecorder()
	observer := buildObserver(cfg, logger, journal, adventurerID, counters)
	writer := buildWriter(cfg, client)

	runner := &run.Runner{
		Reader:       chain.Reader{Client: client},
		Writer:       writer,
		Observer:     observer,
		Catalog:      &chain.Catalog{Client: client},
		Sessions:     sessions,
		Policy:       cfg.Policy,
		Cfg:          cfg.Runner,
		Pacing:       cfg.Pacing,
		AdventurerID: adventurerID,
	}
	if cfg.SignerMode == config.SignerDirect {
		runner.AcquireIdentity = func(ctx context.Context) (uint64, error) {
			return minter.Mint(ctx, uuid.NewString())
		}
	}
	runner.Rebootstrap = func(ctx context.Context) (ports.Reader, ports.Writer, error) {
		fresh, err := chain.NewClient(cfg.RPCURL, 15*time.Second)
		if err != nil {
			return nil, nil, err
		}
		return chain.Reader{Client: fresh}, buildWriter(cfg, fresh), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("loothound agent starting", "adventurer_id", adventurerID, "signer_mode", cfg.SignerMode)
	runErr := runner.Run(ctx)

	snap := counters.Snapshot()
	logger.Info("run tally",
		"decisions", snap.Decisions,
		"writes_submitted", snap.WritesSubmitted,
		"writes_settled", snap.WritesSettled,
		"writes_rejected", snap.WritesRejected,
		"deaths", snap.Deaths)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("runner exited", "error", runErr)
		os.Exit(1)
	}
}

func buildWriter(cfg config.Config, client *chain.Client) ports.Writer {
	if cfg.SignerMode == config.SignerBridge {
		return &bridge.Writer{URL: cfg.BridgeURL, Timeout: cfg.Runner.WriteTimeout}
	}
	return chain.Writer{Client: client, Address: cfg.Address}
}

func buildObserver(cfg config.Config, logger *slog.Logger, journal ports.EventJournal, adventurerID uint64, counters *inmemory.Recorder) ports.Observer {
	sinks := observeradapter.Multi{
		observeradapter.Slog{Logger: logger},
		observeradapter.Journal{Journal: journal, Fallback: adventurerID},
		counters,
	}
	if cfg.LogDir != "" {
		sinks = append(sinks, observeradapter.NewJSONL(cfg.LogDir, "agent"))
	}
	return sinks
}

// resolveAdventurer prefers the explicitly configured id, then the saved
// session, so a restart picks up the identity the last run rotated to.
func resolveAdventurer(cfg config.Config, sessions ports.SessionStore, logger *slog.Logger) uint64 {
	if cfg.AdventurerID != 0 {
		return cfg.AdventurerID
	}
	sess, err := sessions.Load(context.Background())
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			logger.Warn("load session", "error", err)
		}
		return 0
	}
	logger.Info("resuming session", "adventurer_id", sess.AdventurerID, "updated_at", sess.UpdatedAt)
	return sess.AdventurerID
}

func saveSession(sessions ports.SessionStore, address string, adventurerID uint64, logger *slog.Logger) {
	err := sessions.Save(context.Background(), ports.Session{
		Address:      address,
		AdventurerID: adventurerID,
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("save session", "error", err)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
