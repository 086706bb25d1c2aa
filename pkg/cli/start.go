package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pact-foundation/pact-mockserver/pkg/config"
	"github.com/pact-foundation/pact-mockserver/pkg/control"
	"github.com/pact-foundation/pact-mockserver/pkg/logging"
	"github.com/pact-foundation/pact-mockserver/pkg/manager"
	"github.com/spf13/cobra"
)

var (
	startPort       int
	startBasePort   int
	startServerKey  string
	startNoTermLog  bool
	startNoFileLog  bool
	startConfigPath string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start the control service and block until shutdown",
	Long: `start boots the control service (the process that creates and tears down
mock server instances) and blocks in the foreground until it receives
SIGINT/SIGTERM or a POST /shutdown with a matching server key.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().IntVar(&startPort, "port", 8080, "control service bind port")
	startCmd.Flags().IntVar(&startBasePort, "base-port", 0, "first port tried for new instances (0: OS-assigned)")
	startCmd.Flags().StringVar(&startServerKey, "server-key", "", "token required by POST /shutdown; empty disables it")
	startCmd.Flags().BoolVar(&startNoTermLog, "no-term-log", false, "disable logging to the terminal")
	startCmd.Flags().BoolVar(&startNoFileLog, "no-file-log", false, "disable logging to a file")
	startCmd.Flags().StringVar(&startConfigPath, "config", "", "YAML config file overriding these flags")
}

func runStart(cmd *cobra.Command, args []string) error {
	controlPort, basePort, serverKey, logTerminal, logFile, logFilePath, instanceCfg, err := resolveStartConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := buildStartLogger(logTerminal, logFile, logFilePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer closeLog()

	mgr := manager.New(manager.WithLogger(log), manager.WithBasePort(basePort))

	shutdownRequested := make(chan struct{})
	var shutdownOnce sync.Once
	requestShutdown := func() {
		shutdownOnce.Do(func() { close(shutdownRequested) })
	}

	srv := control.NewServer(mgr, controlPort,
		control.WithLogger(log),
		control.WithServerKey(serverKey),
		control.WithShutdownMaster(requestShutdown),
		control.WithDefaultInstanceConfig(instanceCfg),
	)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info("shutting down", "signal", s.String())
	case <-shutdownRequested:
		log.Info("shutting down", "reason", "shutdown token accepted")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mgr.ShutdownAll()
	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// resolveStartConfig merges --config (if given) with the explicit flags,
// flags taking precedence only where the config file left a field zero.
func resolveStartConfig() (controlPort, basePort int, serverKey string, logTerminal, logFileOn bool, logFilePath string, instanceCfg config.InstanceConfig, err error) {
	controlPort = startPort
	basePort = startBasePort
	serverKey = startServerKey
	logTerminal = !startNoTermLog
	logFileOn = !startNoFileLog
	instanceCfg = config.DefaultInstanceConfig()

	if startConfigPath == "" {
		return
	}

	cfg, loadErr := config.LoadFile(startConfigPath)
	if loadErr != nil {
		err = fmt.Errorf("%w: %v", ErrIO, loadErr)
		return
	}
	if cfg.ControlPort != 0 {
		controlPort = cfg.ControlPort
	}
	if cfg.BasePort != 0 {
		basePort = cfg.BasePort
	}
	if cfg.ServerKey != "" {
		serverKey = cfg.ServerKey
	}
	logTerminal = config.BoolOr(cfg.LogTerminal, logTerminal)
	logFileOn = config.BoolOr(cfg.LogFile, logFileOn)
	if cfg.LogFilePath != "" {
		logFilePath = cfg.LogFilePath
	}
	instanceCfg = mergeInstanceConfig(instanceCfg, cfg.Instance)
	return
}

// mergeInstanceConfig overlays any field cfg.Instance sets explicitly onto
// defaults, so an --config file naming only e.g. serverKey doesn't discard
// the CORS/timeout defaults by zeroing out the rest of the struct.
func mergeInstanceConfig(defaults, override config.InstanceConfig) config.InstanceConfig {
	merged := defaults
	if override.ReadTimeout != 0 {
		merged.ReadTimeout = override.ReadTimeout
	}
	if override.WriteTimeout != 0 {
		merged.WriteTimeout = override.WriteTimeout
	}
	if override.ShutdownGrace != 0 {
		merged.ShutdownGrace = override.ShutdownGrace
	}
	if override.MaxLogEntries != 0 {
		merged.MaxLogEntries = override.MaxLogEntries
	}
	if override.MaxJournalBodyBytes != 0 {
		merged.MaxJournalBodyBytes = override.MaxJournalBodyBytes
	}
	if override.TLS != nil {
		merged.TLS = override.TLS
	}
	if override.CORS != nil {
		merged.CORS = override.CORS
	}
	return merged
}

// buildStartLogger builds the start command's logger: text to the terminal
// (human-readable, for a foreground process) and JSON to the log file
// (machine-readable, for later aggregation), fanned out through a single
// slog.Logger via logging.NewMultiHandler so callers log once regardless of
// how many sinks are active.
func buildStartLogger(term, file bool, filePath string) (*slog.Logger, func(), error) {
	var handlers []slog.Handler
	closeFn := func() {}
	opts := &slog.HandlerOptions{Level: logging.LevelInfo}

	if term {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
	}
	if file {
		if filePath == "" {
			filePath = "pactmock.log"
		}
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closeFn = func() { f.Close() }
	}

	if len(handlers) == 0 {
		return logging.Nop(), closeFn, nil
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0]), closeFn, nil
	}
	return slog.New(logging.NewMultiHandler(handlers...)), closeFn, nil
}
