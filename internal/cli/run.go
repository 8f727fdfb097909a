package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pomoblock/pomoblock/internal/blacklist"
	"github.com/pomoblock/pomoblock/internal/config"
	"github.com/pomoblock/pomoblock/internal/daemon"
	"github.com/pomoblock/pomoblock/internal/database"
	"github.com/pomoblock/pomoblock/internal/hook"
	"github.com/pomoblock/pomoblock/internal/lockfile"
	"github.com/pomoblock/pomoblock/internal/logging"
	"github.com/pomoblock/pomoblock/internal/models"
	"github.com/pomoblock/pomoblock/internal/session"
	"github.com/pomoblock/pomoblock/pkg/integrations/x11"
	"github.com/pomoblock/pomoblock/pkg/window"
)

const daemonChildEnv = "POMOBLOCK_DAEMON_CHILD"

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			logPath := ""
			if os.Getenv(daemonChildEnv) == "1" {
				logPath = cfg.Daemon.LogFile
			}
			log, err := logging.New(cfg.Log.Level, logPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

// serve wires the filter together and blocks until ctx is done or the X
// connection is lost.
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("starting pomoblock",
		zap.String("config", cfg.File),
		zap.Duration("work", cfg.Session.Work),
		zap.Duration("break", cfg.Session.Break),
		zap.Strings("blacklist", cfg.Session.Blacklist))
	for _, d := range cfg.Defects {
		log.Warn("config value defaulted", zap.String("key", d.Key), zap.Error(d.Err))
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	if err := dm.WritePID(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer dm.RemovePID()

	var (
		repo     *database.Repository
		recorder hook.Recorder
	)
	if !cfg.Database.Disable {
		db, err := database.Connect(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Initialize(); err != nil {
			return err
		}
		repo = database.NewRepository(db)
		recorder = repo
	}

	var lock session.Signal
	lockPresent := false
	if cfg.Lock.Monitor {
		if err := os.MkdirAll(filepath.Dir(cfg.Lock.Path), 0755); err != nil {
			return fmt.Errorf("failed to create lock directory: %w", err)
		}
		mon, err := lockfile.NewMonitor(cfg.Lock.Path, log)
		if err != nil {
			return err
		}
		defer mon.Close()
		lock = mon
		lockPresent = mon.Present()
	}

	timer := session.New(session.Config{
		Work:        cfg.Session.Work,
		Break:       cfg.Session.Break,
		StartActive: cfg.Session.StartActive,
	}, time.Now(), lockPresent)

	host, err := x11.Connect("", log)
	if err != nil {
		return err
	}
	defer host.Close()

	h, err := hook.New(hook.Options{
		Host:      host,
		Timer:     timer,
		Lock:      lock,
		Blacklist: blacklist.New(cfg.Session.Blacklist),
		Logger:    log,
		Recorder:  recorder,
		Reloader:  config.NewReloader(cfg),
	})
	if err != nil {
		return err
	}
	h.Start(lockPresent)

	onErr := func(id window.ID, err error) {
		log.Error("failed to handle window", zap.Stringer("window", id), zap.Error(err))
		if repo == nil {
			return
		}
		if err := repo.CreateErrorLog(&models.ErrorLog{
			Timestamp: time.Now(),
			Source:    host.GetDisplayServer(),
			WindowID:  uint32(id),
			ErrorMsg:  err.Error(),
		}); err != nil {
			log.Warn("failed to write journal", zap.Error(err))
		}
	}

	err = host.Run(ctx, h.NewClient, onErr)
	log.Info("pomoblock stopped")
	return err
}

func newStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start pomoblock in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			st, err := daemon.New(cfg.Daemon.PIDFile).Status()
			if err != nil {
				return fmt.Errorf("failed to check daemon status: %w", err)
			}
			if st.Running {
				return fmt.Errorf("pomoblock is already running (PID: %d)", st.PID)
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}
			argv := []string{exe, "run"}
			if opts.configPath != "" {
				argv = append(argv, "--config", opts.configPath)
			}

			proc, err := os.StartProcess(exe, argv, &os.ProcAttr{
				Env:   append(os.Environ(), daemonChildEnv+"=1"),
				Files: []*os.File{nil, nil, nil},
				Sys:   &syscall.SysProcAttr{Setsid: true},
			})
			if err != nil {
				return fmt.Errorf("failed to start daemon process: %w", err)
			}
			_ = proc.Release()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pomoblock started (PID: %d)\n", proc.Pid)
			fmt.Fprintf(out, "Logs: %s\n", cfg.Daemon.LogFile)
			return nil
		},
	}
}

func newStopCmd(opts *options) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the background process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			err = daemon.New(cfg.Daemon.PIDFile).Stop(timeout)
			if errors.Is(err, daemon.ErrNotRunning) {
				fmt.Fprintln(cmd.OutOrStdout(), "pomoblock is not running")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pomoblock stopped")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "how long to wait for the process to exit")
	return cmd
}
