package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pomoblock/pomoblock/internal/config"
	"github.com/pomoblock/pomoblock/internal/daemon"
	"github.com/pomoblock/pomoblock/internal/lockfile"
	"github.com/pomoblock/pomoblock/pkg/integrations/x11"
	"github.com/pomoblock/pomoblock/pkg/utils"
	"github.com/pomoblock/pomoblock/pkg/window"
)

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Width(16)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

type sessionStatus struct {
	Active    bool      `json:"active"`
	Since     time.Time `json:"since"`
	Reason    string    `json:"reason"`
	Remaining string    `json:"remaining"`
}

type statusReport struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid,omitempty"`
	ConfigFile   string         `json:"config_file,omitempty"`
	Defects      []string       `json:"defects,omitempty"`
	Work         string         `json:"work"`
	Break        string         `json:"break"`
	Blacklist    []string       `json:"blacklist"`
	LockPath     string         `json:"lock_path"`
	LockMonitor  bool           `json:"lock_monitor"`
	LockPresent  bool           `json:"lock_present"`
	Session      *sessionStatus `json:"session,omitempty"`
	ErrorsToday  int64          `json:"errors_today"`
	FocusedClass string         `json:"focused_class,omitempty"`
	FocusedTitle string         `json:"focused_title,omitempty"`
	FocusError   string         `json:"focus_error,omitempty"`
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the daemon, lock file and session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			st, err := collectStatus(cfg, time.Now())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), st)
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func collectStatus(cfg *config.Config, now time.Time) (*statusReport, error) {
	st := &statusReport{
		ConfigFile:  cfg.File,
		Work:        cfg.Session.Work.String(),
		Break:       cfg.Session.Break.String(),
		Blacklist:   cfg.Session.Blacklist,
		LockPath:    cfg.Lock.Path,
		LockMonitor: cfg.Lock.Monitor,
	}
	for _, d := range cfg.Defects {
		st.Defects = append(st.Defects, d.Error())
	}

	proc, err := daemon.New(cfg.Daemon.PIDFile).Status()
	if err != nil {
		return nil, fmt.Errorf("failed to check daemon status: %w", err)
	}
	st.Running, st.PID = proc.Running, proc.PID

	if st.LockPresent, err = lockfile.Exists(cfg.Lock.Path); err != nil {
		return nil, err
	}

	if !cfg.Database.Disable {
		if _, err := os.Stat(cfg.Database.Path); err == nil {
			repo, closeDB, err := openRepository(cfg)
			if err != nil {
				return nil, err
			}
			defer closeDB()

			// Transitions written before the PID file belong to an earlier run.
			if latest, err := repo.GetLatestTransition(); err == nil && latest != nil && st.Running && !latest.Timestamp.Before(proc.Since) {
				length := cfg.Session.Break
				if latest.Active {
					length = cfg.Session.Work
				}
				st.Session = &sessionStatus{
					Active:    latest.Active,
					Since:     latest.Timestamp,
					Reason:    latest.Reason,
					Remaining: utils.FormatClock(length - now.Sub(latest.Timestamp)),
				}
			}
			y, m, d := now.Date()
			if n, err := repo.CountErrorsSince(time.Date(y, m, d, 0, 0, 0, 0, now.Location())); err == nil {
				st.ErrorsToday = n
			}
		}
	}

	if info, err := focusedWindow(); err != nil {
		st.FocusError = err.Error()
	} else {
		st.FocusedClass, st.FocusedTitle = info.Class, info.Title
	}
	return st, nil
}

func focusedWindow() (*window.Info, error) {
	host, err := x11.Connect("", nil)
	if err != nil {
		return nil, err
	}
	var reader window.FocusReader = host
	defer reader.Close()
	return reader.FocusedWindow()
}

func printStatus(w io.Writer, st *statusReport) {
	row := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label)+value)
	}

	fmt.Fprintln(w, headerStyle.Render("pomoblock"))
	if st.Running {
		row("Daemon", fmt.Sprintf("running (PID: %d)", st.PID))
	} else {
		row("Daemon", mutedStyle.Render("not running"))
	}
	if st.Session != nil {
		state := inactiveStyle.Render("break")
		if st.Session.Active {
			state = activeStyle.Render("work")
		}
		row("Session", fmt.Sprintf("%s since %s (%s, %s left)",
			state, st.Session.Since.Format("15:04"), st.Session.Reason, st.Session.Remaining))
	}
	if st.LockPresent {
		row("Lock file", activeStyle.Render("present")+" "+mutedStyle.Render(st.LockPath))
	} else {
		row("Lock file", "absent "+mutedStyle.Render(st.LockPath))
	}
	if !st.LockMonitor {
		row("", mutedStyle.Render("lock file monitoring is disabled"))
	}
	row("Work / break", st.Work+" / "+st.Break)
	row("Blacklist", strings.Join(st.Blacklist, ", "))
	if st.ConfigFile != "" {
		row("Config", st.ConfigFile)
	} else {
		row("Config", mutedStyle.Render("built-in defaults"))
	}
	for _, d := range st.Defects {
		row("", activeStyle.Render("defaulted: ")+d)
	}
	if st.ErrorsToday > 0 {
		row("Errors today", fmt.Sprintf("%d", st.ErrorsToday))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Current window"))
	if st.FocusError != "" {
		row("", mutedStyle.Render(st.FocusError))
		return
	}
	row("Class", st.FocusedClass)
	row("Title", st.FocusedTitle)
}
