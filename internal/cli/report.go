package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pomoblock/pomoblock/internal/config"
	"github.com/pomoblock/pomoblock/internal/database"
	"github.com/pomoblock/pomoblock/internal/reporter"
)

func openRepository(cfg *config.Config) (*database.Repository, func(), error) {
	if cfg.Database.Disable {
		return nil, nil, fmt.Errorf("the journal is disabled in the configuration")
	}
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return database.NewRepository(db), func() { db.Close() }, nil
}

func newReportCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:       "report [day|week|month]",
		Short:     "Summarize killed windows and work periods",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month"},
		RunE: func(cmd *cobra.Command, args []string) error {
			period := "day"
			if len(args) == 1 {
				period = args[0]
			}
			if opts.jsonOutput {
				format = "json"
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			repo, closeDB, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			rep := reporter.New(repo)
			report, err := rep.GenerateReport(period)
			if err != nil {
				return err
			}

			var out string
			switch format {
			case "text":
				out = rep.FormatReportText(report)
			case "json":
				out, err = rep.FormatReportJSON(report)
			case "yaml":
				out, err = rep.FormatReportYAML(report)
			default:
				return fmt.Errorf("unknown format %q (valid: text, json, yaml)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func newClearCmd(opts *options) *cobra.Command {
	var (
		yes       bool
		olderThan int
	)
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			what := "all journal entries"
			if olderThan > 0 {
				what = fmt.Sprintf("journal entries older than %d day(s)", olderThan)
			}
			if !yes {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("refusing to delete %s without --yes", what)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "This will delete %s. Are you sure? (yes/no): ", what)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.TrimSpace(answer)
				if answer != "yes" && answer != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
					return nil
				}
			}

			repo, closeDB, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			if olderThan > 0 {
				n, err := repo.DeleteOldEvents(time.Now().AddDate(0, 0, -olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d journal entries\n", n)
				return nil
			}
			if err := repo.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Journal cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().IntVar(&olderThan, "older-than", 0, "only delete entries older than this many days")
	return cmd
}
