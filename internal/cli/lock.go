package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomoblock/pomoblock/internal/lockfile"
)

func newLockCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Create the lock file and start a work period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := lockfile.Create(cfg.Lock.Path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lock file created: %s\n", cfg.Lock.Path)
			return nil
		},
	}
}

func newUnlockCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Remove the lock file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := lockfile.Remove(cfg.Lock.Path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lock file removed: %s\n", cfg.Lock.Path)
			return nil
		},
	}
}

func newToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Create the lock file if it is missing, remove it otherwise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			present, err := lockfile.Toggle(cfg.Lock.Path)
			if err != nil {
				return err
			}
			if present {
				fmt.Fprintf(cmd.OutOrStdout(), "Lock file created: %s\n", cfg.Lock.Path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Lock file removed: %s\n", cfg.Lock.Path)
			}
			return nil
		},
	}
}
