package main

import (
	"fmt"

	"github.com/fwojciec/mindlab/serial"
	"github.com/spf13/cobra"
)

func newPortsCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports that look like the input device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ports []string
			var err error
			if all {
				ports, err = a.ports()
			} else {
				ports, err = serial.Discover(a.ports, a.cfg.ResolvedGlobs())
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial devices found.")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every port, not only likely devices")
	return cmd
}

func newHighScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "highscore",
		Short: "Show the obstacle dodger high score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			h, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if h.Score == 0 && h.Name == "" {
				fmt.Fprintln(out, "No high score yet.")
				return nil
			}
			fmt.Fprintf(out, "%d by %s on %s\n", h.Score, h.Holder(), h.Date.Local().Format("2006-01-02"))
			return nil
		},
	}
}
