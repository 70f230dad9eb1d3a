package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shortspulse/internal/ipc"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	var tail int
	var follow bool
	var daemonLog bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the discovery log, or tail the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if daemonLog || follow {
				return tailDaemonLog(cmd, ctx, tail, follow)
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DiscoveryLog()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Lines) == 0 {
					fmt.Fprintln(stdout, "Discovery has not run yet")
					return nil
				}
				for _, line := range resp.Lines {
					fmt.Fprintln(stdout, line)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&tail, "tail", 50, "Number of daemon log lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new daemon log lines")
	cmd.Flags().BoolVar(&daemonLog, "daemon", false, "Show the daemon log instead of the discovery log")
	return cmd
}

func tailDaemonLog(cmd *cobra.Command, ctx *commandContext, tail int, follow bool) error {
	return ctx.withClient(func(client *ipc.Client) error {
		stdout := cmd.OutOrStdout()

		resp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: tail})
		if err != nil {
			return err
		}
		for _, line := range resp.Lines {
			fmt.Fprintln(stdout, line)
		}
		if !follow {
			return nil
		}

		offset := resp.Offset
		for {
			if err := cmd.Context().Err(); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			resp, err := client.LogTail(ipc.LogTailRequest{Offset: offset, Follow: true, WaitMillis: 1000})
			if err != nil {
				return err
			}
			for _, line := range resp.Lines {
				fmt.Fprintln(stdout, line)
			}
			offset = resp.Offset
		}
	})
}
