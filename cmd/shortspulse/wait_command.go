package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shortspulse/internal/ipc"
)

func newWaitCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until the baseline sampling round completes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.WaitReady(timeout)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.TimedOut {
					fmt.Fprintf(stdout, "Timed out after %s; current phase: %s\n", timeout, resp.State.Phase)
					return fmt.Errorf("run is not ready yet")
				}
				switch {
				case resp.State.Ready:
					fmt.Fprintf(stdout, "Baseline complete: tracking %d shorts\n", resp.State.TrackedVideos)
				case resp.State.FatalError != "":
					return fmt.Errorf("run failed: %s", resp.State.FatalError)
				default:
					fmt.Fprintf(stdout, "Run settled without a baseline (phase %s)\n", resp.State.Phase)
				}
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long to wait before giving up")
	return cmd
}
