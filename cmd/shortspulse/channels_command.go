package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List the configured channels and their tracked shorts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// Tracked counts come from the daemon when it is reachable;
			// the configured list renders either way.
			counts := map[string]int{}
			if client, dialErr := ctx.dialClient(); dialErr == nil {
				if resp, err := client.Videos(0); err == nil {
					for _, video := range resp.Videos {
						counts[video.ChannelTitle]++
					}
				}
				client.Close()
			}

			stdout := cmd.OutOrStdout()
			if len(counts) == 0 {
				for _, id := range cfg.Tracker.ChannelIDs {
					fmt.Fprintln(stdout, id)
				}
				return nil
			}

			titles := make([]string, 0, len(counts))
			for title := range counts {
				titles = append(titles, title)
			}
			sort.Strings(titles)

			rows := make([][]string, 0, len(titles))
			for _, title := range titles {
				rows = append(rows, []string{title, fmt.Sprintf("%d", counts[title])})
			}
			fmt.Fprintln(stdout, renderTable(
				[]string{"Channel", "Tracked shorts"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
