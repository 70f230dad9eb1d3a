package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shortspulse/internal/ipc"
)

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "series <video-id>",
		Short: "Show one short's full sample history with derived metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := strings.TrimSpace(args[0])
			if videoID == "" {
				return fmt.Errorf("video id is required")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Series(videoID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Series)
				}

				stdout := cmd.OutOrStdout()
				series := resp.Series
				fmt.Fprintf(stdout, "%s (%s), published %s\n",
					series.VideoID, series.ChannelTitle, series.PublishedAt.Format("2006-01-02 15:04 MST"))
				if len(series.Points) == 0 {
					fmt.Fprintln(stdout, "No samples captured yet")
					return nil
				}

				rows := make([][]string, 0, len(series.Points))
				for _, point := range series.Points {
					rows = append(rows, []string{
						point.CapturedAt.Format("15:04:05"),
						formatCount(point.Views),
						formatCount(point.Likes),
						formatCount(point.Comments),
						fmt.Sprintf("%+.1f/hr", point.Velocity),
						formatEngagement(point.EngagementRate, point.EngagementDefined),
					})
				}
				headers := []string{"Captured", "Views", "Likes", "Comments", "Velocity", "Engagement"}
				aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
				fmt.Fprintln(stdout, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
