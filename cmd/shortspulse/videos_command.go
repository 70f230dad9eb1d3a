package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"shortspulse/internal/ipc"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	var top int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Show tracked shorts with their latest counters and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Videos(top)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Videos)
				}

				stdout := cmd.OutOrStdout()
				if len(resp.Videos) == 0 {
					fmt.Fprintln(stdout, "No shorts tracked")
					return nil
				}

				rows := make([][]string, 0, len(resp.Videos))
				for _, video := range resp.Videos {
					rows = append(rows, videoRow(video))
				}
				headers := []string{"Video", "Channel", "Published", "Views", "Likes", "Comments", "Velocity", "Engagement"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
				fmt.Fprintln(stdout, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "Limit to the N fastest-growing shorts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func videoRow(video ipc.VideoView) []string {
	published := video.PublishedAt.Format("15:04 MST")
	if !video.HasSamples {
		return []string{video.VideoID, video.ChannelTitle, published, "-", "-", "-", "-", "-"}
	}
	return []string{
		video.VideoID,
		video.ChannelTitle,
		published,
		formatCount(video.Views),
		formatCount(video.Likes),
		formatCount(video.Comments),
		fmt.Sprintf("%+.1f/hr", video.Velocity),
		formatEngagement(video.EngagementRate, video.EngagementDefined),
	}
}

var countPrinter = message.NewPrinter(language.English)

// formatCount renders counters with digit grouping, e.g. 1,234,567.
func formatCount(value uint64) string {
	return countPrinter.Sprintf("%d", value)
}

func formatEngagement(rate float64, defined bool) string {
	if !defined {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}
