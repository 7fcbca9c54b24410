package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	playbackdto "storydeck/internal/modules/playback/dto"
)

func newChaptersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters",
		Short: "List chapters with their unlock state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			chapters, err := app.StoryCLI.Chapters(cmd.Context())
			if err != nil {
				return err
			}
			if len(chapters) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no chapters")
				return nil
			}
			rows := make([][]string, 0, len(chapters))
			for _, c := range chapters {
				status := "locked"
				switch {
				case c.Completed:
					status = "completed"
				case c.Unlocked:
					status = "unlocked"
				}
				rows = append(rows, []string{
					strconv.Itoa(c.Ordinal), c.ID, c.Title,
					strconv.Itoa(c.SlideCount), c.Duration.Round(time.Second).String(), status,
				})
			}
			writeTable(cmd.OutOrStdout(),
				[]string{"#", "ID", "Title", "Slides", "Length", "Status"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft})
			return nil
		},
	}
}

func newChapterCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chapter <id>",
		Short: "Show a chapter's slides and subtitles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			chapter, err := app.StoryCLI.Chapter(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s (chapter %d, %s)\n", chapter.Title, chapter.Ordinal, chapter.Duration.Round(time.Second))
			for _, slide := range chapter.Slides {
				_, _ = fmt.Fprintf(out, "\n%s  %s\n", slide.ID, slide.Image)
				for _, sub := range slide.Subtitles {
					clip := ""
					if sub.Audio != nil {
						clip = "  [" + sub.Audio.ClipID + "]"
					} else if sub.ContinueAudio {
						clip = "  [continues]"
					}
					_, _ = fmt.Fprintf(out, "  %-6s %-9s %s%s\n", sub.ID, sub.Speaker, sub.Text, clip)
				}
			}
			return nil
		},
	}
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var resume bool
	cmd := &cobra.Command{
		Use:   "play <chapter-id>",
		Short: "Autoplay a chapter in the terminal and record its completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			result, err := app.PlaybackCLI.PlayHeadless(cmd.Context(), args[0], resume, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nchapter %s complete, story %.0f%% done\n", result.ChapterID, result.TotalProgress)
			if result.Certified {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "story finished: run `storydeck certificate` to get your certificate")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&resume, "resume", false, "start from the last slide viewed")
	return cmd
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var probe bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog for script and audio problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			report, err := app.StoryCLI.Validate(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%d chapters, %d slides, %d subtitles, %d audio bindings\n",
				report.Chapters, report.Slides, report.Subtitles, len(report.Clips))

			rows := make([][]string, 0, len(report.Diagnostics))
			for _, d := range report.Diagnostics {
				line := ""
				if d.Line > 0 {
					line = strconv.Itoa(d.Line)
				}
				rows = append(rows, []string{d.ChapterID, line, d.Reason, d.Text})
			}

			if probe {
				refs := make([]playbackdto.ClipRef, 0, len(report.Clips))
				for _, c := range report.Clips {
					refs = append(refs, playbackdto.ClipRef{ChapterID: c.ChapterID, SubtitleID: c.SubtitleID, ClipID: c.ClipID, Start: c.Start, End: c.End})
				}
				reports, err := app.PlaybackCLI.ProbeClips(cmd.Context(), refs)
				if err != nil {
					return err
				}
				for _, r := range reports {
					if r.Problem != "" {
						rows = append(rows, []string{r.ChapterID, r.SubtitleID, r.Problem, r.ClipID})
					}
				}
			}

			if len(rows) == 0 {
				_, _ = fmt.Fprintln(out, "no problems found")
				return nil
			}
			writeTable(out, []string{"Chapter", "Line", "Problem", "Text"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft})
			return fmt.Errorf("%d problems found", len(rows))
		},
	}
	cmd.Flags().BoolVar(&probe, "probe-audio", false, "measure clips with ffprobe and check subtitle windows")
	return cmd
}
