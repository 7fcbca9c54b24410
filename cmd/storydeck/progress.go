package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	progressdto "storydeck/internal/modules/progress/dto"
)

func newProgressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show story progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.ProgressCLI.Progress(cmd.Context())
			if err != nil {
				return err
			}
			printProgress(cmd, p)
			return nil
		},
	}
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <chapter-number>",
		Short: "Mark a chapter complete without playing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ordinal, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("chapter number must be an integer: %w", err)
			}
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.ProgressCLI.Complete(cmd.Context(), ordinal)
			if err != nil {
				return err
			}
			printProgress(cmd, p)
			return nil
		},
	}
}

func newNameCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "name [display name]",
		Short: "Set the name printed on the certificate; no name clears it",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.ProgressCLI.SetName(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if p.UserName == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "display name cleared")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "display name: %s\n", p.UserName)
			return nil
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("reset erases completed chapters, badges and certification; pass --yes to confirm")
			}
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.ProgressCLI.Reset(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "progress reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newCertificateCmd(opts *rootOptions) *cobra.Command {
	var write, copyText bool
	cmd := &cobra.Command{
		Use:   "certificate",
		Short: "Print the completion certificate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			cert, err := app.ProgressCLI.Certificate(cmd.Context(), write)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, cert.Text)
			if cert.Path != "" {
				_, _ = fmt.Fprintf(out, "written to %s\n", cert.Path)
			}
			if copyText {
				if err := clipboard.WriteAll(cert.Text); err != nil {
					return fmt.Errorf("copy certificate: %w", err)
				}
				_, _ = fmt.Fprintln(out, "copied to clipboard")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the certificate as a markdown file")
	cmd.Flags().BoolVar(&copyText, "copy", false, "copy the certificate text to the clipboard")
	return cmd
}

func newGameStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "game-status",
		Short: "Report whether the bonus game is unlocked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			access, err := app.ProgressCLI.GameAccess(cmd.Context())
			if err != nil {
				return err
			}
			if access.Unlocked {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "game unlocked")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "game locked: %d of %d chapters completed (%.0f%%)\n", access.Completed, access.Total, access.Percent)
			return nil
		},
	}
}

func printProgress(cmd *cobra.Command, p progressdto.ProgressOutput) {
	name := p.UserName
	if name == "" {
		name = "(not set)"
	}
	rows := [][]string{
		{"name", name},
		{"progress", fmt.Sprintf("%.0f%%", p.TotalProgress)},
		{"current chapter", strconv.Itoa(p.CurrentChapter)},
		{"completed", joinInts(p.CompletedChapters)},
		{"unlocked", joinInts(p.UnlockedChapters)},
		{"badges", strings.Join(p.Badges, ", ")},
		{"certified", strconv.FormatBool(p.IsCertified)},
		{"game unlocked", strconv.FormatBool(p.GameUnlocked)},
	}
	if p.CertifiedAt != nil {
		rows = append(rows, []string{"certified at", p.CertifiedAt.Format("2006-01-02 15:04 MST")})
	}
	writeTable(cmd.OutOrStdout(), []string{"Field", "Value"}, rows, nil)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
