package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/clipsmith/shortclips/internal/pipeline"
	"github.com/clipsmith/shortclips/internal/types"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Create short clips from a local video file or URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0])
		},
	}
	cmd.Flags().IntP("clips", "n", 3, "Number of clips to generate")
	cmd.Flags().Bool("no-music", false, "Don't add background music")
	cmd.Flags().Bool("no-zoom", false, "Don't add cinematic zoom effects")
	cmd.Flags().String("out", "", "Custom output directory")
	return cmd
}

func runBatch(cmd *cobra.Command, input string) error {
	app, log, err := loadApp(cmd)
	if err != nil {
		return err
	}

	clipsN, _ := cmd.Flags().GetInt("clips")
	noMusic, _ := cmd.Flags().GetBool("no-music")
	noZoom, _ := cmd.Flags().GetBool("no-zoom")
	outDir, _ := cmd.Flags().GetString("out")

	if !pipeline.IsURL(input) {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		input = abs
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Input:    input,
		NumClips: clipsN,
		AddMusic: !noMusic,
		AddZoom:  !noZoom,
		OutDir:   outDir,
		App:      app,
		Logger:   log,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}

	printResult(res)
	if !res.Success {
		return fmt.Errorf("no clips produced (%d errors)", len(res.Errors))
	}
	return nil
}

func printResult(res types.BatchResult) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		b, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(b))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Title", "Hook", "Duration", "Video"})
	for i, c := range res.Clips {
		t.AppendRow(table.Row{i + 1, c.Title, c.TextHook, fmt.Sprintf("%.1fs", c.Duration), c.VideoPath})
	}
	t.Render()

	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e)
	}
}
