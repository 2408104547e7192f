package main

import (
	"fmt"
	"os"

	"github.com/olivier-w/wavloop/internal/cli"
	"github.com/olivier-w/wavloop/internal/desktop"
	"github.com/olivier-w/wavloop/internal/overlay"
	"github.com/olivier-w/wavloop/internal/player"
	"github.com/spf13/cobra"
)

var opts cli.Options

var rootCmd = &cobra.Command{
	Use:           "wavloop-gui <file>",
	Short:         "Loop a region of an audio file in a desktop window",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	opts.Bind(rootCmd.Flags())
}

func run(cmd *cobra.Command, args []string) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	logs, err := opts.SetupLogging()
	if err != nil {
		return err
	}
	defer logs.Close()

	path := args[0]
	if err := cli.CheckPath(path); err != nil {
		return err
	}
	buf, err := player.Load(path, nil)
	if err != nil {
		return err
	}
	p, err := player.New(buf)
	if err != nil {
		return fmt.Errorf("error creating player: %w", err)
	}
	defer p.Close()
	p.SetVolume(opts.Volume)

	cfg := opts.OverlayConfig()
	cfg.Width = desktop.WindowW
	o, err := overlay.New(buf, p, cfg)
	if err != nil {
		return err
	}
	return desktop.Run(desktop.New(o, p, player.ReadMetadata(path).Title))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
