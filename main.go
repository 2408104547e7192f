package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavloop/internal/cli"
	"github.com/olivier-w/wavloop/internal/media"
	"github.com/spf13/cobra"
)

var opts cli.Options

var rootCmd = &cobra.Command{
	Use:   "wavloop <file>",
	Short: "Loop a region of an audio file from the terminal",
	Long: `wavloop draws the waveform of an audio file and plays it in a loop.

Left click sets the loop start, right click sets the loop end. Playback
can run forwards or backwards inside the region.

Supported formats: ` + media.SupportedExtsList(),
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

	program := tea.NewProgram(newStartupModel(args[0], opts, openAsset), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := program.Run()
	if err != nil {
		return err
	}
	if startup, ok := final.(startupModel); ok && startup.Err() != nil {
		return startup.Err()
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
