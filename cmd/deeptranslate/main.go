package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/deeptranslate/internal/cli"
	"codeberg.org/snonux/deeptranslate/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.LoadDotEnv()
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc, err := processor.NewProcessor(flags)
	if err != nil {
		return err
	}
	defer proc.Close()

	switch {
	case flags.ArchiveHistory:
		return proc.ArchiveHistory()
	case flags.History > 0:
		return proc.ShowHistory(ctx, flags.History)
	case flags.ListModels:
		return proc.ListModels(ctx)
	case flags.Headless():
		return runHeadless(ctx, proc)
	default:
		// No input provided - launch GUI mode by default
		return proc.RunGUIMode()
	}
}

func runHeadless(ctx context.Context, proc *processor.Processor) error {
	if err := proc.ProcessSingle(ctx); err != nil {
		log.WithError(err).Error("translation failed")
		return err
	}
	return nil
}
