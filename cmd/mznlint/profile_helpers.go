package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mznlint/internal/prof"
)

var profSession *prof.Session

// startProfiling enables the profilers named by the persistent flags.
func startProfiling(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPUProfile, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.MemProfile, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.RuntimeTrace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	profSession, err = prof.Start(opts)
	return err
}

func stopProfiling(cmd *cobra.Command, _ []string) {
	if err := profSession.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
	}
	profSession = nil
}
