package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfstamp/internal/diag"
	"github.com/wesleyorama2/perfstamp/internal/output"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "perfstamp",
	Short:   "Precise cycle and hardware counter measurement of buffer workloads",
	Version: version,
	Long: `perfstamp times buffer fill, copy and count workloads with the processor
timestamp counter and attributes hardware performance counter deltas
(instructions, uncore and memory controller traffic, L2 evictions) to each
trial, reading counters from user space where the kernel allows it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// newLogger builds the diagnostic logger from the persistent flags. It
// always writes to stderr so stdout carries only results.
func newLogger(cmd *cobra.Command, verbose bool) *diag.Logger {
	noColor, _ := cmd.Flags().GetBool("no-color")
	w := cmd.ErrOrStderr()
	return diag.New(w, verbose, !output.ColorEnabled(w, noColor))
}

func init() {
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Add subcommands to root command
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(eventsCmd)
	RootCmd.AddCommand(calibrateCmd)
	RootCmd.AddCommand(algosCmd)
}
