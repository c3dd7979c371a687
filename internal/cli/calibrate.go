package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfstamp/clock"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Print the timestamp counter frequency",
	Long: `Determine the timestamp counter frequency the tsc clock converts with. The
frequency the hardware reports is used unless --force is given, in which case
the counter is timed against the monotonic clock.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		window, _ := cmd.Flags().GetDuration("window")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cal, err := clock.Frequency(clock.CalibrationOptions{
			Force:  force,
			Window: window,
			Log:    newLogger(cmd, verbose),
		})
		if errors.Is(err, clock.ErrUnsupported) {
			return fmt.Errorf("%w; use --clock portable", err)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tsc_freq = %s\n", cal)
		return nil
	},
}

func init() {
	calibrateCmd.Flags().Bool("force", false, "Time the counter even if the hardware reports its frequency")
	calibrateCmd.Flags().Duration("window", clock.DefaultCalibrationWindow, "Calibration busy-wait duration")
}
