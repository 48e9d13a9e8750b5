package commands

import (
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan cycle and exit",
	Long: `Fetch, filter and report once, without waiting for the next interval.

Example:
  sentinel scan
  sentinel scan --config configs/config.yaml`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	rep := a.scanner.RunCycle(cmd.Context())
	if rep.Batch.Err != nil {
		a.log.WithError(rep.Batch.Err).Warn("report built from fallback dataset")
	}
	return nil
}
