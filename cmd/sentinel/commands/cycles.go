package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"WhaleSentinel/internal/recorder"
)

// cyclesCmd represents the cycles command
var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Show recent scan cycles from the audit database",
	Long: `Print the newest rows of the scan_cycles audit table.
Requires database.sqlite_path (or SQLITE_PATH).

Example:
  sentinel cycles --limit 20`,
	RunE: runCycles,
}

var cyclesLimit int

func init() {
	rootCmd.AddCommand(cyclesCmd)
	cyclesCmd.Flags().IntVar(&cyclesLimit, "limit", 10, "number of cycles to show")
}

func runCycles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is not configured")
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, nil)
	if err != nil {
		return err
	}
	defer rec.Close()

	rows, err := rec.Recent(cyclesLimit)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Time", "Source", "Mode", "Fetched", "Malformed", "Rejected", "Qualifying", "Duration"})
	for _, r := range rows {
		table.Append([]string{
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Source, r.Mode,
			strconv.Itoa(r.Fetched), strconv.Itoa(r.Malformed),
			strconv.Itoa(r.Rejected), strconv.Itoa(r.Qualifying),
			r.Duration.String(),
		})
	}
	table.Render()
	return nil
}
