package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"WhaleSentinel/internal/scheduler"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scanner until interrupted",
	Long: `Scan the alert feed every scan.interval until SIGINT or SIGTERM.

When Telegram is configured, reports are also sent to the chat and the
bot answers /status, /rules and /mode. A digest of cumulative stats is
sent on schedule.digest_cron.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, a.scanner, a.sinks, a.log)
	if err := sched.RegisterDigest(a.cfg.Schedule.DigestCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if a.telegram != nil {
		go a.telegram.StartPolling(ctx, a.scanner.HandleCommand)
		a.log.Info("telegram command polling started")
	}

	a.log.Info("WhaleSentinel is running. Press Ctrl+C to stop.")
	err = a.scanner.Run(ctx)
	a.log.Info("shutdown complete")
	return err
}
