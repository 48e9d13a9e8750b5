package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"WhaleSentinel/internal/model"
)

// FormatStartup is the banner shown when the scanner starts.
func FormatStartup(mode model.Mode) string {
	label := "🧪 DRY-RUN TEST"
	if mode == model.ModeLive {
		label = "🚀 LIVE TRADING"
	}
	return fmt.Sprintf("🔄 Starting Unusual Whales Alert Scanner...\nMode: %s", label)
}

// FormatHeader introduces a non-empty cycle report.
func FormatHeader(n int) string {
	return fmt.Sprintf("📊 Found %d potential trades:", n)
}

// FormatAlert summarizes one qualifying alert.
func FormatAlert(q model.QualifyingAlert) string {
	return fmt.Sprintf("✅ %s | %s | Strike: %s | Exp: %s | Premium: $%s | DTE: %d | Vol Ratio: %s",
		q.Ticker(), q.Side(), q.Alert.Strike, q.Alert.Expiration,
		number(q.Premium), q.DaysToExpiry, number(q.VolumeRatio))
}

// FormatOutcome renders the simulator's result for an alert.
func FormatOutcome(o model.TradeOutcome) string {
	switch {
	case o.Simulated != nil:
		return FormatSimulated(o.Alert, *o.Simulated)
	case o.Live != nil:
		return FormatLive(o.Alert, *o.Live)
	default:
		return ""
	}
}

func FormatSimulated(q model.QualifyingAlert, t model.SimulatedTrade) string {
	return fmt.Sprintf("💡 Simulated Trade → %s | %s | Strike %s | Exp %s | Entry $%.2f | PnL $%.2f",
		q.Ticker(), q.Side(), q.Alert.Strike, q.Alert.Expiration, t.EntryPrice, t.PnL)
}

func FormatLive(q model.QualifyingAlert, a model.LiveAttempt) string {
	if a.Err != nil {
		return fmt.Sprintf("❌ Live Trade Failed for %s: %v", q.Ticker(), a.Err)
	}
	return fmt.Sprintf("🚀 Live Trade Executed for %s (broker placeholder, ref %s)", q.Ticker(), a.OrderRef)
}

// FormatHeartbeat is reported when a cycle found nothing.
func FormatHeartbeat(now time.Time) string {
	return fmt.Sprintf("[%s] No valid alerts found.", now.Format("15:04:05"))
}

// FormatReport builds the full operator message for one cycle.
func FormatReport(outcomes []model.TradeOutcome, now time.Time) string {
	if len(outcomes) == 0 {
		return FormatHeartbeat(now)
	}
	lines := make([]string, 0, 1+2*len(outcomes))
	lines = append(lines, FormatHeader(len(outcomes)))
	for _, o := range outcomes {
		lines = append(lines, FormatAlert(o.Alert))
		if s := FormatOutcome(o); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// FormatDigest summarizes cumulative scan statistics.
func FormatDigest(s model.ScanStats, mode model.Mode, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Scanner digest | %s\n\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Mode: %s\n", mode)
	fmt.Fprintf(&b, "Cycles: %d (fallback %d)\n", s.Cycles, s.FallbackCycles)
	fmt.Fprintf(&b, "Alerts fetched: %d (skipped %d, malformed %d)\n", s.Fetched, s.Skipped, s.Malformed)
	fmt.Fprintf(&b, "Rejected: %d | Qualifying: %d\n", s.Rejected, s.Qualifying)
	if mode == model.ModeLive {
		fmt.Fprintf(&b, "Live orders: %d (failed %d)\n", s.LiveAttempts, s.LiveFailures)
	} else {
		fmt.Fprintf(&b, "Simulated trades: %d | PnL $%.2f\n", s.Simulated, s.SimulatedPnL)
	}
	if !s.LastCycleAt.IsZero() {
		fmt.Fprintf(&b, "Last cycle: %s", s.LastCycleAt.Format("15:04:05"))
	} else {
		b.WriteString("Last cycle: none yet")
	}
	return b.String()
}

// FormatStatus answers the /status command.
func FormatStatus(state string, mode model.Mode, s model.ScanStats) string {
	var b strings.Builder
	b.WriteString("📦 Scanner status\n\n")
	fmt.Fprintf(&b, "State: %s\n", state)
	fmt.Fprintf(&b, "Mode: %s\n", mode)
	fmt.Fprintf(&b, "Cycles: %d | Qualifying: %d\n", s.Cycles, s.Qualifying)
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Running since: %s", s.StartedAt.Format("2006-01-02 15:04"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
