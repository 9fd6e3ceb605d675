package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"SwingScreener/internal/model"
	"SwingScreener/internal/recorder"
)

const dateLayout = "2006-01-02"

// FormatRunReport formats the top picks of a run into a Telegram message.
func FormatRunReport(run *model.RunReport, n int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Swing screener</b> | %s | %s\n", run.StartedAt.Format(dateLayout), run.Profile))
	b.WriteString(formatBenchmark(run.Benchmark))
	b.WriteString(fmt.Sprintf("Scanned %d | stage 1 %d | analysed %d | candidates %d",
		run.Stats.Total, run.Stats.Stage1Passed, run.Stats.Processed, run.Stats.Candidates))
	if run.Stats.Errors > 0 {
		b.WriteString(fmt.Sprintf(" | errors %d", run.Stats.Errors))
	}
	b.WriteString("\n\n")

	top := run.Top
	if n > 0 && n < len(top) {
		top = top[:n]
	}
	if len(top) == 0 {
		b.WriteString("No candidate passed every filter today.")
		return b.String()
	}
	for i := range top {
		b.WriteString(FormatCandidate(i+1, &top[i]))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatBenchmark(bench model.Benchmark) string {
	if !bench.Return5D.Valid {
		return fmt.Sprintf("%s 5d: n/a\n", bench.Symbol)
	}
	return fmt.Sprintf("%s 5d: %+.2f%%\n", bench.Symbol, bench.Return5D.Value)
}

// FormatCandidate renders one ranked candidate as a short HTML block.
func FormatCandidate(rank int, r *model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%d. %s</b> %s\n", rank, html.EscapeString(r.Symbol), html.EscapeString(r.CompanyName)))
	b.WriteString(fmt.Sprintf("   $%.2f | score %.1f | %s\n", r.CurrentPrice, r.Scores.Total, r.SetupType))
	b.WriteString(fmt.Sprintf("   SL $%.2f (%.1f%%) | TP $%.2f (+%.1f%%) | R:R %s\n",
		r.Risk.StopLoss.Price, r.Risk.StopLoss.LossPercentage,
		r.Risk.TakeProfit.Price, r.Risk.TakeProfit.GainPercentage,
		r.Risk.RiskRewardRatio))
	if r.Timing != nil {
		b.WriteString(fmt.Sprintf("   ~%d days, %.2f%%/day\n", r.Timing.ExpectedDays, r.Timing.GainPerDay))
	}
	if len(r.EntrySignals) > 0 {
		b.WriteString("   " + html.EscapeString(strings.Join(r.EntrySignals, " · ")) + "\n")
	}
	return b.String()
}

// FormatStatus summarises the latest run and whether one is in progress.
func FormatStatus(run *model.RunReport, running bool) string {
	var b strings.Builder
	b.WriteString("📦 <b>Screener status</b>\n\n")
	if running {
		b.WriteString("A screening run is in progress.\n")
	}
	if run == nil {
		b.WriteString("No run recorded yet.")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Last run: %s (%s, %s)\n",
		run.StartedAt.Format("2006-01-02 15:04"), run.Profile, run.Duration().Round(time.Second)))
	b.WriteString(formatBenchmark(run.Benchmark))
	b.WriteString(fmt.Sprintf("Candidates: %d of %d\n", run.Stats.Candidates, run.Stats.Total))

	reasons := make([]string, 0, len(run.Stats.Rejections))
	for r := range run.Stats.Rejections {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		ci, cj := run.Stats.Rejections[reasons[i]], run.Stats.Rejections[reasons[j]]
		if ci != cj {
			return ci > cj
		}
		return reasons[i] < reasons[j]
	})
	if len(reasons) > 5 {
		reasons = reasons[:5]
	}
	if len(reasons) > 0 {
		b.WriteString("Top rejections:\n")
		for _, r := range reasons {
			b.WriteString(fmt.Sprintf("  %s: %d\n", html.EscapeString(r), run.Stats.Rejections[r]))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHistory lists the recent runs in which symbol ranked.
func FormatHistory(symbol string, hist []recorder.Appearance) string {
	if len(hist) == 0 {
		return fmt.Sprintf("%s has not been a candidate in recorded runs.", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s history</b>\n", html.EscapeString(symbol)))
	for _, a := range hist {
		mark := ""
		if a.InTop {
			mark = " ⭐"
		}
		b.WriteString(fmt.Sprintf("%s #%d score %.1f $%.2f %s%s\n",
			a.StartedAt.Format(dateLayout), a.Rank, a.TotalScore, a.Price, a.SetupType, mark))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "<b>Commands</b>\n" +
		"/top - top picks of the last run\n" +
		"/run - start a screening run now\n" +
		"/status - last run summary\n" +
		"/history SYMBOL - past appearances\n" +
		"/help - this message"
}
