package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"SwingScreener/internal/model"
	"SwingScreener/internal/recorder"
)

func metricString(m model.Metric, format string) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf(format, m.Value)
}

// shortSetup abbreviates setup names to keep the table narrow.
func shortSetup(s model.SetupType) string {
	r := strings.NewReplacer("Momentum ", "Mom.", "Breakout ", "Brk.", "Anticipation", "Ant")
	return r.Replace(string(s))
}

func printRun(w io.Writer, run *model.RunReport) {
	st := run.Stats
	fmt.Fprintf(w, "Profile %s | %s 5d %s | %s\n",
		run.Profile, run.Benchmark.Symbol, metricString(run.Benchmark.Return5D, "%+.2f%%"), run.Duration().Round(time.Second))
	fmt.Fprintf(w, "Total %d | stage 1 %d | analysed %d | candidates %d | errors %d\n\n",
		st.Total, st.Stage1Passed, st.Processed, st.Candidates, st.Errors)

	if len(run.Top) == 0 {
		fmt.Fprintln(w, "No candidates.")
	} else {
		printResultsTable(w, run.Top)
	}

	if len(st.Rejections) > 0 {
		reasons := make([]string, 0, len(st.Rejections))
		for r := range st.Rejections {
			reasons = append(reasons, r)
		}
		sort.Slice(reasons, func(i, j int) bool {
			if st.Rejections[reasons[i]] != st.Rejections[reasons[j]] {
				return st.Rejections[reasons[i]] > st.Rejections[reasons[j]]
			}
			return reasons[i] < reasons[j]
		})
		fmt.Fprintln(w, "\nRejections:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, r := range reasons {
			fmt.Fprintf(tw, "  %s\t%d\n", r, st.Rejections[r])
		}
		tw.Flush()
	}
}

func printResultsTable(w io.Writer, results []model.AnalysisResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tSYMBOL\tPRICE\tSCORE\tR:R\tREL.STR\tSETUP\t")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.1f\t%s\t%s\t%s\t\n",
			i+1, r.Symbol, r.CurrentPrice, r.Scores.Total, r.Risk.RiskRewardRatio,
			metricString(r.Technical.RelativeStrength, "%+.1f"), shortSetup(r.SetupType))
	}
	tw.Flush()
}

func printIndicators(w io.Writer, series *model.PriceSeries, ind *model.IndicatorSet, bench model.Benchmark) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Bars\t%d\n", series.Len())
	fmt.Fprintf(tw, "Price\t%.2f\n", ind.Price)
	fmt.Fprintf(tw, "RSI(14)\t%s\n", metricString(ind.RSI, "%.1f"))
	fmt.Fprintf(tw, "ATR(20)\t%s (%s)\n", metricString(ind.ATR, "%.2f"), metricString(ind.ATRPct, "%.1f%%"))
	fmt.Fprintf(tw, "MA21 / MA50\t%s / %s\n", metricString(ind.MA21, "%.2f"), metricString(ind.MA50, "%.2f"))
	fmt.Fprintf(tw, "20-bar high\t%s\n", metricString(ind.High20, "%.2f"))
	fmt.Fprintf(tw, "Pullback\t%s\n", metricString(ind.PullbackPct, "%.1f%%"))
	fmt.Fprintf(tw, "Volume ratio 5/50\t%.2f\n", ind.VolumeRatio)
	fmt.Fprintf(tw, "Support\t%.2f (%s)\n", ind.Support.Price, ind.Support.Source)
	fmt.Fprintf(tw, "Resistance\t%.2f (%s)\n", ind.Resistance.Price, ind.Resistance.Source)
	fmt.Fprintf(tw, "RS vs %s\t%s\n", bench.Symbol, metricString(ind.RelativeStrength, "%+.1f"))
	tw.Flush()
}

func printAnalysis(w io.Writer, r *model.AnalysisResult) {
	if r.Scores.Total == 0 && !r.PassesAllFilters {
		fmt.Fprintf(w, "Decision: REJECT (%s)\n", r.RejectReason)
		return
	}
	s := r.Scores
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Setup\t%s\n", r.SetupType)
	fmt.Fprintf(tw, "Scores\tmomentum %.0f, rs %.0f, volume %.0f, setup %.0f, proximity %.0f, accel %.0f, quality %.1f, profit %.1f\n",
		s.Momentum, s.RelativeStrength, s.Volume, s.Setup, s.Proximity, s.Acceleration, s.Quality, s.ProfitPotential)
	fmt.Fprintf(tw, "Total\t%.1f\n", s.Total)
	fmt.Fprintf(tw, "Stop loss\t%.2f (%.1f%%, %s)\n", r.Risk.StopLoss.Price, r.Risk.StopLoss.LossPercentage, r.Risk.StopLoss.Method)
	fmt.Fprintf(tw, "Take profit\t%.2f (+%.1f%%, %s)\n", r.Risk.TakeProfit.Price, r.Risk.TakeProfit.GainPercentage, r.Risk.TakeProfit.Method)
	fmt.Fprintf(tw, "Risk/reward\t%s\n", r.Risk.RiskRewardRatio)
	if r.Timing != nil {
		fmt.Fprintf(tw, "Timing\t~%d days, %.2f%%/day\n", r.Timing.ExpectedDays, r.Timing.GainPerDay)
	}
	if len(r.EntrySignals) > 0 {
		fmt.Fprintf(tw, "Signals\t%s\n", strings.Join(r.EntrySignals, "; "))
	}
	tw.Flush()

	if r.PassesAllFilters {
		fmt.Fprintln(w, "Decision: ACCEPT")
	} else {
		fmt.Fprintf(w, "Decision: REJECT (%s)\n", r.RejectReason)
	}
}

func printHistory(w io.Writer, hist []recorder.Appearance) {
	fmt.Fprintln(w, "Recent appearances:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, h := range hist {
		fmt.Fprintf(tw, "  %s\t#%d\t%.1f\t%s\n", h.StartedAt.Format("2006-01-02"), h.Rank, h.TotalScore, h.SetupType)
	}
	tw.Flush()
}
