// Package stats scores finished sessions and renders practice history.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/flashmash/internal/model"
)

// SessionMetrics returns accuracy in [0,1] and seconds spent per card.
func SessionMetrics(correct, cards int, durationMs int64) (accuracy, secsPerCard float64) {
	if cards <= 0 {
		return 0, 0
	}
	accuracy = float64(correct) / float64(cards)
	if durationMs > 0 {
		secsPerCard = float64(durationMs) / 1000 / float64(cards)
	}
	return accuracy, secsPerCard
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// History summarizes a set of stored sessions.
type History struct {
	Sessions      int
	Cards         int
	Correct       int
	AvgAccuracy   float64
	BestAccuracy  float64
	AvgSecPerCard float64
	FastestMs     int64
}

// SummarizeHistory aggregates sessions into overview totals.
func SummarizeHistory(sessions []model.SessionAggregate) History {
	h := History{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return h
	}
	var accSum, secSum float64
	for _, s := range sessions {
		acc, spc := SessionMetrics(s.Correct, s.Cards, s.DurationMs)
		h.Cards += s.Cards
		h.Correct += s.Correct
		accSum += acc
		secSum += spc
		if acc > h.BestAccuracy {
			h.BestAccuracy = acc
		}
		if ms := s.FinalInterval.Milliseconds(); ms > 0 && (h.FastestMs == 0 || ms < h.FastestMs) {
			h.FastestMs = ms
		}
	}
	n := float64(len(sessions))
	h.AvgAccuracy = accSum / n
	h.AvgSecPerCard = secSum / n
	return h
}

// RenderHistory prints the overview block for sessions.
func RenderHistory(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	h := SummarizeHistory(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", h.Sessions),
		fmt.Sprintf("Cards answered: %d", h.Cards),
		fmt.Sprintf("Avg Accuracy: %.1f%%", h.AvgAccuracy*100),
		fmt.Sprintf("Best Accuracy: %.1f%%", h.BestAccuracy*100),
		fmt.Sprintf("Avg Time/Card: %.2fs", h.AvgSecPerCard),
		fmt.Sprintf("Fastest Interval: %dms", h.FastestMs),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves plots accuracy and seconds per card across sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int, opts PlotOptions) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	secs := make([]float64, len(sessions))
	intervals := make([]float64, len(sessions))
	for i, s := range sessions {
		acc, spc := SessionMetrics(s.Correct, s.Cards, s.DurationMs)
		accs[i] = acc * 100
		secs[i] = spc
		intervals[i] = s.FinalInterval.Seconds()
	}
	return Plot(w, "Learning Curves", []Series{
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
		{Name: "Sec/Card", Values: MovingAverage(secs, window)},
		{Name: "Interval", Values: MovingAverage(intervals, window)},
	}, opts)
}

type cardRow struct {
	prompt   string
	acc      float64
	interval float64
	correct  int
	wrong    int
}

// RenderCardTable prints per-card aggregates, weakest first.
func RenderCardTable(w io.Writer, aggs []model.CardAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No card stats found.")
		return err
	}
	rows := make([]cardRow, 0, len(aggs))
	for _, agg := range aggs {
		r := cardRow{prompt: agg.Prompt, acc: cardAccuracy(agg), correct: agg.Correct, wrong: agg.Incorrect}
		if total := agg.Correct + agg.Incorrect; total > 0 {
			r.interval = float64(agg.IntervalSumMs) / float64(total)
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].prompt < rows[j].prompt
		}
		return rows[i].acc < rows[j].acc
	})

	if _, err := fmt.Fprintln(w, "Per-Card (Windowed)"); err != nil {
		return err
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.prompt,
			fmt.Sprintf("%.1f%%", r.acc*100),
			fmt.Sprintf("%.0f", r.interval),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.wrong),
		})
	}
	headers := []string{"Card", "Accuracy", "Avg Interval (ms)", "Correct", "Incorrect"}
	for _, line := range formatTable(headers, table, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCardCurves plots accuracy per session for each selected card.
func RenderCardCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.CardAggregate, prompts []string, window int, opts PlotOptions) error {
	if len(prompts) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Card Curves"); err != nil {
		return err
	}
	for _, prompt := range prompts {
		acc := make([]float64, 0, len(sessions))
		for _, s := range sessions {
			agg, ok := perSession[s.SessionID][prompt]
			if !ok {
				continue
			}
			acc = append(acc, cardAccuracy(agg)*100)
		}
		if err := Plot(w, "Card "+prompt, []Series{
			{Name: "Accuracy", Values: MovingAverage(acc, window)},
		}, opts); err != nil {
			return err
		}
	}
	return nil
}
