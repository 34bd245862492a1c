package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/hwbench/hwbench/results"
)

// WriteCSV renders one row per metric: the raw per-run samples followed by
// the derived statistics. Failed metrics carry their failure marker instead
// of fabricated zeros.
func WriteCSV(out io.Writer, s *results.Suite) error {
	w := csv.NewWriter(out)

	header := []string{"Metric"}
	for i := 1; i <= s.Config.RunCount; i++ {
		header = append(header, fmt.Sprintf("Run %d", i))
	}
	header = append(header, "Mean", "StdDev", "Min", "Max", "P50", "P95", "P99", "CV%")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range s.Metrics {
		row := []string{m.Name}
		if m.Failed() {
			row = append(row, "FAILED: "+m.Failure)
			if err := w.Write(row); err != nil {
				return err
			}
			continue
		}
		for i := 0; i < s.Config.RunCount; i++ {
			if i < len(m.Samples) {
				row = append(row, fmt.Sprintf("%.2f", m.Samples[i]))
			} else {
				row = append(row, "") // run truncated by a recorded failure
			}
		}
		row = append(row,
			fmt.Sprintf("%.2f", m.Stats.Mean),
			fmt.Sprintf("%.2f", m.Stats.StdDev),
			fmt.Sprintf("%.2f", m.Stats.Min),
			fmt.Sprintf("%.2f", m.Stats.Max),
			fmt.Sprintf("%.2f", m.Stats.P50),
			fmt.Sprintf("%.2f", m.Stats.P95),
			fmt.Sprintf("%.2f", m.Stats.P99),
			fmt.Sprintf("%.2f", m.Stats.CVPercent),
		)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
