package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/hwbench/hwbench/results"
	"github.com/hwbench/hwbench/stats"
	"github.com/hwbench/hwbench/sysinfo"
)

type jsonMetadata struct {
	Timestamp string `json:"timestamp"`
	Hostname  string `json:"hostname"`
}

type jsonMetric struct {
	Runs       []float64         `json:"runs"`
	Statistics *stats.Statistics `json:"statistics"`
	Degraded   bool              `json:"degraded,omitempty"`
	FailedRuns int               `json:"failed_runs,omitempty"`
	Failure    string            `json:"failure,omitempty"`
}

type jsonDocument struct {
	Metadata         jsonMetadata                     `json:"metadata"`
	SystemInfo       sysinfo.Info                     `json:"system_info"`
	Configuration    results.RunConfig                `json:"configuration"`
	Results          map[string]map[string]jsonMetric `json:"results"`
	DiskChunkLatency map[string]map[string]float64    `json:"disk_chunk_latency_ms,omitempty"`
}

// WriteJSON renders the machine-readable report: metadata, system info,
// configuration echo, and every metric keyed by category then name with its
// raw runs and statistics. A failed metric has null statistics.
func WriteJSON(out io.Writer, s *results.Suite) error {
	doc := jsonDocument{
		Metadata: jsonMetadata{
			Timestamp: s.Timestamp.Format(time.RFC3339),
			Hostname:  s.System.Hostname,
		},
		SystemInfo:       s.System,
		Configuration:    s.Config,
		Results:          make(map[string]map[string]jsonMetric),
		DiskChunkLatency: s.DiskChunkLatency,
	}

	for _, m := range s.Metrics {
		category := doc.Results[m.Category]
		if category == nil {
			category = make(map[string]jsonMetric)
			doc.Results[m.Category] = category
		}
		jm := jsonMetric{
			Runs:       m.Samples,
			Degraded:   m.Degraded,
			FailedRuns: m.FailedRuns,
			Failure:    m.Failure,
		}
		if !m.Failed() {
			st := m.Stats
			jm.Statistics = &st
		}
		category[m.Name] = jm
	}

	enc, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return err
	}
	_, err = out.Write(append(enc, '\n'))
	return err
}
