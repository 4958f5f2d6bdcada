package pipeline

import (
	"fmt"

	"declscan/internal/report"
)

// MergeSinks concatenates every sink's records and orders them once with the
// report's byte-wise line sort. It runs only after the join barrier, when
// sink ownership has passed from the workers to the merger. Duplicate lines
// survive as-is.
func MergeSinks(sinks []Sink) (*report.Report, error) {
	rep := &report.Report{}
	for i, sink := range sinks {
		records, err := sink.Records()
		if err != nil {
			return nil, fmt.Errorf("read sink %d: %w", i, err)
		}
		rep.Records = append(rep.Records, records...)
	}
	rep.Sort()
	return rep, nil
}
