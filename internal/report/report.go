package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Report is the merged output of a scan run.
type Report struct {
	Records []Record
}

// Sort orders records by their rendered lines using plain byte-wise string
// comparison, never locale collation, so identical inputs render identical
// bytes on every machine. Stable: equal lines keep their merge order.
func (r *Report) Sort() {
	sort.SliceStable(r.Records, func(i, j int) bool {
		return r.Records[i].Render() < r.Records[j].Render()
	})
}

// WriteTo writes one rendered line per record, newline terminated.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, rec := range r.Records {
		n, err := fmt.Fprintln(w, rec.Render())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String renders the whole report. Mostly for tests and logs.
func (r *Report) String() string {
	var b strings.Builder
	r.WriteTo(&b)
	return b.String()
}
