package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"declscan/internal/report"
)

func TestFileSinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink, err := FileSinks(dir)(3)
	if err != nil {
		t.Fatalf("FileSinks: %v", err)
	}

	recs := []report.Record{
		report.NewRecord("src/alpha.c", []string{"Zeta", "apple"}),
		report.NewRecord("src/bare.c", nil),
	}
	for _, rec := range recs {
		if err := sink.Append(rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := sink.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	got, err := sink.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if diff := cmp.Diff(recs, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	if err := sink.Append(recs[0]); err == nil {
		t.Error("Append after Finalize: want error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("spill files = %d, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "shard-3-") || filepath.Ext(name) != ".jsonl" {
		t.Errorf("spill file name = %q, want shard-3-<uuid>.jsonl", name)
	}
}

func TestFileSinkNamesNeverCollide(t *testing.T) {
	dir := t.TempDir()
	factory := FileSinks(dir)
	for i := 0; i < 2; i++ {
		sink, err := factory(0)
		if err != nil {
			t.Fatalf("factory: %v", err)
		}
		if err := sink.Finalize(); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("two sinks for one shard left %d files, want 2", len(entries))
	}
}

func TestMemorySinkReadBeforeFinalize(t *testing.T) {
	s := &memorySink{}
	if _, err := s.Records(); err == nil {
		t.Error("Records before Finalize: want error")
	}
}

func TestMergePreservesDuplicateLines(t *testing.T) {
	a, b := &memorySink{}, &memorySink{}
	rec := report.NewRecord("dup.c", []string{"x"})
	if err := a.Append(rec); err != nil {
		t.Fatal(err)
	}
	if err := b.Append(rec); err != nil {
		t.Fatal(err)
	}
	a.Finalize()
	b.Finalize()

	rep, err := MergeSinks([]Sink{a, b})
	if err != nil {
		t.Fatalf("MergeSinks: %v", err)
	}
	if got, want := rep.String(), "dup.c x\ndup.c x\n"; got != want {
		t.Errorf("merged report = %q, want %q", got, want)
	}
}
