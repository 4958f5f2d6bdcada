package pipeline

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func unitNames(n int) []string {
	units := make([]string, n)
	for i := range units {
		units[i] = fmt.Sprintf("u%d.c", i)
	}
	return units
}

func TestPartitionSizesAndCompleteness(t *testing.T) {
	tests := []struct {
		name  string
		n, k  int
		sizes []int
	}{
		{"five over two", 5, 2, []int{2, 3}},
		{"even split", 6, 3, []int{2, 2, 2}},
		{"remainder to last", 10, 4, []int{2, 2, 2, 4}},
		{"empty input", 0, 3, []int{0, 0, 0}},
		{"fewer units than shards", 3, 5, []int{0, 0, 0, 0, 3}},
		{"single shard", 7, 1, []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := unitNames(tt.n)
			shards, err := Partition(units, tt.k)
			if err != nil {
				t.Fatalf("Partition: %v", err)
			}

			sizes := make([]int, len(shards))
			var flat []string
			for i, s := range shards {
				sizes[i] = len(s)
				flat = append(flat, s...)
			}
			if diff := cmp.Diff(tt.sizes, sizes); diff != "" {
				t.Errorf("shard sizes (-want +got):\n%s", diff)
			}
			// Concatenating shards in order must reproduce the input.
			if diff := cmp.Diff(units, flat, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("unit coverage (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartitionContiguousExample(t *testing.T) {
	shards, err := Partition([]string{"u0", "u1", "u2", "u3", "u4"}, 2)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	want := [][]string{{"u0", "u1"}, {"u2", "u3", "u4"}}
	if diff := cmp.Diff(want, shards); diff != "" {
		t.Errorf("shards (-want +got):\n%s", diff)
	}
}

func TestPartitionRejectsNonPositiveShardCount(t *testing.T) {
	for _, k := range []int{0, -1} {
		if _, err := Partition([]string{"a.c"}, k); err == nil {
			t.Errorf("Partition with k=%d: want error, got nil", k)
		}
	}
}
