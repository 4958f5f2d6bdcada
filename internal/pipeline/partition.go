// Package pipeline runs a scan end to end: contiguous partitioning, isolated
// workers appending to private sinks, a full join barrier, then a single
// deterministic merge.
package pipeline

import "fmt"

// Partition splits units into exactly k contiguous shards, preserving input
// order. The first k-1 shards hold floor(len(units)/k) units each; the last
// takes the remainder. Shards alias the input slice, which the pipeline
// treats as immutable once partitioned. Fewer units than shards leaves the
// leading shards empty and the tail shard with everything.
func Partition(units []string, k int) ([][]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("partition: shard count must be positive, got %d", k)
	}
	shards := make([][]string, k)
	size := len(units) / k
	for i := 0; i < k; i++ {
		begin := i * size
		end := begin + size
		if i == k-1 {
			end = len(units)
		}
		shards[i] = units[begin:end]
	}
	return shards, nil
}
