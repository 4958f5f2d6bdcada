package pipeline

import (
	"testing"

	"go.uber.org/goleak"
)

// Workers must never outlive the join barrier.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
