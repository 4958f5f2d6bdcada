package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRustExtractsStaticMut(t *testing.T) {
	src := []byte(`static mut COUNTER: i32 = 0;
static NAME: &str = "x";
const LIMIT: i32 = 5;

fn main() {
    let local = 1;
    let _ = local;
}

static mut BUFFER: [u8; 4] = [0; 4];
`)

	facts, err := NewRustAnalyzer().Extract(context.Background(), "state.rs", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"COUNTER", "BUFFER"}, facts)
}
