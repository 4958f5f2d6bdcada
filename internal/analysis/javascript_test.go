package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavaScriptExtractsTopLevelBindings(t *testing.T) {
	src := []byte(`var legacy = 1;
let active = 2;
const frozen = 3;
let a = 1, b = 2;
export let shared = 4;

function run() {
  var inner = 5;
  return inner;
}
`)

	facts, err := NewJavaScriptAnalyzer().Extract(context.Background(), "app.js", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy", "active", "a", "b", "shared"}, facts)
}

func TestTypeScriptExtractsTopLevelBindings(t *testing.T) {
	src := []byte(`let count: number = 0;
const limit: number = 10;
var agent: string;
`)

	facts, err := NewTypeScriptAnalyzer().Extract(context.Background(), "app.ts", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "agent"}, facts)
}
