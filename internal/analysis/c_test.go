package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCExtractsMutableGlobals(t *testing.T) {
	src := []byte(`
int shared = 0;
static int internal_state = 1;
extern int imported;
const double EPSILON = 1e-9;
char *buffer;

void reset(void) {
	shared = 0;
}

int *heads[8];
`)

	facts, err := NewCAnalyzer().Extract(context.Background(), "state.c", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "buffer", "heads"}, facts)
}

func TestCPrototypeIsNotAVariable(t *testing.T) {
	src := []byte("int handler(int code);\nint code_count;\n")

	facts, err := NewCAnalyzer().Extract(context.Background(), "proto.h", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"code_count"}, facts)
}
