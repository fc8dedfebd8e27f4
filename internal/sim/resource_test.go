package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBody_AppendBytesWeight(t *testing.T) {
	b := AcquireBody()
	b.Reset()

	b.Append([]byte("hello")).Append([]byte(" world"))
	require.Equal(t, "hello world", string(b.Bytes()))
	require.GreaterOrEqual(t, b.Weight(), int64(len("hello world")))

	require.NoError(t, b.Dispose())
	require.Empty(t, b.Bytes())
}

func TestBody_RoundTripsThroughBatchPool(t *testing.T) {
	b1 := AcquireBody()
	b1.Append([]byte("x"))
	require.NoError(t, b1.Dispose())

	b2 := AcquireBody()
	// Dispose resets length but the batch pool may recycle the same
	// backing array; only the logical contents are guaranteed empty.
	require.Empty(t, b2.Bytes())
}
