package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApp_RunDrivesPoolUnderLoadWithoutPanicking(t *testing.T) {
	app, err := New(Options{
		MaxEntries:    4,
		CacheSize:     2,
		MaxMultiplex:  1,
		MaxUsageCount: 3,
		Workers:       4,
		OpsPerSecond:  200,
	})
	require.NoError(t, err)
	require.Equal(t, 4, app.Pool().Size())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = app.Run(ctx)
	require.NoError(t, err)

	app.Pool().Close()
	require.True(t, app.Pool().IsClosed())
}
