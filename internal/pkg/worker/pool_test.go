package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kennelbook.io/kennelbook/internal/pkg/logger"
)

func init() {
	_ = logger.Init("error", "json")
}

func TestNewPools(t *testing.T) {
	pools, err := NewPools(context.Background(), DefaultPoolConfig())
	require.NoError(t, err)
	defer pools.Shutdown()

	require.NotNil(t, pools.General)
	require.NotNil(t, pools.Export)
}

func TestPool_Submit(t *testing.T) {
	pools, err := NewPools(context.Background(), PoolConfig{GeneralPoolSize: 10, ExportPoolSize: 5})
	require.NoError(t, err)
	defer pools.Shutdown()

	var executed atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)

	err = pools.General.Submit(context.Background(), func(ctx context.Context) {
		executed.Store(true)
		wg.Done()
	})
	require.NoError(t, err)

	wg.Wait()
	require.True(t, executed.Load())
}

func TestPool_SubmitCancelledContext(t *testing.T) {
	pools, err := NewPools(context.Background(), PoolConfig{GeneralPoolSize: 2, ExportPoolSize: 2})
	require.NoError(t, err)
	defer pools.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = pools.General.Submit(ctx, func(ctx context.Context) {
		t.Error("task must not run with a cancelled context")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPools_SubmitDetached(t *testing.T) {
	pools, err := NewPools(context.Background(), PoolConfig{GeneralPoolSize: 2, ExportPoolSize: 2})
	require.NoError(t, err)
	defer pools.Shutdown()

	done := make(chan struct{})
	err = pools.SubmitDetached("export", func(ctx context.Context) {
		close(done)
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("detached task did not run")
	}
}

func TestPools_Metrics(t *testing.T) {
	pools, err := NewPools(context.Background(), PoolConfig{GeneralPoolSize: 3, ExportPoolSize: 4})
	require.NoError(t, err)
	defer pools.Shutdown()

	m := pools.Metrics()
	general := m["general"].(map[string]int)
	export := m["export"].(map[string]int)
	require.Equal(t, 3, general["cap"])
	require.Equal(t, 4, export["cap"])
}
