package upstream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, defaultHost, cfg.Host)
	assert.Equal(t, 1, cfg.MaxProcs)
	assert.Equal(t, defaultStartupTimeout, cfg.StartupTimeout)
	assert.Equal(t, defaultStopTimeout, cfg.StopTimeout)
}

func TestConfig_WithDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Host:           "0.0.0.0",
		MaxProcs:       4,
		StartupTimeout: time.Second,
		StopTimeout:    time.Second,
	}.withDefaults()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 4, cfg.MaxProcs)
	assert.Equal(t, time.Second, cfg.StartupTimeout)
	assert.Equal(t, time.Second, cfg.StopTimeout)
}

func TestNewPool_RequiresCommand(t *testing.T) {
	_, err := NewPool(Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewPool_RejectsFixedPortWithMultipleProcs(t *testing.T) {
	_, err := NewPool(Config{
		Command:  "some-app",
		Port:     8081,
		MaxProcs: 2,
	}, zap.NewNop())
	assert.Error(t, err)
}

func TestFreePort(t *testing.T) {
	port, err := freePort("127.0.0.1")
	assert.NoError(t, err)
	assert.Greater(t, port, 0)
}

func TestPool_Warm_StartsMinProcs(t *testing.T) {
	cfg := echoServerConfig(t)
	cfg.MinProcs = 1
	cfg.MaxProcs = 2

	pool, err := NewPool(cfg, zap.NewNop())
	require.NoError(t, err)
	defer pool.Shutdown(context.Background())

	require.NoError(t, pool.Warm(context.Background()))
	assert.EqualValues(t, 1, pool.pool.Stat().TotalResources())
}

func TestPool_Acquire_ReplacesDeadProcess(t *testing.T) {
	pool, err := NewPool(echoServerConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer pool.Shutdown(context.Background())

	res, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	first := res.Value()
	firstPid := first.cmd.Process.Pid
	res.Release()

	// kill the idle process behind the pool's back and reap it
	require.NoError(t, first.cmd.Process.Kill())
	first.cmd.Wait()

	res, err = pool.Acquire(context.Background())
	require.NoError(t, err)
	defer res.Release()

	second := res.Value()
	assert.NotEqual(t, firstPid, second.cmd.Process.Pid)
	assert.True(t, second.Alive())
}
