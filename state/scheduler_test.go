package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) (*Env, chan func(*State) error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	dispatch := make(chan func(*State) error, 16)
	return &Env{
		DispatchChannel: dispatch,
		Context:         ctx,
		Cancel:          func(error) { cancel() },
	}, dispatch
}

func TestDispatch(t *testing.T) {
	env, dispatch := newTestEnv(t)
	s := &State{Env: env}

	var called bool
	done := make(chan struct{})
	go func() {
		f := <-dispatch
		require.NoError(t, f(s))
		close(done)
	}()

	env.Dispatch(func(*State) error {
		called = true
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatched function")
	}
	require.True(t, called)
}

func TestScheduleRunsOnceAfterDelay(t *testing.T) {
	env, dispatch := newTestEnv(t)
	s := &State{Env: env}

	env.Schedule(func(*State) error { return nil }, 20*time.Millisecond)

	select {
	case f := <-dispatch:
		require.NoError(t, f(s))
	case <-time.After(200 * time.Millisecond):
		t.Fatal("scheduled task never dispatched")
	}
}

func TestScheduleCancel(t *testing.T) {
	env, dispatch := newTestEnv(t)

	handle := env.Schedule(func(*State) error { return nil }, 50*time.Millisecond)
	handle.Cancel()

	select {
	case <-dispatch:
		t.Fatal("cancelled task was still dispatched")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRepeatTask(t *testing.T) {
	env, dispatch := newTestEnv(t)
	s := &State{Env: env}

	var wg sync.WaitGroup
	wg.Add(3)
	var count int

	env.RepeatTask(func(*State) error {
		count++
		wg.Done()
		if count >= 3 {
			env.Cancel(nil)
		}
		return nil
	}, 10*time.Millisecond)

loop:
	for {
		select {
		case f := <-dispatch:
			require.NoError(t, f(s))
		case <-env.Context.Done():
			break loop
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for repeat task")
		}
	}
	wg.Wait()
	require.Equal(t, 3, count)
}

func TestDispatchWaitReturnsResult(t *testing.T) {
	env, dispatch := newTestEnv(t)
	s := &State{Env: env}

	go func() {
		f := <-dispatch
		_ = f(s)
	}()

	v, err := env.DispatchWait(func(*State) (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestDispatchWaitUnblocksOnCancel(t *testing.T) {
	env, _ := newTestEnv(t)

	env.Cancel(nil)
	_, err := env.DispatchWait(func(*State) (any, error) {
		return nil, nil
	})
	require.Error(t, err)
}
