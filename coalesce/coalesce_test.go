package coalesce

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSharesSingleExecution(t *testing.T) {
	var group Group[int]
	var executions atomic.Int32

	release := make(chan struct{})
	started := make(chan struct{})

	var waitGroup sync.WaitGroup
	results := make([]int, 10)
	go func() {
		_, _ = group.Do("key", func() (int, error) {
			close(started)
			<-release
			executions.Add(1)
			return 42, nil
		})
	}()
	<-started

	for i := range results {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			res, err := group.Do("key", func() (int, error) {
				executions.Add(1)
				return 42, nil
			})
			require.NoError(t, err)
			results[i] = res
		}()
	}

	close(release)
	waitGroup.Wait()

	assert.EqualValues(t, 1, executions.Load(), "only one execution per key while in flight")
	for _, res := range results {
		assert.Equal(t, 42, res)
	}
}

func TestDoSharesError(t *testing.T) {
	var group Group[string]
	wantErr := errors.New("boom")
	res, err := group.Do("key", func() (string, error) {
		return "", wantErr
	})
	assert.Empty(t, res)
	assert.ErrorIs(t, err, wantErr)
}

func TestDoForgetsSettledKeys(t *testing.T) {
	var group Group[int]
	var executions int
	for range 3 {
		res, err := group.Do("key", func() (int, error) {
			executions++
			return executions, nil
		})
		require.NoError(t, err)
		assert.Equal(t, executions, res)
	}
	assert.Equal(t, 3, executions, "sequential calls execute every time")
}

func TestDoIndependentKeys(t *testing.T) {
	var group Group[string]
	a, err := group.Do("a", func() (string, error) { return "a", nil })
	require.NoError(t, err)
	b, err := group.Do("b", func() (string, error) { return "b", nil })
	require.NoError(t, err)
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)
}
