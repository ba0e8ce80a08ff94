package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoDeliversValue(t *testing.T) {
	job := Go(func() (int, error) { return 42, nil })

	value, err := job.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestGoDeliversError(t *testing.T) {
	wantErr := errors.New("boom")
	job := Go(func() (string, error) { return "", wantErr })

	_, err := job.Wait(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestGoRecoversPanic(t *testing.T) {
	job := Go(func() (int, error) { panic("unexpected") })

	_, err := job.Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job panicked")
}

func TestWaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	job := Go(func() (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := job.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The job itself still runs to completion once released.
	close(release)
	value, err := job.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestDoneCloses(t *testing.T) {
	job := Go(func() (struct{}, error) { return struct{}{}, nil })

	select {
	case <-job.Done():
	case <-time.After(time.Second):
		t.Fatal("Done channel never closed")
	}
}

func TestWaitIsRepeatable(t *testing.T) {
	job := Go(func() (int, error) { return 7, nil })

	for i := 0; i < 3; i++ {
		value, err := job.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, value)
	}
}
