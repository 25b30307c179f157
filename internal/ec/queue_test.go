package ec

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func startQueue(t *testing.T, controller *Controller) (*CommandQueue, context.CancelFunc) {
	t.Helper()
	queue := NewCommandQueue(controller)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = queue.Run(ctx)
	}()
	return queue, cancel
}

func TestQueueDeliversOneReplyPerRequest(t *testing.T) {
	// GIVEN
	fake := newFakeEC()
	queue, cancel := startQueue(t, NewController(fake))
	defer cancel()

	// WHEN: many concurrent callers submit their own operation
	const callers = 32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			level := i % (MaxLevel + 1)
			result, err := queue.Submit(SetFanLevel(1, level))

			// THEN: every caller gets the reply to its own request
			assert.NoError(t, err)
			assert.Equal(t, level, result.Level)
		}(i)
	}
	wg.Wait()

	// THEN: no two handshakes ever overlapped on the ports
	assert.False(t, fake.wasInterleaved())
}

func TestQueueExecutesInSubmissionOrder(t *testing.T) {
	// GIVEN
	fake := newFakeEC()
	queue, cancel := startQueue(t, NewController(fake))
	defer cancel()

	// WHEN: one caller submits a deterministic sequence
	levels := []int{1, 3, 5, 2, 0, 4}
	for _, level := range levels {
		_, err := queue.Submit(SetFanLevel(2, level))
		assert.NoError(t, err)
	}

	// THEN: the register writes happened in exactly that order
	base, _ := fanBase(2)
	writes := fake.registerWrites()
	assert.Len(t, writes, len(levels))
	for i, level := range levels {
		assert.Equal(t, regFan2Mode+1, writes[i].register)
		assert.Equal(t, base+encodeLevel(level), writes[i].value)
	}
}

func TestQueuePropagatesOperationErrors(t *testing.T) {
	fake := newFakeEC()
	queue, cancel := startQueue(t, NewController(fake))
	defer cancel()

	_, err := queue.Submit(SetFanLevel(4, 1))

	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSubmitFailsFastWhenWorkerIsGone(t *testing.T) {
	// GIVEN: a queue whose worker has already shut down
	queue, cancel := startQueue(t, NewController(newFakeEC()))
	cancel()
	<-queue.done

	// WHEN
	_, err := queue.Submit(GetApuTemperature())

	// THEN
	assert.True(t, errors.Is(err, ErrQueueUnavailable))
}
