package ec

import (
	"context"

	"github.com/axb35/ecfand/internal/ui"
)

const requestBacklog = 64

type response struct {
	result Result
	err    error
}

type request struct {
	op    Operation
	reply chan response
}

// CommandQueue serializes all hardware access. A single worker owns the
// Controller and executes submitted operations strictly in arrival order,
// one at a time. This is what keeps two handshakes from ever overlapping
// on the EC ports.
type CommandQueue struct {
	controller *Controller
	requests   chan request
	done       chan struct{}
}

func NewCommandQueue(controller *Controller) *CommandQueue {
	return &CommandQueue{
		controller: controller,
		requests:   make(chan request, requestBacklog),
		done:       make(chan struct{}),
	}
}

// Submit hands an operation to the worker and blocks until its reply
// arrives. It fails immediately with ErrQueueUnavailable when the worker is
// not running, and with ErrCommunicationTimeout when the worker goes away
// without answering.
func (q *CommandQueue) Submit(op Operation) (Result, error) {
	reply := make(chan response, 1)

	select {
	case <-q.done:
		return Result{}, ErrQueueUnavailable
	case q.requests <- request{op: op, reply: reply}:
	}

	select {
	case resp := <-reply:
		return resp.result, resp.err
	case <-q.done:
		// the worker may have answered just before shutting down
		select {
		case resp := <-reply:
			return resp.result, resp.err
		default:
			return Result{}, ErrCommunicationTimeout
		}
	}
}

// Run processes requests until the context is cancelled. Every dequeued
// request produces exactly one reply; an operation in flight is finished
// before shutdown.
func (q *CommandQueue) Run(ctx context.Context) error {
	defer close(q.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-q.requests:
			result, err := q.controller.Execute(req.op)
			if err != nil {
				ui.Warning("EC operation failed: %v", err)
			} else {
				ui.Debug("EC operation completed successfully")
			}
			req.reply <- response{result: result, err: err}
		}
	}
}
