package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Executor runs one deployment attempt to completion.
type Executor interface {
	Run(ctx context.Context, target string) Outcome
}

// Notifier receives the outcome of a finished deployment attempt.
type Notifier interface {
	DeploymentFinished(outcome Outcome, deliveryID string)
}

// Dispatcher launches deployment tasks detached from the HTTP request
// path. The triggering webhook delivery enforces a timeout on the order
// of ten seconds while a playbook can run for many minutes, so Dispatch
// returns immediately and the outcome travels only via the notifier.
type Dispatcher struct {
	executor Executor
	notifier Notifier
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(executor Executor, notifier Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		executor: executor,
		notifier: notifier,
		logger:   logger,
	}
}

// Dispatch starts a deployment task for the target and returns without
// waiting for it.
func (d *Dispatcher) Dispatch(target, deliveryID string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(target, deliveryID)
	}()
}

// Wait blocks until all in-flight deployment tasks have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// run executes one deployment attempt and notifies exactly once. A panic
// anywhere in the task is converted into an error outcome and routed to
// the notifier instead of crashing the process.
func (d *Dispatcher) run(target, deliveryID string) {
	logger := d.logger.With("target", target, "delivery_id", deliveryID)

	notified := false
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		logger.Error("deployment task panicked", "panic", v)
		if notified {
			return
		}
		d.notifier.DeploymentFinished(Outcome{
			Target: target,
			Status: StatusError,
			Detail: fmt.Sprintf("deployment task panicked: %v", v),
		}, deliveryID)
	}()

	logger.Info("deployment task started")
	outcome := d.executor.Run(context.Background(), target)

	notified = true
	d.notifier.DeploymentFinished(outcome, deliveryID)
	logger.Info("deployment task finished", "status", outcome.Status)
}
