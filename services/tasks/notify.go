package tasks

import (
	"encoding/json"
	"fmt"

	"neira/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendPush   = "notify:push"
	TypeSendInvite = "invite:send"
)

func NewPushTask(payload models.PushPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendPush, b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}

func NewInviteTask(payload models.InvitePayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendInvite, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}

	return task, opts, nil
}

// Dispatcher enqueues notification tasks onto the async queue.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(redisOpt asynq.RedisClientOpt) *Dispatcher {
	return &Dispatcher{client: asynq.NewClient(redisOpt)}
}

// DispatchPush queues a push notification for delivery.
func (d *Dispatcher) DispatchPush(payload models.PushPayload) error {
	task, opts, err := NewPushTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build push task: %w", err)
	}
	if _, err := d.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue push task: %w", err)
	}
	return nil
}

// DispatchInvite queues an invitation for delivery.
func (d *Dispatcher) DispatchInvite(payload models.InvitePayload) error {
	task, opts, err := NewInviteTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build invite task: %w", err)
	}
	if _, err := d.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue invite task: %w", err)
	}
	return nil
}

// Close releases the underlying queue connection.
func (d *Dispatcher) Close() error {
	return d.client.Close()
}
