package automation

import (
	"context"
	"time"
)

// MutationAction names the kind of change a MutationEvent reports.
type MutationAction string

// Mutation actions.
const (
	ActionCreated    MutationAction = "created"
	ActionUpdated    MutationAction = "updated"
	ActionDeleted    MutationAction = "deleted"
	ActionPublished  MutationAction = "published"
	ActionStarted    MutationAction = "started"
	ActionStopped    MutationAction = "stopped"
	ActionSuspended  MutationAction = "suspended"
	ActionResumed    MutationAction = "resumed"
	ActionRegistered MutationAction = "registered"
)

// MutationEvent describes one successful remote mutation.
type MutationEvent struct {
	Kind          ResourceKind   `json:"kind"`
	Action        MutationAction `json:"action"`
	ResourceGroup string         `json:"resource_group"`
	Account       string         `json:"account,omitempty"`
	Name          string         `json:"name"`
	RequestID     string         `json:"request_id,omitempty"`
	Time          time.Time      `json:"time"`
}

// EventPublisher receives mutation events. Publishing happens after the
// mutation succeeded; a publish error never fails the operation.
type EventPublisher interface {
	Publish(ctx context.Context, event MutationEvent) error
}
