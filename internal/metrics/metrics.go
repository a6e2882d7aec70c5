// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Collection names passed to directory query hooks.
const (
	CollectionUsers        = "users"
	CollectionApplications = "applications"
)

// Invitation failure stages.
const (
	StageStore   = "store"
	StageDeliver = "deliver"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Directory query metrics
	IncDirectoryQuery(collection string, filtered bool)
	ObserveDirectoryQueryDuration(collection string, duration time.Duration)

	// User management metrics
	IncUserUpdated()

	// Invitation metrics
	IncInvitationIssued()
	IncInvitationFailed(stage string) // stage: "store" or "deliver"
	IncInvitationTokenCollision()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
