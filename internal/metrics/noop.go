package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncDirectoryQuery is a no-op.
func (n *NoopRecorder) IncDirectoryQuery(collection string, filtered bool) {}

// ObserveDirectoryQueryDuration is a no-op.
func (n *NoopRecorder) ObserveDirectoryQueryDuration(collection string, duration time.Duration) {}

// IncUserUpdated is a no-op.
func (n *NoopRecorder) IncUserUpdated() {}

// IncInvitationIssued is a no-op.
func (n *NoopRecorder) IncInvitationIssued() {}

// IncInvitationFailed is a no-op.
func (n *NoopRecorder) IncInvitationFailed(stage string) {}

// IncInvitationTokenCollision is a no-op.
func (n *NoopRecorder) IncInvitationTokenCollision() {}
