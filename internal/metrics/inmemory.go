package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UserQueries             uint64
	UserSearches            uint64
	ApplicationQueries      uint64
	ApplicationSearches     uint64
	QueryDurationCount      uint64
	QueryDurationTotalNs    int64
	UsersUpdated            uint64
	InvitationsIssued       uint64
	InvitationStoreFailures uint64
	InvitationSendFailures  uint64
	TokenCollisions         uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	userQueries             uint64
	userSearches            uint64
	applicationQueries      uint64
	applicationSearches     uint64
	queryDurationCount      uint64
	queryDurationTotalNs    int64
	usersUpdated            uint64
	invitationsIssued       uint64
	invitationStoreFailures uint64
	invitationSendFailures  uint64
	tokenCollisions         uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UserQueries:             atomic.LoadUint64(&m.userQueries),
		UserSearches:            atomic.LoadUint64(&m.userSearches),
		ApplicationQueries:      atomic.LoadUint64(&m.applicationQueries),
		ApplicationSearches:     atomic.LoadUint64(&m.applicationSearches),
		QueryDurationCount:      atomic.LoadUint64(&m.queryDurationCount),
		QueryDurationTotalNs:    atomic.LoadInt64(&m.queryDurationTotalNs),
		UsersUpdated:            atomic.LoadUint64(&m.usersUpdated),
		InvitationsIssued:       atomic.LoadUint64(&m.invitationsIssued),
		InvitationStoreFailures: atomic.LoadUint64(&m.invitationStoreFailures),
		InvitationSendFailures:  atomic.LoadUint64(&m.invitationSendFailures),
		TokenCollisions:         atomic.LoadUint64(&m.tokenCollisions),
	}
}

// IncDirectoryQuery counts a list query, and a search when filtered.
func (m *InMemoryRecorder) IncDirectoryQuery(collection string, filtered bool) {
	switch collection {
	case CollectionUsers:
		atomic.AddUint64(&m.userQueries, 1)
		if filtered {
			atomic.AddUint64(&m.userSearches, 1)
		}
	case CollectionApplications:
		atomic.AddUint64(&m.applicationQueries, 1)
		if filtered {
			atomic.AddUint64(&m.applicationSearches, 1)
		}
	}
}

// ObserveDirectoryQueryDuration records list query duration.
func (m *InMemoryRecorder) ObserveDirectoryQueryDuration(collection string, duration time.Duration) {
	atomic.AddUint64(&m.queryDurationCount, 1)
	atomic.AddInt64(&m.queryDurationTotalNs, duration.Nanoseconds())
}

// IncUserUpdated increments user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncInvitationIssued increments issued invitation counter.
func (m *InMemoryRecorder) IncInvitationIssued() {
	atomic.AddUint64(&m.invitationsIssued, 1)
}

// IncInvitationFailed increments the failure counter for stage.
func (m *InMemoryRecorder) IncInvitationFailed(stage string) {
	switch stage {
	case StageStore:
		atomic.AddUint64(&m.invitationStoreFailures, 1)
	case StageDeliver:
		atomic.AddUint64(&m.invitationSendFailures, 1)
	}
}

// IncInvitationTokenCollision increments token collision counter.
func (m *InMemoryRecorder) IncInvitationTokenCollision() {
	atomic.AddUint64(&m.tokenCollisions, 1)
}
