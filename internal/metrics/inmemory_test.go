package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Directory(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncDirectoryQuery(CollectionUsers, false)
	m.IncDirectoryQuery(CollectionUsers, true)
	m.IncDirectoryQuery(CollectionApplications, true)
	m.IncDirectoryQuery("unknown", true)
	m.ObserveDirectoryQueryDuration(CollectionUsers, 2*time.Millisecond)
	m.ObserveDirectoryQueryDuration(CollectionApplications, 3*time.Millisecond)

	s := m.Snapshot()
	if s.UserQueries != 2 || s.UserSearches != 1 {
		t.Errorf("user queries = %d/%d, want 2/1", s.UserQueries, s.UserSearches)
	}
	if s.ApplicationQueries != 1 || s.ApplicationSearches != 1 {
		t.Errorf("application queries = %d/%d, want 1/1", s.ApplicationQueries, s.ApplicationSearches)
	}
	if s.QueryDurationCount != 2 || s.QueryDurationTotalNs != int64(5*time.Millisecond) {
		t.Errorf("duration = %d/%d", s.QueryDurationCount, s.QueryDurationTotalNs)
	}
}

func TestInMemoryRecorder_Invitations(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncInvitationIssued()
			m.IncInvitationFailed(StageDeliver)
		}()
	}
	wg.Wait()
	m.IncInvitationFailed(StageStore)
	m.IncInvitationTokenCollision()
	m.IncUserUpdated()

	s := m.Snapshot()
	if s.InvitationsIssued != 50 || s.InvitationSendFailures != 50 {
		t.Errorf("issued/sendFailures = %d/%d, want 50/50", s.InvitationsIssued, s.InvitationSendFailures)
	}
	if s.InvitationStoreFailures != 1 || s.TokenCollisions != 1 || s.UsersUpdated != 1 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NewNoop()
	r.IncDirectoryQuery(CollectionUsers, true)
	r.ObserveDirectoryQueryDuration(CollectionUsers, time.Second)
	r.IncUserUpdated()
	r.IncInvitationIssued()
	r.IncInvitationFailed(StageStore)
	r.IncInvitationTokenCollision()
}
