package service

import (
	"testing"
	"time"
)

func TestRegistryPutGetDelete(t *testing.T) {
	r := NewSessionRegistry(time.Hour)
	defer r.Close()

	session := NewChatSession("user-1", nil)
	r.Put(session)

	got, ok := r.Get(session.ID)
	if !ok {
		t.Fatal("Expected session to be found")
	}
	if got.ID != session.ID {
		t.Errorf("Got session %s, want %s", got.ID, session.ID)
	}

	if !r.Delete(session.ID) {
		t.Error("Expected delete to report success")
	}
	if _, ok := r.Get(session.ID); ok {
		t.Error("Expected session to be gone after delete")
	}
	if r.Delete(session.ID) {
		t.Error("Second delete should report false")
	}
}

func TestRegistrySweepEvictsIdleSessions(t *testing.T) {
	r := NewSessionRegistry(30 * time.Minute)
	defer r.Close()

	fresh := NewChatSession("fresh", nil)
	r.Put(fresh)

	stale := NewChatSession("stale", nil)
	stale.lastActivity.Store(time.Now().Add(-time.Hour).UnixNano())
	r.Put(stale)

	evicted := r.Sweep(time.Now())
	if evicted != 1 {
		t.Errorf("Sweep evicted %d sessions, want 1", evicted)
	}
	if _, ok := r.Get(stale.ID); ok {
		t.Error("Stale session should have been evicted")
	}
	if _, ok := r.Get(fresh.ID); !ok {
		t.Error("Fresh session should survive the sweep")
	}
}

// Exercises the sweeper reading activity timestamps while sessions process
// turns; meaningful under -race
func TestSweepConcurrentWithActivity(t *testing.T) {
	r := NewSessionRegistry(30 * time.Minute)
	defer r.Close()

	session := NewChatSession("busy", nil)
	r.Put(session)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			session.Touch()
			session.LastActivity()
		}
	}()

	for i := 0; i < 1000; i++ {
		r.Sweep(time.Now())
	}
	<-done

	if _, ok := r.Get(session.ID); !ok {
		t.Error("Active session should survive concurrent sweeps")
	}
}

func TestRegistryLen(t *testing.T) {
	r := NewSessionRegistry(time.Hour)
	defer r.Close()

	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
	r.Put(NewChatSession("a", nil))
	r.Put(NewChatSession("b", nil))
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}
