package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/onless/driving-school-api/internal/core/ports"
)

type recordingService struct {
	mu      sync.Mutex
	notices []ports.VerificationNotice
	done    chan struct{}
}

func (s *recordingService) Process(_ context.Context, notice ports.VerificationNotice) error {
	s.mu.Lock()
	s.notices = append(s.notices, notice)
	n := len(s.notices)
	s.mu.Unlock()
	if n == 3 {
		close(s.done)
	}
	return nil
}

func TestDispatcher_ProcessesNotices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &recordingService{done: make(chan struct{})}
	d := NewDispatcher(2, svc, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(ports.VerificationNotice{UserID: 1, Email: "a@x.com"})
	d.Enqueue(ports.VerificationNotice{UserID: 2, Email: "b@x.com"})
	d.Enqueue(ports.VerificationNotice{UserID: 3, Email: "c@x.com"})

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("notices not processed in time")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.notices) != 3 {
		t.Fatalf("expected 3 notices, got %d", len(svc.notices))
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(4, &recordingService{done: make(chan struct{})}, zerolog.Nop())

	first := d.shardIndex("student@x.com")
	for i := 0; i < 10; i++ {
		if d.shardIndex("student@x.com") != first {
			t.Fatalf("shard index must be deterministic")
		}
	}
}
