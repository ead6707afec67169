package catalogstore

import (
	"context"
	"time"

	"licensing-map/internal/logging"
)

// enqueueLocked hands op to the sync worker. Callers hold s.mu, which keeps
// the outbox in the same order as the in-memory writes.
func (s *Store) enqueueLocked(op syncOp) {
	if s.persister == nil {
		return
	}
	if s.closed {
		logging.Warn("catalog store closed, write not synced", map[string]interface{}{"op": op.name, "id": op.id})
		return
	}
	select {
	case s.outbox <- op:
	default:
		logging.LogKV("error", "sync outbox full, write dropped", map[string]interface{}{"op": op.name, "id": op.id})
	}
}

func (s *Store) syncLoop() {
	defer close(s.done)
	for op := range s.outbox {
		s.apply(op)
	}
}

func (s *Store) apply(op syncOp) {
	backoff := s.opts.backoff
	for attempt := 1; attempt <= s.opts.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.writeTimeout)
		err := op.run(ctx, s.persister)
		cancel()
		if err == nil {
			return
		}

		fields := map[string]interface{}{
			"op":      op.name,
			"id":      op.id,
			"attempt": attempt,
			"error":   err.Error(),
		}
		if attempt == s.opts.maxAttempts {
			logging.LogKV("error", "backing store write failed, giving up", fields)
			return
		}
		logging.Warn("backing store write failed, retrying", fields)
		time.Sleep(backoff)
		backoff *= 2
	}
}

// Close stops accepting sync writes and waits for queued ones to finish.
// The in-memory catalog stays usable.
func (s *Store) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		if s.outbox != nil {
			close(s.outbox)
		}
	}
	s.mu.Unlock()

	<-s.done
	if s.persister != nil {
		return s.persister.Close()
	}
	return nil
}
