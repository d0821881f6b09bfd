package outbox_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nikolayk812/placeorder/internal/outbox"
	"github.com/segmentio/kafka-go"
)

type fakeProducer struct {
	mu       sync.Mutex
	messages []kafka.Message
	failKeys map[string]error
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, m := range msgs {
		if err, ok := p.failKeys[string(m.Key)]; ok {
			return err
		}
		p.messages = append(p.messages, m)
	}
	return nil
}

func (p *fakeProducer) sent() []kafka.Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]kafka.Message(nil), p.messages...)
}

type failedCall struct {
	id         int64
	errMsg     string
	maxRetries int
}

type fakeStore struct {
	mu      sync.Mutex
	pending []outbox.Event
	sent    []int64
	failed  []failedCall
	lockErr error
	locks   int
}

func (s *fakeStore) LockBatch(_ context.Context, _ string, batchSize int, _ time.Duration) ([]outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locks++
	if s.lockErr != nil {
		return nil, s.lockErr
	}

	n := min(batchSize, len(s.pending))
	batch := s.pending[:n]
	s.pending = s.pending[n:]
	return batch, nil
}

func (s *fakeStore) MarkSent(_ context.Context, _ string, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, ids...)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, _ string, id int64, errMsg string, maxRetries int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed = append(s.failed, failedCall{id: id, errMsg: errMsg, maxRetries: maxRetries})
	return nil
}

func (s *fakeStore) sentIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]int64(nil), s.sent...)
}

var errBroker = errors.New("broker unavailable")
