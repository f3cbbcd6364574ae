package locationsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRefresher struct {
	mu       sync.Mutex
	triggers []string
	err      error
	done     chan string
}

func (s *stubRefresher) Refresh(_ context.Context, trigger string) error {
	s.mu.Lock()
	s.triggers = append(s.triggers, trigger)
	s.mu.Unlock()
	if s.done != nil {
		s.done <- trigger
	}
	return s.err
}

func (s *stubRefresher) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.triggers...)
}

func TestPeriodicTriggerRefreshesOnEveryTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ref := &stubRefresher{done: make(chan string, 4), err: errors.New("db down")}
	trigger := NewPeriodicTrigger(ref, time.Minute, clock, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- trigger.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	assert.Equal(t, "periodic", <-ref.done)
	clock.Advance(time.Minute)
	assert.Equal(t, "periodic", <-ref.done, "a failed refresh does not stop the loop")

	cancel()
	require.NoError(t, <-finished)
	assert.Len(t, ref.calls(), 2)
}

func TestPeriodicTriggerDisabled(t *testing.T) {
	ref := &stubRefresher{}
	trigger := NewPeriodicTrigger(ref, 0, nil, newTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.NoError(t, trigger.Run(ctx))
	assert.Empty(t, ref.calls())
}

type stubReader struct {
	mu        sync.Mutex
	messages  []kafkago.Message
	committed []int64
	fetchErr  error
}

func (s *stubReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	s.mu.Lock()
	if len(s.messages) > 0 {
		msg := s.messages[0]
		s.messages = s.messages[1:]
		s.mu.Unlock()
		return msg, nil
	}
	err := s.fetchErr
	s.mu.Unlock()
	if err != nil {
		return kafkago.Message{}, err
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (s *stubReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range msgs {
		s.committed = append(s.committed, m.Offset)
	}
	return nil
}

func (s *stubReader) Close() error { return nil }

func TestKafkaTriggerRefreshesOnChanges(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	reader := &stubReader{
		messages: []kafkago.Message{
			{Offset: 1, Value: []byte(`{"id":10,"op":"update"}`), Time: base},
			{Offset: 2, Value: []byte(`not json`), Time: base},
			// appended no later than offset 1, so its rebuild already covers it
			{Offset: 3, Value: []byte(`{"id":11,"op":"update"}`), Time: base},
			{Offset: 4, Value: []byte(`{"id":12,"op":"delete"}`), Time: base.Add(time.Second)},
			// no broker timestamp: always rebuild
			{Offset: 5, Value: []byte(`{"id":13,"op":"create"}`)},
		},
		fetchErr: errors.New("broker gone"),
	}
	ref := &stubRefresher{}
	trigger := newKafkaTrigger(reader, ref, newTestLogger())

	err := trigger.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker gone")

	assert.Equal(t, []string{"kafka", "kafka", "kafka"}, ref.calls())
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, reader.committed)
	assert.Equal(t, base.Add(time.Second), trigger.appliedUpTo)
}

func TestKafkaTriggerIgnoresHostClockSkew(t *testing.T) {
	// broker clock far behind the host: every change must still rebuild
	past := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	reader := &stubReader{
		messages: []kafkago.Message{
			{Offset: 1, Value: []byte(`{"id":10,"op":"update"}`), Time: past},
			{Offset: 2, Value: []byte(`{"id":11,"op":"update"}`), Time: past.Add(time.Millisecond)},
		},
		fetchErr: errors.New("broker gone"),
	}
	ref := &stubRefresher{}
	trigger := newKafkaTrigger(reader, ref, newTestLogger())

	require.Error(t, trigger.Run(context.Background()))
	assert.Len(t, ref.calls(), 2)
}

func TestKafkaTriggerRetriesAfterFailedRefresh(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	reader := &stubReader{
		messages: []kafkago.Message{
			{Offset: 1, Value: []byte(`{"id":10,"op":"update"}`), Time: base},
			{Offset: 2, Value: []byte(`{"id":11,"op":"update"}`), Time: base},
		},
		fetchErr: errors.New("broker gone"),
	}
	ref := &stubRefresher{err: errors.New("db down")}
	trigger := newKafkaTrigger(reader, ref, newTestLogger())

	require.Error(t, trigger.Run(context.Background()))
	assert.Len(t, ref.calls(), 2, "a failed rebuild does not mark changes applied")
	assert.True(t, trigger.appliedUpTo.IsZero())
}

func TestKafkaTriggerStopsWithContext(t *testing.T) {
	trigger := newKafkaTrigger(&stubReader{}, &stubRefresher{}, newTestLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.NoError(t, trigger.Run(ctx))
}

func TestDecodeChange(t *testing.T) {
	event, err := decodeChange(kafkago.Message{Value: []byte(`{"id":7,"op":"create"}`)})
	require.NoError(t, err)
	assert.Equal(t, ChangeEvent{ID: 7, Op: "create"}, event)

	_, err = decodeChange(kafkago.Message{Value: []byte(`{"op":"create"}`)})
	require.Error(t, err)
}
