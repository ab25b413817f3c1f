package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
)

// fakeUnitOfWork records queued events and exposes an active flag.
type fakeUnitOfWork struct {
	active bool
	queued []string
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error       { f.active = true; return nil }
func (f *fakeUnitOfWork) Commit(ctx context.Context) error      { f.active = false; return nil }
func (f *fakeUnitOfWork) Rollback(ctx context.Context) error    { f.active = false; return nil }
func (f *fakeUnitOfWork) SaveChanges(ctx context.Context) error { return nil }
func (f *fakeUnitOfWork) Examples() ports.ExampleCommandRepository {
	return nil
}
func (f *fakeUnitOfWork) QueueEvent(event events.DomainEvent, topic string) {
	f.queued = append(f.queued, topic)
}
func (f *fakeUnitOfWork) IsActive() bool { return f.active }

type countingPublisher struct {
	published []string
}

func (p *countingPublisher) Publish(ctx context.Context, event events.DomainEvent, topic string) error {
	p.published = append(p.published, topic)
	return nil
}

func testEvent() events.ExampleCreated {
	return events.NewExampleCreated("ev-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), "corr-1", "ex-1", "Widget", "user-1")
}

func TestTransactionalPublisher_QueuesDuringTransaction(t *testing.T) {
	direct := &countingPublisher{}
	publisher := NewTransactionalPublisher(direct)

	uow := &fakeUnitOfWork{}
	require.NoError(t, uow.Begin(context.Background()))
	ctx := ports.WithUnitOfWork(context.Background(), uow)

	require.NoError(t, publisher.Publish(ctx, testEvent(), events.TopicExampleCreated))

	assert.Empty(t, direct.published, "nothing reaches the bus while the transaction is open")
	assert.Equal(t, []string{events.TopicExampleCreated}, uow.queued)
}

func TestTransactionalPublisher_DirectOutsideTransaction(t *testing.T) {
	direct := &countingPublisher{}
	publisher := NewTransactionalPublisher(direct)

	require.NoError(t, publisher.Publish(context.Background(), testEvent(), events.TopicExampleCreated))
	assert.Equal(t, []string{events.TopicExampleCreated}, direct.published)
}

func TestTransactionalPublisher_DirectWhenTransactionInactive(t *testing.T) {
	direct := &countingPublisher{}
	publisher := NewTransactionalPublisher(direct)

	// A unit of work in the context that is not active does not capture events.
	ctx := ports.WithUnitOfWork(context.Background(), &fakeUnitOfWork{})
	require.NoError(t, publisher.Publish(ctx, testEvent(), events.TopicExampleCreated))
	assert.Equal(t, []string{events.TopicExampleCreated}, direct.published)
}
