package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedstack/internal/models"
)

type mockQueue struct {
	jobs []models.Job
}

func (m *mockQueue) BlockingPop(ctx context.Context, _ time.Duration) (*models.Job, error) {
	if len(m.jobs) == 0 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	job := m.jobs[0]
	m.jobs = m.jobs[1:]
	return &job, nil
}

type mockDispatcher struct {
	source models.Source
	items  []models.Item
	err    error
	calls  atomic.Int32
}

func (m *mockDispatcher) Dispatch(_ context.Context, source models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	m.calls.Add(1)
	if m.err != nil {
		return source, nil, m.err
	}
	return m.source, m.items, nil
}

type mockItemStore struct {
	sources []models.Source
	items   [][]models.Item

	sourceErr error
}

func (m *mockItemStore) UpsertSource(_ context.Context, source models.Source) error {
	if m.sourceErr != nil {
		return m.sourceErr
	}
	m.sources = append(m.sources, source)
	return nil
}

func (m *mockItemStore) UpsertItems(_ context.Context, items []models.Item) error {
	m.items = append(m.items, items)
	return nil
}

func testJob() *models.Job {
	return &models.Job{
		Source:  models.Source{ID: "rss-1", UserID: "user-1", Type: models.TypeRSS},
		Profile: models.Profile{ID: "user-1", Tier: models.TierFree},
	}
}

func TestProcessPersistsSourceAndItems(t *testing.T) {
	updated := models.Source{ID: "rss-1", UserID: "user-1", Type: models.TypeRSS, Title: "Blog", UpdatedAt: time.Now().Unix()}
	items := []models.Item{{ID: "item-1", SourceID: "rss-1"}}
	dispatcher := &mockDispatcher{source: updated, items: items}
	store := &mockItemStore{}

	w := New(&mockQueue{}, store, dispatcher)
	w.process(context.Background(), testJob())

	require.Len(t, store.sources, 1)
	assert.Equal(t, "Blog", store.sources[0].Title)
	require.Len(t, store.items, 1)
	assert.Equal(t, "item-1", store.items[0][0].ID)
}

func TestProcessLeavesSourceUntouchedOnEmptyResult(t *testing.T) {
	dispatcher := &mockDispatcher{source: models.Source{ID: "rss-1"}}
	store := &mockItemStore{}

	w := New(&mockQueue{}, store, dispatcher)
	w.process(context.Background(), testJob())

	assert.Empty(t, store.sources)
	assert.Empty(t, store.items)
}

func TestProcessSwallowsDispatchError(t *testing.T) {
	dispatcher := &mockDispatcher{err: fmt.Errorf("fetch failed")}
	store := &mockItemStore{}

	w := New(&mockQueue{}, store, dispatcher)
	w.process(context.Background(), testJob())

	assert.Empty(t, store.sources)
	assert.Empty(t, store.items)
}

func TestProcessSkipsItemsWhenSourceUpsertFails(t *testing.T) {
	dispatcher := &mockDispatcher{
		source: models.Source{ID: "rss-1"},
		items:  []models.Item{{ID: "item-1"}},
	}
	store := &mockItemStore{sourceErr: fmt.Errorf("db down")}

	w := New(&mockQueue{}, store, dispatcher)
	w.process(context.Background(), testJob())

	assert.Empty(t, store.items)
}

func TestRunDrainsQueueUntilCancelled(t *testing.T) {
	q := &mockQueue{jobs: []models.Job{*testJob(), *testJob()}}
	dispatcher := &mockDispatcher{source: models.Source{ID: "rss-1"}}
	store := &mockItemStore{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(q, store, dispatcher).Run(ctx)
	}()

	assert.Eventually(t, func() bool { return dispatcher.calls.Load() == 2 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
