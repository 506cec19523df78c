package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedstack/internal/models"
)

// mockStore serves canned profiles and sources.
type mockStore struct {
	profiles []models.Profile
	sources  map[string][]models.Source

	profilesErr error
	sourcesErr  map[string]error
}

func (m *mockStore) ListProfiles(_ context.Context, _ int64, page, pageSize int) ([]models.Profile, error) {
	if m.profilesErr != nil {
		return nil, m.profilesErr
	}
	start := page * pageSize
	if start >= len(m.profiles) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(m.profiles) {
		end = len(m.profiles)
	}
	return m.profiles[start:end], nil
}

func (m *mockStore) ListSources(_ context.Context, userID string, _ int64) ([]models.Source, error) {
	if err := m.sourcesErr[userID]; err != nil {
		return nil, err
	}
	return m.sources[userID], nil
}

// mockEnqueuer records pushed jobs.
type mockEnqueuer struct {
	jobs []models.Job
}

func (m *mockEnqueuer) Push(_ context.Context, job models.Job) error {
	m.jobs = append(m.jobs, job)
	return nil
}

func TestRunCycleEnqueuesStaleSources(t *testing.T) {
	staleAt := time.Now().Add(-2 * time.Hour).Unix()
	store := &mockStore{
		profiles: []models.Profile{{ID: "user-1", Tier: models.TierPremium}},
		sources: map[string][]models.Source{
			"user-1": {
				{ID: "rss-1", UserID: "user-1", Type: models.TypeRSS, UpdatedAt: staleAt},
				{ID: "pod-1", UserID: "user-1", Type: models.TypePodcast, UpdatedAt: staleAt},
			},
		},
	}
	q := &mockEnqueuer{}

	New(store, q).runCycle(context.Background())

	require.Len(t, q.jobs, 2)
	assert.Equal(t, "rss-1", q.jobs[0].Source.ID)
	assert.Equal(t, "user-1", q.jobs[0].Profile.ID)
}

func TestRunCycleNeverEnqueuesDeprecatedProvider(t *testing.T) {
	store := &mockStore{
		profiles: []models.Profile{{ID: "user-1", Tier: models.TierPremium}},
		sources: map[string][]models.Source{
			"user-1": {{ID: "nitter-1", UserID: "user-1", Type: models.TypeNitter, UpdatedAt: 0}},
		},
	}
	q := &mockEnqueuer{}

	New(store, q).runCycle(context.Background())

	assert.Empty(t, q.jobs)
}

func TestRunCycleRateLimitedProviderFreeTier(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name      string
		tier      string
		updatedAt int64
		enqueued  bool
	}{
		{"free two hours old", models.TierFree, now.Add(-2 * time.Hour).Unix(), false},
		{"free twentyfive hours old", models.TierFree, now.Add(-25 * time.Hour).Unix(), true},
		{"premium two hours old", models.TierPremium, now.Add(-2 * time.Hour).Unix(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockStore{
				profiles: []models.Profile{{ID: "user-1", Tier: tc.tier}},
				sources: map[string][]models.Source{
					"user-1": {{ID: "reddit-1", UserID: "user-1", Type: models.TypeReddit, UpdatedAt: tc.updatedAt}},
				},
			}
			q := &mockEnqueuer{}

			New(store, q).runCycle(context.Background())

			if tc.enqueued {
				assert.Len(t, q.jobs, 1)
			} else {
				assert.Empty(t, q.jobs)
			}
		})
	}
}

func TestRunCycleSkipsFailingProfile(t *testing.T) {
	staleAt := time.Now().Add(-2 * time.Hour).Unix()
	store := &mockStore{
		profiles: []models.Profile{
			{ID: "user-bad", Tier: models.TierPremium},
			{ID: "user-good", Tier: models.TierPremium},
		},
		sources: map[string][]models.Source{
			"user-good": {{ID: "rss-1", UserID: "user-good", Type: models.TypeRSS, UpdatedAt: staleAt}},
		},
		sourcesErr: map[string]error{"user-bad": fmt.Errorf("boom")},
	}
	q := &mockEnqueuer{}

	New(store, q).runCycle(context.Background())

	require.Len(t, q.jobs, 1)
	assert.Equal(t, "user-good", q.jobs[0].Profile.ID)
}

func TestRunCycleSurvivesProfilePageError(t *testing.T) {
	store := &mockStore{profilesErr: fmt.Errorf("boom")}
	q := &mockEnqueuer{}

	// Must not panic or push anything.
	New(store, q).runCycle(context.Background())

	assert.Empty(t, q.jobs)
}

func TestAdmitBoundaries(t *testing.T) {
	now := time.Now().Unix()
	free := models.Profile{ID: "u", Tier: models.TierFree}
	premium := models.Profile{ID: "u", Tier: models.TierPremium}

	assert.False(t, admit(models.Source{Type: models.TypeNitter}, premium, now))
	assert.False(t, admit(models.Source{Type: models.TypeReddit, UpdatedAt: now - 23*3600}, free, now))
	assert.True(t, admit(models.Source{Type: models.TypeReddit, UpdatedAt: now - 25*3600}, free, now))
	assert.True(t, admit(models.Source{Type: models.TypeReddit, UpdatedAt: now - 23*3600}, premium, now))
	assert.True(t, admit(models.Source{Type: models.TypeRSS, UpdatedAt: 0}, free, now))
}
