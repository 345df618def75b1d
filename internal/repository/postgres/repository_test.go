package postgres

import (
	"context"
	"testing"
	"time"

	"tutorMarket/business/recommendation"
	"tutorMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func ptr[T any](v T) *T { return &v }

func seedUser(t *testing.T, repo *UserRepository, u domain.User) domain.User {
	t.Helper()
	require.NoError(t, repo.DB.Create(&u).Error)
	return u
}

func TestUserRepository(t *testing.T) {
	tx := testTx(t)
	repo := NewUserRepository(tx)
	ctx := context.Background()

	student := seedUser(t, repo, domain.User{Username: "it-student", Email: "it-student@example.com"})
	educator := seedUser(t, repo, domain.User{
		Username:   "it-educator",
		Email:      "it-educator@example.com",
		IsEducator: true,
		TeachingProfile: domain.TeachingProfile{
			AverageRating: ptr(4.7),
			Expertise:     datatypes.JSONSlice[domain.Expertise]{{Subject: "Mathematics", ProficiencyLevel: 0.9, YearsOfExperience: 6}},
		},
	})

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, educator.ID)
		require.NoError(t, err)
		assert.Equal(t, "it-educator", got.Username)
		require.Len(t, got.TeachingProfile.Expertise, 1)
		assert.Equal(t, "Mathematics", got.TeachingProfile.Expertise[0].Subject)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, educator.ID+100000)
		assert.ErrorIs(t, err, recommendation.ErrUserNotFound)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, []uint{student.ID, educator.ID + 100000})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, student.ID, got[0].ID)
	})

	t.Run("educators only", func(t *testing.T) {
		got, err := repo.FindEducators(ctx)
		require.NoError(t, err)
		for _, u := range got {
			assert.True(t, u.IsEducator)
		}
	})
}

func TestSessionHistoryRepository_FindSessions(t *testing.T) {
	tx := testTx(t)
	repo := NewSessionHistoryRepository(tx)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := []domain.SessionHistory{
		{StudentID: 9001, EducatorID: 9101, Topic: "Linear Algebra", Status: domain.SessionStatusCompleted, StudentRating: ptr(5.0), CreatedAt: base},
		{StudentID: 9001, EducatorID: 9102, Topic: "Organic Chemistry", Status: domain.SessionStatusCompleted, StudentRating: ptr(3.0), CreatedAt: base.Add(time.Hour)},
		{StudentID: 9002, EducatorID: 9101, Topic: "algebra basics", Status: "scheduled", CreatedAt: base.Add(2 * time.Hour)},
	}
	require.NoError(t, tx.Create(&rows).Error)

	t.Run("participant most recent first", func(t *testing.T) {
		got, err := repo.FindSessions(ctx, domain.SessionFilter{ParticipantID: 9001})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, uint(9102), got[0].EducatorID)
	})

	t.Run("educator side participant", func(t *testing.T) {
		got, err := repo.FindSessions(ctx, domain.SessionFilter{ParticipantID: 9101})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("rated and high rating", func(t *testing.T) {
		got, err := repo.FindSessions(ctx, domain.SessionFilter{
			EducatorIDs:      []uint{9101, 9102},
			RatedOnly:        true,
			MinStudentRating: 4,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, uint(9101), got[0].EducatorID)
	})

	t.Run("topic substring case insensitive", func(t *testing.T) {
		got, err := repo.FindSessions(ctx, domain.SessionFilter{
			StudentIDs:    []uint{9001, 9002},
			TopicContains: "ALGEBRA",
		})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("exclude student and status", func(t *testing.T) {
		got, err := repo.FindSessions(ctx, domain.SessionFilter{
			EducatorIDs:      []uint{9101},
			ExcludeStudentID: 9001,
			Status:           "scheduled",
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, uint(9002), got[0].StudentID)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.FindSessions(ctx, domain.SessionFilter{StudentIDs: []uint{9001, 9002}, Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, uint(9002), got[0].StudentID)
	})
}

func TestInteractionRepository(t *testing.T) {
	tx := testTx(t)
	repo := NewInteractionRepository(tx)
	ctx := context.Background()

	now := time.Now().UTC()
	old := &domain.Interaction{UserID: 9301, InteractionType: domain.InteractionView, Source: "search", CreatedAt: now.Add(-72 * time.Hour)}
	recent := &domain.Interaction{
		UserID:          9301,
		TargetID:        ptr(uint(9101)),
		InteractionType: domain.InteractionClick,
		Filters:         datatypes.JSONMap{"algorithm": "hybrid"},
		Source:          domain.SourceRecommendation,
		IsRecommended:   true,
		CreatedAt:       now,
	}
	require.NoError(t, repo.AppendInteraction(ctx, old))
	require.NoError(t, repo.AppendInteraction(ctx, recent))
	assert.NotZero(t, recent.ID)

	got, err := repo.FindInteractions(ctx, domain.InteractionFilter{UserID: 9301})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.InteractionClick, got[0].InteractionType)
	assert.Equal(t, "hybrid", got[0].Filters["algorithm"])

	got, err = repo.FindInteractions(ctx, domain.InteractionFilter{UserID: 9301, Since: now.Add(-time.Hour)})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, repo.AppendInteraction(ctx, &domain.Interaction{
		UserID:          9301,
		InteractionType: domain.InteractionView,
		SearchQuery:     "physics",
		Source:          domain.SourceRequestLog,
		IsRecommended:   true,
		CreatedAt:       now,
	}))
	got, err = repo.FindInteractions(ctx, domain.InteractionFilter{UserID: 9301, ExcludeSource: domain.SourceRequestLog})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.FindInteractions(ctx, domain.InteractionFilter{
		UserID:          9301,
		ExcludeSource:   domain.SourceRequestLog,
		RecommendedOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, recent.ID, got[0].ID)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, repo.AppendInteraction(cctx, &domain.Interaction{UserID: 9301}))
}

func TestRecommenderConfigRepository(t *testing.T) {
	tx := testTx(t)
	repo := NewRecommenderConfigRepository(tx)
	ctx := context.Background()

	_, ok, err := repo.GetConfig(ctx, "it-experiment")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpsertConfig(ctx, domain.RecommenderConfig{Name: "it-experiment", CollaborativeWeight: 0.7, ContentWeight: 0.3}))
	require.NoError(t, repo.UpsertConfig(ctx, domain.RecommenderConfig{Name: "it-experiment", CollaborativeWeight: 0.5, ContentWeight: 0.5, MaxSimilarStudents: 10}))

	cfg, ok, err := repo.GetConfig(ctx, "it-experiment")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.5, cfg.CollaborativeWeight, 1e-9)
	assert.Equal(t, 10, cfg.MaxSimilarStudents)
}
