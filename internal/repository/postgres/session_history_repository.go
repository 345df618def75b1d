package postgres

import (
	"context"
	"fmt"
	"strings"

	"tutorMarket/business/recommendation"
	"tutorMarket/domain"

	"gorm.io/gorm"
)

type SessionHistoryRepository struct {
	DB *gorm.DB
}

var _ recommendation.SessionRepository = (*SessionHistoryRepository)(nil)

func NewSessionHistoryRepository(db *gorm.DB) *SessionHistoryRepository {
	return &SessionHistoryRepository{DB: db}
}

func (r *SessionHistoryRepository) FindSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.SessionHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.SessionHistory{})

	if filter.ParticipantID != 0 {
		q = q.Where("student_id = ? OR educator_id = ?", filter.ParticipantID, filter.ParticipantID)
	}
	if len(filter.StudentIDs) > 0 {
		q = q.Where("student_id IN ?", filter.StudentIDs)
	}
	if len(filter.EducatorIDs) > 0 {
		q = q.Where("educator_id IN ?", filter.EducatorIDs)
	}
	if filter.ExcludeStudentID != 0 {
		q = q.Where("student_id <> ?", filter.ExcludeStudentID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.RatedOnly {
		q = q.Where("student_rating IS NOT NULL")
	}
	if filter.MinStudentRating > 0 {
		q = q.Where("student_rating >= ?", filter.MinStudentRating)
	}
	if topic := strings.TrimSpace(filter.TopicContains); topic != "" {
		q = q.Where("topic ILIKE ?", "%"+escapeLike(topic)+"%")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var sessions []domain.SessionHistory
	if err := q.Order("created_at DESC").Order("id DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to query session history: %w", err)
	}

	return sessions, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
