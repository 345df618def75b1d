package domain

import "time"

const SessionStatusCompleted = "completed"

// SessionHistory is one tutoring session between a student and an educator.
// Ratings are given after completion; either side may skip rating.
type SessionHistory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"column:student_id;not null;index" json:"student_id"`
	EducatorID     uint      `gorm:"column:educator_id;not null;index" json:"educator_id"`
	Topic          string    `gorm:"column:topic" json:"topic"`
	ScheduledDate  time.Time `gorm:"column:scheduled_date" json:"scheduled_date"`
	Status         string    `gorm:"column:status;default:scheduled" json:"status"`
	StudentRating  *float64  `gorm:"column:student_rating" json:"student_rating"`   // student's rating of the educator
	EducatorRating *float64  `gorm:"column:educator_rating" json:"educator_rating"` // educator's rating of the student
	CompletionRate *float64  `gorm:"column:completion_rate" json:"completion_rate"` // 0..100
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SessionHistory) TableName() string {
	return "session_histories"
}

// SessionFilter narrows a session history query. Zero values mean "no
// constraint". Results are always most recent first.
type SessionFilter struct {
	ParticipantID    uint // student or educator side
	StudentIDs       []uint
	EducatorIDs      []uint
	ExcludeStudentID uint
	Status           string
	RatedOnly        bool
	MinStudentRating float64
	TopicContains    string // case-insensitive substring
	Limit            int
}
