package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Expertise struct {
	Subject           string  `json:"subject"`
	ProficiencyLevel  float64 `json:"proficiency_level"` // 0..10
	YearsOfExperience int     `json:"years_of_experience"`
}

// LearningPreferences are what a user declared about themselves. Educators
// use the same block to declare the subjects and languages they teach.
type LearningPreferences struct {
	AcademicLevel string                      `gorm:"column:academic_level" json:"academic_level"`
	LearningStyle string                      `gorm:"column:learning_style" json:"learning_style"`
	Subjects      datatypes.JSONSlice[string] `gorm:"column:subjects;type:jsonb" json:"subjects"`
	Languages     datatypes.JSONSlice[string] `gorm:"column:languages;type:jsonb" json:"languages"`
}

type TeachingProfile struct {
	TeachingStyle     string                         `gorm:"column:style" json:"teaching_style"`
	TargetLevel       string                         `gorm:"column:target_level" json:"target_level"`
	HourlyRate        float64                        `gorm:"column:hourly_rate;default:0" json:"hourly_rate"`
	AverageRating     *float64                       `gorm:"column:average_rating" json:"average_rating"`
	TotalSessions     int                            `gorm:"column:total_sessions;default:0" json:"total_sessions"`
	ResponseTimeHours *float64                       `gorm:"column:response_time_hours" json:"response_time_hours"`
	Expertise         datatypes.JSONSlice[Expertise] `gorm:"column:expertise;type:jsonb" json:"expertise"`
}

type User struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	Username            string              `gorm:"column:username;not null" json:"username"`
	Email               string              `gorm:"column:email;unique;not null" json:"email"`
	Img                 string              `gorm:"column:img" json:"img"`
	Country             string              `gorm:"column:country" json:"country"`
	IsEducator          bool                `gorm:"column:is_educator;default:false" json:"is_educator"`
	LearningPreferences LearningPreferences `gorm:"embedded;embeddedPrefix:pref_" json:"learning_preferences"`
	TeachingProfile     TeachingProfile     `gorm:"embedded;embeddedPrefix:teaching_" json:"teaching_profile"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	DeletedAt           gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Rating returns the educator's average rating, 0 when nobody rated them yet.
func (p TeachingProfile) Rating() float64 {
	if p.AverageRating == nil {
		return 0
	}
	return *p.AverageRating
}

// ResponseTime returns the declared response time, 24h when unknown.
func (p TeachingProfile) ResponseTime() float64 {
	if p.ResponseTimeHours == nil {
		return 24
	}
	return *p.ResponseTimeHours
}
