package recommendation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tutorMarket/domain"
)

func ptr[T any](v T) *T { return &v }

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// ---- profiles ----

type fakeProfiles struct {
	users map[uint]domain.User
	err   error
}

func newFakeProfiles(users ...domain.User) *fakeProfiles {
	m := make(map[uint]domain.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeProfiles{users: m}
}

func (f *fakeProfiles) FindByID(_ context.Context, id uint) (domain.User, error) {
	if f.err != nil {
		return domain.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeProfiles) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeProfiles) FindEducators(_ context.Context) ([]domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.User{}
	for _, u := range f.users {
		if u.IsEducator {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- sessions ----

type fakeSessions struct {
	sessions []domain.SessionHistory
	err      error
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (f *fakeSessions) FindSessions(_ context.Context, filter domain.SessionFilter) ([]domain.SessionHistory, error) {
	if f.err != nil {
		return nil, f.err
	}

	sorted := append([]domain.SessionHistory(nil), f.sessions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	out := []domain.SessionHistory{}
	for _, s := range sorted {
		if filter.ParticipantID != 0 && s.StudentID != filter.ParticipantID && s.EducatorID != filter.ParticipantID {
			continue
		}
		if len(filter.StudentIDs) > 0 && !containsID(filter.StudentIDs, s.StudentID) {
			continue
		}
		if len(filter.EducatorIDs) > 0 && !containsID(filter.EducatorIDs, s.EducatorID) {
			continue
		}
		if filter.ExcludeStudentID != 0 && s.StudentID == filter.ExcludeStudentID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.RatedOnly && s.StudentRating == nil {
			continue
		}
		if filter.MinStudentRating > 0 && (s.StudentRating == nil || *s.StudentRating < filter.MinStudentRating) {
			continue
		}
		if filter.TopicContains != "" && !strings.Contains(strings.ToLower(s.Topic), strings.ToLower(filter.TopicContains)) {
			continue
		}
		out = append(out, s)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// ---- interactions ----

type fakeInteractions struct {
	mu        sync.Mutex
	items     []domain.Interaction
	findErr   error
	appendErr error
}

func (f *fakeInteractions) FindInteractions(_ context.Context, filter domain.InteractionFilter) ([]domain.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := []domain.Interaction{}
	for i := len(f.items) - 1; i >= 0; i-- {
		in := f.items[i]
		if filter.UserID != 0 && in.UserID != filter.UserID {
			continue
		}
		if !filter.Since.IsZero() && in.CreatedAt.Before(filter.Since) {
			continue
		}
		if filter.ExcludeSource != "" && in.Source == filter.ExcludeSource {
			continue
		}
		if filter.RecommendedOnly && !in.IsRecommended {
			continue
		}
		out = append(out, in)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeInteractions) AppendInteraction(_ context.Context, in *domain.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	in.ID = uint(len(f.items) + 1)
	if in.CreatedAt.IsZero() {
		in.CreatedAt = baseTime
	}
	f.items = append(f.items, *in)
	return nil
}

func (f *fakeInteractions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// ---- config ----

type fakeConfigRepo struct {
	rows map[string]domain.RecommenderConfig
	err  error
}

func (f *fakeConfigRepo) GetConfig(_ context.Context, name string) (domain.RecommenderConfig, bool, error) {
	if f.err != nil {
		return domain.RecommenderConfig{}, false, f.err
	}
	row, ok := f.rows[name]
	return row, ok, nil
}

func (f *fakeConfigRepo) UpsertConfig(_ context.Context, cfg domain.RecommenderConfig) error {
	if f.rows == nil {
		f.rows = map[string]domain.RecommenderConfig{}
	}
	f.rows[cfg.Name] = cfg
	return nil
}

// ---- cache ----

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]domain.ScoredCandidate
	invalidated []uint
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]domain.ScoredCandidate{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]domain.ScoredCandidate, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs, ok := f.entries[key]
	return recs, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, recs []domain.ScoredCandidate, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = recs
	return nil
}

func (f *fakeCache) InvalidateStudent(_ context.Context, studentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := StudentCachePrefix(studentID)
	for k := range f.entries {
		if strings.HasPrefix(k, prefix) {
			delete(f.entries, k)
		}
	}
	f.invalidated = append(f.invalidated, studentID)
	return nil
}

func (f *fakeCache) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// ---- strategies ----

type staticRecommender struct {
	name string
	recs []domain.ScoredCandidate
	err  error
}

func (s *staticRecommender) Name() string { return s.name }

func (s *staticRecommender) Generate(_ context.Context, _ uint, _ string, limit int) ([]domain.ScoredCandidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return truncate(append([]domain.ScoredCandidate(nil), s.recs...), limit), nil
}

// ---- fixtures ----

type educatorOpt func(*domain.User)

func withRating(r float64) educatorOpt {
	return func(u *domain.User) { u.TeachingProfile.AverageRating = ptr(r) }
}

func withSessions(n int) educatorOpt {
	return func(u *domain.User) { u.TeachingProfile.TotalSessions = n }
}

func withExpertise(subject string, proficiency float64, years int) educatorOpt {
	return func(u *domain.User) {
		u.TeachingProfile.Expertise = append(u.TeachingProfile.Expertise, domain.Expertise{
			Subject:           subject,
			ProficiencyLevel:  proficiency,
			YearsOfExperience: years,
		})
	}
}

func withSubjects(subjects ...string) educatorOpt {
	return func(u *domain.User) { u.LearningPreferences.Subjects = subjects }
}

func withLanguages(langs ...string) educatorOpt {
	return func(u *domain.User) { u.LearningPreferences.Languages = langs }
}

func withRate(rate float64) educatorOpt {
	return func(u *domain.User) { u.TeachingProfile.HourlyRate = rate }
}

func withResponse(hours float64) educatorOpt {
	return func(u *domain.User) { u.TeachingProfile.ResponseTimeHours = ptr(hours) }
}

func withStyle(style string) educatorOpt {
	return func(u *domain.User) { u.TeachingProfile.TeachingStyle = style }
}

func educator(id uint, opts ...educatorOpt) domain.User {
	u := domain.User{
		ID:         id,
		Username:   "educator",
		Email:      "educator@example.com",
		IsEducator: true,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func student(id uint, level, style string, subjects ...string) domain.User {
	return domain.User{
		ID:       id,
		Username: "student",
		Email:    "student@example.com",
		LearningPreferences: domain.LearningPreferences{
			AcademicLevel: level,
			LearningStyle: style,
			Subjects:      subjects,
		},
	}
}

func ratedSession(studentID, educatorID uint, rating float64, topic string, at time.Time) domain.SessionHistory {
	return domain.SessionHistory{
		StudentID:      studentID,
		EducatorID:     educatorID,
		Topic:          topic,
		ScheduledDate:  at,
		Status:         domain.SessionStatusCompleted,
		StudentRating:  ptr(rating),
		CompletionRate: ptr(90.0),
		CreatedAt:      at,
	}
}

func educatorIDs(recs []domain.ScoredCandidate) []uint {
	out := make([]uint, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.EducatorID)
	}
	return out
}
