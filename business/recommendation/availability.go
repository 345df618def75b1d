package recommendation

import (
	"context"
	"time"

	"tutorMarket/domain"
)

const AvailabilityUnknown = "unknown"

// AvailabilityChecker attaches a scheduling hint to a candidate. Results
// are advisory only.
type AvailabilityChecker interface {
	Check(ctx context.Context, educator domain.EducatorSummary) domain.Availability
}

// EstimatedAvailability has no calendar behind it. It reports an unknown
// online state and estimates the next slot from the educator's typical
// response time.
type EstimatedAvailability struct {
	now func() time.Time
}

var _ AvailabilityChecker = (*EstimatedAvailability)(nil)

func NewEstimatedAvailability() *EstimatedAvailability {
	return &EstimatedAvailability{now: time.Now}
}

func (a *EstimatedAvailability) Check(_ context.Context, educator domain.EducatorSummary) domain.Availability {
	hours := educator.ResponseTimeHours
	next := a.now().Add(time.Duration(hours * float64(time.Hour))).Truncate(time.Hour).Add(time.Hour)
	return domain.Availability{
		Status:            AvailabilityUnknown,
		IsOnline:          false,
		NextAvailable:     &next,
		ResponseTimeHours: hours,
	}
}
