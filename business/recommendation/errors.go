package recommendation

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNotStudent          = errors.New("recommendations are only available for students")
	ErrInvalidInteraction  = errors.New("invalid interaction")
	ErrFeaturesUnavailable = errors.New("features unavailable")
)
