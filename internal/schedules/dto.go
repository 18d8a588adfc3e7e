package schedules

import "time"

// CreateScheduleRequest carries the fields of a new sailing.
type CreateScheduleRequest struct {
	Carrier     string    `json:"carrier" validate:"required"`
	Vessel      string    `json:"vessel" validate:"required"`
	Voyage      string    `json:"voyage" validate:"required"`
	Origin      string    `json:"origin" validate:"required"`
	Destination string    `json:"destination" validate:"required"`
	ETD         time.Time `json:"etd" validate:"required"`
	ETA         time.Time `json:"eta" validate:"required"`
}

// UpdateScheduleRequest is a partial update; nil fields are left untouched.
type UpdateScheduleRequest struct {
	Carrier     *string    `json:"carrier,omitempty"`
	Vessel      *string    `json:"vessel,omitempty"`
	Voyage      *string    `json:"voyage,omitempty"`
	Origin      *string    `json:"origin,omitempty"`
	Destination *string    `json:"destination,omitempty"`
	ETD         *time.Time `json:"etd,omitempty"`
	ETA         *time.Time `json:"eta,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

// ListSchedulesRequest filters the schedule listing.
type ListSchedulesRequest struct {
	Page          int
	PerPage       int
	Term          string
	IncludeClosed bool
}

// RateSearchRequest scopes a candidate-rate search to a route.
type RateSearchRequest struct {
	Origin      string
	Destination string
}
