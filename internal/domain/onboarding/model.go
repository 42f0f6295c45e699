package onboarding

import (
	"context"
	"time"
)

// Step is a position in the linear onboarding flow.
type Step int

const (
	StepBirthDate Step = iota + 1
	StepHomeRegion
	StepWorkRegion
	StepCategories
)

// TotalSteps is the number of onboarding steps.
const TotalSteps = int(StepCategories)

// Draft holds in-progress answers. Nil means not answered.
type Draft struct {
	BirthYear  *int     `json:"birthYear"`
	BirthMonth *int     `json:"birthMonth"`
	BirthDay   *int     `json:"birthDay"`
	HomeRegion *string  `json:"homeRegion"`
	WorkRegion *string  `json:"workRegion"`
	Categories []string `json:"categories"`
}

// Session is one user's onboarding context.
type Session struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"userId"`
	Step       Step      `json:"step"`
	TotalSteps int       `json:"totalSteps"`
	Draft      Draft     `json:"draft"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Answer carries the values chosen on a step. Only the fields belonging
// to the session's current step are applied; a nil field clears the answer.
type Answer struct {
	BirthYear  *int     `json:"birthYear"`
	BirthMonth *int     `json:"birthMonth"`
	BirthDay   *int     `json:"birthDay"`
	HomeRegion *string  `json:"homeRegion"`
	WorkRegion *string  `json:"workRegion"`
	Categories []string `json:"categories"`
}

// Config wires runtime settings for onboarding.
type Config struct {
	SessionTTL time.Duration
}

// SessionStore keeps sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, session Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Delete(ctx context.Context, id string) error
}
