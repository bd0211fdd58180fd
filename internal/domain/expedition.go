package domain

import "time"

// ExpeditionStatus is the lifecycle state of an expedition. Status starts at
// "upcoming" and is advanced by an external scheduler; nothing in this
// codebase transitions it automatically.
type ExpeditionStatus string

const (
	ExpeditionUpcoming  ExpeditionStatus = "upcoming"
	ExpeditionActive    ExpeditionStatus = "active"
	ExpeditionCompleted ExpeditionStatus = "completed"
	ExpeditionFailed    ExpeditionStatus = "failed"
)

// Expedition is a time-boxed group challenge with a point target.
// InviteCode is set if and only if the expedition is private.
type Expedition struct {
	ID           string           `bson:"_id" json:"id"`
	Name         string           `bson:"name" json:"name"`
	Description  string           `bson:"description,omitempty" json:"description,omitempty"`
	TargetPoints float64          `bson:"targetPoints" json:"targetPoints"`
	Duration     int              `bson:"duration" json:"duration"` // days
	IsPublic     bool             `bson:"isPublic" json:"isPublic"`
	InviteCode   *string          `bson:"inviteCode,omitempty" json:"inviteCode,omitempty"`
	StartDate    time.Time        `bson:"startDate" json:"startDate"`
	EndDate      time.Time        `bson:"endDate" json:"endDate"` // startDate + duration days
	Status       ExpeditionStatus `bson:"status" json:"status"`
	CreatedByID  string           `bson:"createdById" json:"createdById"` // UserProfile.ID of the owner
	CreatedAt    time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt" json:"updatedAt"`

	// Resolved at the query boundary, not stored.
	Participants []UserExpedition `bson:"-" json:"participants,omitempty"`
	Creator      *UserProfile     `bson:"-" json:"creator,omitempty"`
	Workouts     []Workout        `bson:"-" json:"workouts,omitempty"`
}

// UserExpedition is the participation record for one user in one expedition.
// Row existence means "is participating"; a compound unique index on
// (userProfileId, expeditionId) is the sole guard against double-joining.
// PointsEarned is scoped to this expedition and maintained incrementally.
type UserExpedition struct {
	ID            string    `bson:"_id" json:"id"`
	UserProfileID string    `bson:"userProfileId" json:"userProfileId"`
	ExpeditionID  string    `bson:"expeditionId" json:"expeditionId"`
	PointsEarned  float64   `bson:"pointsEarned" json:"pointsEarned"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
	JoinedAt      time.Time `bson:"joinedAt" json:"joinedAt"`

	UserProfile *UserProfile `bson:"-" json:"userProfile,omitempty"`
	Expedition  *Expedition  `bson:"-" json:"expedition,omitempty"`
}
