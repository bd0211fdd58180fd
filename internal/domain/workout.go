package domain

import "time"

// Workout is one logged exercise session. Points holds the final computed
// value (base points scaled by the owner's character-class multiplier) and
// is copied into the profile and expedition aggregates as a delta, never
// recomputed from scratch. A workout is mutable and deletable only while
// now - WorkoutDate <= 24h.
type Workout struct {
	ID            string    `bson:"_id" json:"id"`
	UserProfileID string    `bson:"userProfileId" json:"userProfileId"`
	ExpeditionID  *string   `bson:"expeditionId,omitempty" json:"expeditionId,omitempty"` // nil for standalone workouts
	ExerciseType  string    `bson:"exerciseType" json:"exerciseType"`                     // denormalized display name
	Duration      int       `bson:"duration" json:"duration"`                             // minutes
	METValue      float64   `bson:"metValue" json:"metValue"`                             // copied from the exercise type at logging time
	Points        float64   `bson:"points" json:"points"`
	IsSolo        bool      `bson:"isSolo" json:"isSolo"`
	IsPublic      bool      `bson:"isPublic" json:"isPublic"`
	Notes         *string   `bson:"notes,omitempty" json:"notes,omitempty"`
	WorkoutDate   time.Time `bson:"workoutDate" json:"workoutDate"` // when the exercise happened, not when it was logged
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`

	// Resolved at the query boundary, not stored.
	Photos      []WorkoutPhoto `bson:"-" json:"photos,omitempty"`
	UserProfile *UserProfile   `bson:"-" json:"userProfile,omitempty"`
}

// WorkoutPhoto is a child record of Workout pointing at an object in S3.
type WorkoutPhoto struct {
	ID        string    `bson:"_id" json:"id"`
	WorkoutID string    `bson:"workoutId" json:"workoutId"`
	URL       string    `bson:"url" json:"url"`
	ObjectKey string    `bson:"objectKey,omitempty" json:"-"`
	Caption   string    `bson:"caption,omitempty" json:"caption,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
