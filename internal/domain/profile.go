package domain

import "time"

// UserProfile carries the gameplay state of one user: cumulative points,
// level and the selected character class. Created lazily the first time a
// user picks a class. TotalPoints is only ever mutated through atomic
// increments so concurrent workout writes cannot lose updates.
type UserProfile struct {
	ID               string    `bson:"_id" json:"id"`
	UserID           string    `bson:"userId" json:"userId"` // Unique index
	CharacterClassID *string   `bson:"characterClassId,omitempty" json:"characterClassId,omitempty"`
	TotalPoints      float64   `bson:"totalPoints" json:"totalPoints"`
	Level            int       `bson:"level" json:"level"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`

	// Resolved at the query boundary, not stored.
	CharacterClass *CharacterClass `bson:"-" json:"characterClass,omitempty"`
	UserName       string          `bson:"-" json:"userName,omitempty"`
}
