package domain

import "time"

// UserArtifact is a reward record. Award logic lives outside this core;
// the rows only matter here because account deletion must remove them.
type UserArtifact struct {
	ID            string    `bson:"_id" json:"id"`
	UserProfileID string    `bson:"userProfileId" json:"userProfileId"`
	ArtifactID    string    `bson:"artifactId" json:"artifactId"`
	ExpeditionID  *string   `bson:"expeditionId,omitempty" json:"expeditionId,omitempty"`
	EarnedAt      time.Time `bson:"earnedAt" json:"earnedAt"`
}
