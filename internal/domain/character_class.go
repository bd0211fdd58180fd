package domain

// CharacterClass is a seeded, read-mostly reference entity. The two
// multipliers scale workout points depending on whether the workout was
// done solo or with a group; both must be > 0.
type CharacterClass struct {
	ID              string   `bson:"_id" json:"id"` // slug, e.g. "warrior"
	Name            string   `bson:"name" json:"name"`
	Description     string   `bson:"description" json:"description"`
	Perks           []string `bson:"perks" json:"perks"`
	SoloMultiplier  float64  `bson:"soloMultiplier" json:"soloMultiplier"`
	GroupMultiplier float64  `bson:"groupMultiplier" json:"groupMultiplier"`
}
