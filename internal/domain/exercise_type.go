package domain

// ExerciseType is a seeded reference entity describing one kind of exercise
// and its MET (metabolic equivalent) intensity constant.
type ExerciseType struct {
	ID       string  `bson:"_id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	METValue float64 `bson:"metValue" json:"metValue"`
	Category string  `bson:"category" json:"category"`
}
