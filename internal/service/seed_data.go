package service

import "fitquest/expedition-app/internal/domain"

// Seed data for the reference collections. Character-class multipliers are
// balance constants: solo workouts are penalized, group workouts rewarded,
// with the spread varying per class.
var defaultCharacterClasses = []domain.CharacterClass{
	{
		ID:   "warrior",
		Name: "Warrior",
		Description: "A fierce fighter who excels in strength training and endurance challenges. " +
			"Warriors gain bonus points for weightlifting and high-intensity workouts.",
		Perks: []string{
			"Strength training bonus: +20% points for weightlifting",
			"Endurance boost: +15% points for cardio over 30 minutes",
			"Battle cry: +10% points for group workouts",
		},
		SoloMultiplier:  0.6,
		GroupMultiplier: 1.2,
	},
	{
		ID:   "mage",
		Name: "Mage",
		Description: "A wise scholar who focuses on flexibility and mind-body connection. " +
			"Mages excel at yoga, pilates, and meditation-based exercises.",
		Perks: []string{
			"Flexibility mastery: +25% points for yoga and pilates",
			"Mind-body connection: +15% points for meditation and breathing exercises",
			"Arcane focus: +10% points for solo workouts",
		},
		SoloMultiplier:  0.9,
		GroupMultiplier: 1.1,
	},
	{
		ID:   "rogue",
		Name: "Rogue",
		Description: "A nimble adventurer who thrives on agility and speed. " +
			"Rogues are masters of quick, intense workouts and outdoor activities.",
		Perks: []string{
			"Agility training: +20% points for HIIT and interval training",
			"Outdoor mastery: +25% points for running and cycling",
			"Stealth mode: +15% points for early morning workouts",
		},
		SoloMultiplier:  0.8,
		GroupMultiplier: 1.15,
	},
	{
		ID:   "paladin",
		Name: "Paladin",
		Description: "A noble protector who balances strength and endurance. " +
			"Paladins excel at functional fitness and team-based activities.",
		Perks: []string{
			"Functional fitness: +20% points for crossfit and functional training",
			"Team leadership: +25% points for group workouts",
			"Divine endurance: +15% points for long-duration activities",
		},
		SoloMultiplier:  0.7,
		GroupMultiplier: 1.25,
	},
	{
		ID:   "ranger",
		Name: "Ranger",
		Description: "A nature-loving explorer who excels at outdoor activities and endurance challenges. " +
			"Rangers are masters of hiking, swimming, and outdoor sports.",
		Perks: []string{
			"Nature's blessing: +30% points for outdoor activities",
			"Endurance mastery: +20% points for activities over 45 minutes",
			"Wilderness survival: +15% points for early morning workouts",
		},
		SoloMultiplier:  0.75,
		GroupMultiplier: 1.1,
	},
}

// MET values from the compendium of physical activities.
var defaultExerciseTypes = []domain.ExerciseType{
	// Cardio
	{Name: "Running (6 mph)", METValue: 9.8, Category: "cardio"},
	{Name: "Running (7 mph)", METValue: 11.0, Category: "cardio"},
	{Name: "Running (8 mph)", METValue: 11.8, Category: "cardio"},
	{Name: "Cycling (moderate)", METValue: 8.0, Category: "cardio"},
	{Name: "Cycling (vigorous)", METValue: 12.0, Category: "cardio"},
	{Name: "Swimming (moderate)", METValue: 5.8, Category: "cardio"},
	{Name: "Swimming (vigorous)", METValue: 9.8, Category: "cardio"},
	{Name: "Rowing (moderate)", METValue: 7.0, Category: "cardio"},
	{Name: "Rowing (vigorous)", METValue: 12.0, Category: "cardio"},
	{Name: "Elliptical", METValue: 5.0, Category: "cardio"},
	{Name: "Stair climbing", METValue: 8.0, Category: "cardio"},
	{Name: "Jump rope", METValue: 12.3, Category: "cardio"},
	{Name: "Hiking", METValue: 6.0, Category: "cardio"},
	{Name: "Walking (3 mph)", METValue: 3.5, Category: "cardio"},
	{Name: "Walking (4 mph)", METValue: 5.0, Category: "cardio"},

	// Strength Training
	{Name: "Weightlifting (moderate)", METValue: 5.0, Category: "strength"},
	{Name: "Weightlifting (vigorous)", METValue: 6.0, Category: "strength"},
	{Name: "Bodyweight exercises", METValue: 4.0, Category: "strength"},
	{Name: "CrossFit", METValue: 8.0, Category: "strength"},
	{Name: "Circuit training", METValue: 8.0, Category: "strength"},
	{Name: "Calisthenics", METValue: 4.0, Category: "strength"},
	{Name: "Powerlifting", METValue: 6.0, Category: "strength"},

	// HIIT & Interval Training
	{Name: "HIIT", METValue: 8.0, Category: "hiit"},
	{Name: "Tabata", METValue: 12.0, Category: "hiit"},
	{Name: "Interval running", METValue: 10.0, Category: "hiit"},
	{Name: "Interval cycling", METValue: 9.0, Category: "hiit"},

	// Flexibility & Mind-Body
	{Name: "Yoga (Hatha)", METValue: 2.5, Category: "flexibility"},
	{Name: "Yoga (Vinyasa)", METValue: 4.0, Category: "flexibility"},
	{Name: "Yoga (Power)", METValue: 4.0, Category: "flexibility"},
	{Name: "Pilates", METValue: 3.0, Category: "flexibility"},
	{Name: "Stretching", METValue: 2.5, Category: "flexibility"},
	{Name: "Meditation", METValue: 1.0, Category: "mind-body"},
	{Name: "Tai Chi", METValue: 4.0, Category: "mind-body"},

	// Sports
	{Name: "Basketball", METValue: 6.5, Category: "sports"},
	{Name: "Soccer", METValue: 7.0, Category: "sports"},
	{Name: "Tennis", METValue: 7.3, Category: "sports"},
	{Name: "Volleyball", METValue: 3.0, Category: "sports"},
	{Name: "Badminton", METValue: 5.5, Category: "sports"},
	{Name: "Squash", METValue: 12.0, Category: "sports"},
	{Name: "Rock climbing", METValue: 8.0, Category: "sports"},

	// Dance
	{Name: "Dancing (moderate)", METValue: 4.8, Category: "dance"},
	{Name: "Dancing (vigorous)", METValue: 7.0, Category: "dance"},
	{Name: "Zumba", METValue: 5.0, Category: "dance"},
	{Name: "Aerobics", METValue: 6.5, Category: "dance"},

	// Martial Arts
	{Name: "Karate", METValue: 10.0, Category: "martial-arts"},
	{Name: "Judo", METValue: 10.0, Category: "martial-arts"},
	{Name: "Boxing", METValue: 12.0, Category: "martial-arts"},
	{Name: "Muay Thai", METValue: 12.0, Category: "martial-arts"},
}
