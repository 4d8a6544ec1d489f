package domain

import (
	"fmt"
	"sort"
)

// Category is an Open Trivia DB category id. Zero means any category.
type Category int

const (
	CategoryAny              Category = 0
	CategoryGeneralKnowledge Category = 9
	CategoryBooks            Category = 10
	CategoryFilm             Category = 11
	CategoryMusic            Category = 12
	CategoryTelevision       Category = 14
	CategoryVideoGames       Category = 15
	CategoryScienceNature    Category = 17
	CategoryComputers        Category = 18
	CategoryMathematics      Category = 19
	CategorySports           Category = 21
	CategoryGeography        Category = 22
	CategoryHistory          Category = 23
	CategoryPolitics         Category = 24
	CategoryArt              Category = 25
	CategoryCelebrities      Category = 26
	CategoryAnimals          Category = 27
)

var categoryNames = map[Category]string{
	CategoryGeneralKnowledge: "General Knowledge",
	CategoryBooks:            "Books",
	CategoryFilm:             "Film",
	CategoryMusic:            "Music",
	CategoryTelevision:       "Television",
	CategoryVideoGames:       "Video Games",
	CategoryScienceNature:    "Science & Nature",
	CategoryComputers:        "Computers",
	CategoryMathematics:      "Mathematics",
	CategorySports:           "Sports",
	CategoryGeography:        "Geography",
	CategoryHistory:          "History",
	CategoryPolitics:         "Politics",
	CategoryArt:              "Art",
	CategoryCelebrities:      "Celebrities",
	CategoryAnimals:          "Animals",
}

// Name returns the English display name, or "" for CategoryAny and unknown ids.
func (c Category) Name() string {
	return categoryNames[c]
}

// Valid reports whether c is CategoryAny or part of the catalog.
func (c Category) Valid() bool {
	if c == CategoryAny {
		return true
	}
	_, ok := categoryNames[c]
	return ok
}

// CategoryInfo is a catalog row.
type CategoryInfo struct {
	ID   Category `json:"id"`
	Name string   `json:"name"`
}

// Categories lists the catalog ordered by id.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categoryNames))
	for id, name := range categoryNames {
		out = append(out, CategoryInfo{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Difficulty is an Open Trivia DB difficulty. Empty means any difficulty.
type Difficulty string

const (
	DifficultyAny    Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficultyNames = map[Difficulty]string{
	DifficultyEasy:   "Easy",
	DifficultyMedium: "Medium",
	DifficultyHard:   "Hard",
}

// Name returns the English display name, or "" for DifficultyAny and unknown values.
func (d Difficulty) Name() string {
	return difficultyNames[d]
}

// Valid reports whether d is DifficultyAny or one of the known levels.
func (d Difficulty) Valid() bool {
	if d == DifficultyAny {
		return true
	}
	_, ok := difficultyNames[d]
	return ok
}

// Difficulties lists the known levels from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty validates a raw difficulty string.
func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(raw)
	if !d.Valid() {
		return DifficultyAny, fmt.Errorf("%w: %q", ErrUnknownDifficulty, raw)
	}
	return d, nil
}
