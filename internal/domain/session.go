package domain

import (
	"encoding/json"
	"fmt"
)

// State is the screen-level position of a quiz session.
type State int

const (
	StateHome State = iota
	StateCategorySelection
	StateDifficultySelection
	StatePlaying
	StateFinished
	StateScoreboard
)

var stateNames = [...]string{
	StateHome:                "home",
	StateCategorySelection:   "category_selection",
	StateDifficultySelection: "difficulty_selection",
	StatePlaying:             "playing",
	StateFinished:            "finished",
	StateScoreboard:          "scoreboard",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Session is an immutable snapshot of a quiz session. The engine replaces it as a whole
// on every event; slices inside a snapshot are never written after publication.
type Session struct {
	State      State      `json:"state"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`

	Questions     []Question `json:"questions,omitempty"`
	CurrentIndex  int        `json:"currentIndex"`
	Choices       []string   `json:"choices,omitempty"`
	Score         int        `json:"score"`
	TimeRemaining int        `json:"timeRemaining"`

	// Answer guard for the current question.
	Answered       bool   `json:"answered"`
	TimedOut       bool   `json:"timedOut"`
	SelectedAnswer string `json:"selectedAnswer,omitempty"`
	LastCorrect    bool   `json:"lastCorrect"`

	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`

	Scores []ScoreEntry `json:"scores,omitempty"`

	Version uint64 `json:"version"`
}

// CurrentQuestion returns the question at CurrentIndex, if a batch is loaded.
func (s Session) CurrentQuestion() (Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// IsLastQuestion reports whether the current question closes the batch.
func (s Session) IsLastQuestion() bool {
	return len(s.Questions) > 0 && s.CurrentIndex == len(s.Questions)-1
}
