package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

var (
	errBadPayload  = errors.New("invalid payload")
	errUnsupported = errors.New("unsupported message type")
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type categoryPayload struct {
	Category int `json:"category"`
}

type difficultyPayload struct {
	Difficulty string `json:"difficulty"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type usernamePayload struct {
	Username string `json:"username"`
}

// dispatch applies one client intent to the engine. The returned message, if any, is
// sent in addition to the session snapshots the engine publishes.
func dispatch(ctx context.Context, e *app.Engine, msg inboundMessage) (*outboundMessage, error) {
	switch msg.Type {
	case "snapshot":
		return &outboundMessage{Type: "session", Payload: e.Snapshot()}, nil
	case "play":
		return nil, e.Play()
	case "scoreboard":
		return nil, e.ViewScoreboard(ctx)
	case "selectCategory":
		var p categoryPayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		return nil, e.SelectCategory(domain.Category(p.Category))
	case "selectDifficulty":
		var p difficultyPayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		d, err := domain.ParseDifficulty(p.Difficulty)
		if err != nil {
			return nil, err
		}
		return nil, e.SelectDifficulty(d)
	case "answer":
		var p answerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		correct, err := e.SelectAnswer(p.Answer)
		if err != nil {
			return nil, err
		}
		return &outboundMessage{Type: "answerResult", Payload: answerResult{Answer: p.Answer, Correct: correct}}, nil
	case "next":
		return nil, e.NextQuestion()
	case "back":
		return nil, e.Back()
	case "retry":
		return nil, e.Retry(ctx)
	case "saveScore":
		var p usernamePayload
		if err := decode(msg.Payload, &p); err != nil {
			return nil, err
		}
		return nil, e.SaveScore(ctx, p.Username)
	case "clearScores":
		return nil, e.ClearScores(ctx)
	case "playAgain":
		return nil, e.PlayAgain()
	case "home":
		e.ResetToHome()
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupported, msg.Type)
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", errBadPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrBlankUsername):
		return "blank_username"
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return "already_answered"
	case errors.Is(err, domain.ErrNoCurrentQuestion):
		return "no_current_question"
	case errors.Is(err, domain.ErrNoPendingRequest):
		return "nothing_to_retry"
	case errors.Is(err, domain.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, domain.ErrUnknownDifficulty):
		return "unknown_difficulty"
	case errors.Is(err, errBadPayload):
		return "bad_payload"
	case errors.Is(err, errUnsupported):
		return "unsupported"
	case errors.Is(err, app.ErrClosed):
		return "closed"
	default:
		return "internal"
	}
}
