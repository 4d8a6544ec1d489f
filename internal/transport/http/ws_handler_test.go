package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/clock"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T, scores app.ScoreStore) *httptest.Server {
	t.Helper()
	source := memory.NewStaticQuestionSource(memory.SampleQuestions())
	clk := clock.NewManual(time.Unix(1_700_000_000, 0))
	ws := NewWSHandler(func() *app.Engine {
		return app.New(app.Config{Questions: source, Scores: scores, Clock: clk})
	})
	srv := httptest.NewServer(NewRouter(RouterConfig{WS: ws, Scores: scores}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil reads frames until match returns true and returns that frame.
func readUntil(t *testing.T, conn *websocket.Conn, match func(frame) bool) frame {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		if match(f) {
			return f
		}
	}
}

func sessionWhere(t *testing.T, conn *websocket.Conn, ok func(domain.Session) bool) domain.Session {
	t.Helper()
	var s domain.Session
	readUntil(t, conn, func(f frame) bool {
		if f.Type != "session" {
			return false
		}
		var raw struct {
			State        string              `json:"state"`
			Questions    []domain.Question   `json:"questions"`
			CurrentIndex int                 `json:"currentIndex"`
			Score        int                 `json:"score"`
			Loading      bool                `json:"loading"`
			Error        string              `json:"error"`
			Scores       []domain.ScoreEntry `json:"scores"`
		}
		require.NoError(t, json.Unmarshal(f.Payload, &raw))
		s = domain.Session{
			State:        parseState(raw.State),
			Questions:    raw.Questions,
			CurrentIndex: raw.CurrentIndex,
			Score:        raw.Score,
			Loading:      raw.Loading,
			Error:        raw.Error,
			Scores:       raw.Scores,
		}
		return ok(s)
	})
	return s
}

func parseState(name string) domain.State {
	for st := domain.StateHome; st <= domain.StateScoreboard; st++ {
		if st.String() == name {
			return st
		}
	}
	return domain.State(-1)
}

func inState(state domain.State) func(domain.Session) bool {
	return func(s domain.Session) bool { return s.State == state && !s.Loading }
}

func TestWebSocketQuizFlow(t *testing.T) {
	scores := memory.NewScoreStore()
	conn := dial(t, newTestServer(t, scores))

	sessionWhere(t, conn, inState(domain.StateHome))

	send(t, conn, "play", nil)
	sessionWhere(t, conn, inState(domain.StateCategorySelection))

	send(t, conn, "selectCategory", map[string]any{"category": int(domain.CategoryHistory)})
	sessionWhere(t, conn, inState(domain.StateDifficultySelection))

	send(t, conn, "selectDifficulty", map[string]any{"difficulty": "easy"})
	s := sessionWhere(t, conn, func(s domain.Session) bool { return s.State == domain.StatePlaying && len(s.Questions) > 0 })
	require.Len(t, s.Questions, 1)
	require.Equal(t, "1945", s.Questions[0].CorrectAnswer)

	send(t, conn, "answer", map[string]any{"answer": "1945"})
	result := readUntil(t, conn, func(f frame) bool { return f.Type == "answerResult" })
	var ar answerResult
	require.NoError(t, json.Unmarshal(result.Payload, &ar))
	require.True(t, ar.Correct)

	send(t, conn, "answer", map[string]any{"answer": "1945"})
	errFrame := readUntil(t, conn, func(f frame) bool { return f.Type == "error" })
	var ep errorPayload
	require.NoError(t, json.Unmarshal(errFrame.Payload, &ep))
	require.Equal(t, "already_answered", ep.Code)

	send(t, conn, "next", nil)
	s = sessionWhere(t, conn, inState(domain.StateFinished))
	require.Equal(t, 1, s.Score)

	send(t, conn, "saveScore", map[string]any{"username": "Alice"})
	s = sessionWhere(t, conn, func(s domain.Session) bool { return s.State == domain.StateScoreboard && len(s.Scores) > 0 })
	require.Equal(t, "Alice", s.Scores[0].Username)
	require.Equal(t, "History", s.Scores[0].Category)
	require.Equal(t, "Easy", s.Scores[0].Difficulty)

	stored, err := scores.ListAll(t.Context())
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestWebSocketRejectsBadIntents(t *testing.T) {
	conn := dial(t, newTestServer(t, memory.NewScoreStore()))
	sessionWhere(t, conn, inState(domain.StateHome))

	tests := []struct {
		typ     string
		payload any
		code    string
	}{
		{typ: "dance", code: "unsupported"},
		{typ: "next", code: "invalid_transition"},
		{typ: "selectCategory", code: "bad_payload"},
		{typ: "selectCategory", payload: map[string]any{"category": 13}, code: "unknown_category"},
		{typ: "selectDifficulty", payload: map[string]any{"difficulty": "insane"}, code: "unknown_difficulty"},
	}
	for _, tt := range tests {
		send(t, conn, tt.typ, tt.payload)
		f := readUntil(t, conn, func(f frame) bool { return f.Type == "error" })
		var ep errorPayload
		require.NoError(t, json.Unmarshal(f.Payload, &ep))
		require.Equal(t, tt.code, ep.Code, tt.typ)
	}

	send(t, conn, "snapshot", nil)
	sessionWhere(t, conn, inState(domain.StateHome))
}

func TestWebSocketSaveScoreBlankName(t *testing.T) {
	conn := dial(t, newTestServer(t, memory.NewScoreStore()))
	sessionWhere(t, conn, inState(domain.StateHome))

	send(t, conn, "play", nil)
	send(t, conn, "selectCategory", map[string]any{"category": int(domain.CategoryGeography)})
	send(t, conn, "selectDifficulty", map[string]any{"difficulty": "hard"})
	sessionWhere(t, conn, func(s domain.Session) bool { return s.State == domain.StatePlaying && len(s.Questions) == 1 })

	send(t, conn, "next", nil)
	sessionWhere(t, conn, inState(domain.StateFinished))

	send(t, conn, "saveScore", map[string]any{"username": "  "})
	f := readUntil(t, conn, func(f frame) bool { return f.Type == "error" })
	var ep errorPayload
	require.NoError(t, json.Unmarshal(f.Payload, &ep))
	require.Equal(t, "blank_username", ep.Code)

	send(t, conn, "home", nil)
	sessionWhere(t, conn, inState(domain.StateHome))
}
