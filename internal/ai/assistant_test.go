package ai_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/ai"
)

// assistantServer fakes the assistants API surface: file upload, thread and
// run creation, run polling, message listing.
type assistantServer struct {
	t            *testing.T
	finalStatus  string
	replyText    string
	pollsNeeded  int32
	polls        int32
	fileDeleted  atomic.Bool
	fileUploaded atomic.Bool
}

func (s *assistantServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(s.t, r.ParseMultipartForm(16<<20))
		assert.Equal(s.t, "assistants", r.FormValue("purpose"))
		s.fileUploaded.Store(true)
		writeJSON(w, map[string]string{"id": "file-123"})
	})
	mux.HandleFunc("DELETE /files/file-123", func(w http.ResponseWriter, _ *http.Request) {
		s.fileDeleted.Store(true)
		writeJSON(w, map[string]bool{"deleted": true})
	})
	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(s.t, "assistants=v2", r.Header.Get("OpenAI-Beta"))
		assert.Equal(s.t, "Bearer test-key", r.Header.Get("Authorization"))
		writeJSON(w, map[string]string{"id": "thread-1"})
	})
	mux.HandleFunc("POST /threads/thread-1/messages", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"id": "msg-1"})
	})
	mux.HandleFunc("POST /threads/thread-1/runs", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(s.t, "asst-1", body["assistant_id"])
		writeJSON(w, map[string]string{"id": "run-1", "status": "queued"})
	})
	mux.HandleFunc("GET /threads/thread-1/runs/run-1", func(w http.ResponseWriter, _ *http.Request) {
		status := "in_progress"
		if atomic.AddInt32(&s.polls, 1) >= s.pollsNeeded {
			status = s.finalStatus
		}
		writeJSON(w, map[string]string{"id": "run-1", "status": status})
	})
	mux.HandleFunc("GET /threads/thread-1/messages", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"data": []map[string]any{{
				"content": []map[string]any{{
					"type": "text",
					"text": map[string]string{"value": s.replyText},
				}},
			}},
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newAssistant(t *testing.T, srv *assistantServer) *ai.Assistant {
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)
	return ai.NewAssistant(ai.Config{
		BaseURL:      ts.URL,
		APIKey:       "test-key",
		AssistantID:  "asst-1",
		PollInterval: time.Millisecond,
	})
}

func TestAnalyzeImage(t *testing.T) {
	srv := &assistantServer{
		t:           t,
		finalStatus: "completed",
		pollsNeeded: 3,
		replyText:   `{"name":"salmon bowl","nutrients":{"calories":500,"protein":30,"carbohydrates":40,"fat":20,"fiber":5,"sugar":8,"sodium":700}}`,
	}
	assistant := newAssistant(t, srv)

	res, err := assistant.AnalyzeImage(t.Context(), []byte("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "salmon bowl", res.Name)
	assert.EqualValues(t, 500, res.Nutrients.Calories)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&srv.polls), int32(3), "run must be polled until terminal")
	assert.True(t, srv.fileUploaded.Load())

	// Cleanup is asynchronous only in the sense of being best effort; give
	// the delete call a moment.
	assert.Eventually(t, srv.fileDeleted.Load, time.Second, 10*time.Millisecond)
}

func TestAnalyzeImageRunFailed(t *testing.T) {
	srv := &assistantServer{t: t, finalStatus: "failed", pollsNeeded: 1}
	assistant := newAssistant(t, srv)

	_, err := assistant.AnalyzeImage(t.Context(), []byte("jpeg bytes"))
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestAnalyzeImageMalformedReply(t *testing.T) {
	srv := &assistantServer{t: t, finalStatus: "completed", pollsNeeded: 1, replyText: "sorry, I cannot"}
	assistant := newAssistant(t, srv)

	_, err := assistant.AnalyzeImage(t.Context(), []byte("jpeg bytes"))
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestRecommend(t *testing.T) {
	reply := map[string]any{"recommendations": map[string]string{
		"calories": "Trim evening snacks.",
		"sodium":   "Watch processed foods.",
	}}
	data, err := json.Marshal(reply)
	require.NoError(t, err)

	srv := &assistantServer{t: t, finalStatus: "completed", pollsNeeded: 2, replyText: string(data)}
	assistant := newAssistant(t, srv)

	res, err := assistant.Recommend(t.Context(), []domain.Nutrients{{Calories: 500}})
	require.NoError(t, err)
	assert.Equal(t, "Trim evening snacks.", res.Recommendations["calories"])
	assert.Equal(t, "Watch processed foods.", res.Recommendations["sodium"])
}

func TestRecommendMalformedReply(t *testing.T) {
	srv := &assistantServer{t: t, finalStatus: "completed", pollsNeeded: 1, replyText: "no json here"}
	assistant := newAssistant(t, srv)

	res, err := assistant.Recommend(t.Context(), []domain.Nutrients{{Calories: 500}})
	require.NoError(t, err, "garbled advisories are not a hard failure")
	assert.Nil(t, res.Recommendations)
}

func TestUploadFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/files") {
			http.Error(w, "over quota", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, "{}")
	}))
	t.Cleanup(ts.Close)

	assistant := ai.NewAssistant(ai.Config{BaseURL: ts.URL, APIKey: "k", AssistantID: "a", PollInterval: time.Millisecond})
	_, err := assistant.AnalyzeImage(t.Context(), []byte("jpeg bytes"))
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
