package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweave/tripweave/extract"
	"github.com/tripweave/tripweave/flow"
	"github.com/tripweave/tripweave/intent"
	"github.com/tripweave/tripweave/planner"
	"github.com/tripweave/tripweave/session"
)

// fakeGen answers extraction and planning prompts with canned payloads.
type fakeGen struct {
	extractReply string
	planReply    string
}

func (g *fakeGen) Generate(ctx context.Context, msgs []*schema.Message) (string, error) {
	system := msgs[0].Content
	switch {
	case strings.Contains(system, "travel information extractor"):
		if g.extractReply == "" {
			return "{}", nil
		}
		return g.extractReply, nil
	case strings.Contains(system, "travel itinerary planner"):
		return g.planReply, nil
	default:
		return "Happy to help.", nil
	}
}

func newTestServer(gen *fakeGen) (*Server, session.Store) {
	store := session.NewMemoryStore()
	controller := flow.NewController(store, extract.New(gen), planner.New(gen), intent.NewClassifier())
	return NewServer(store, controller), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestCreateSessionReturnsWelcome(t *testing.T) {
	srv, store := newTestServer(&fakeGen{})
	router := srv.Router()

	rec, out := doJSON(t, router, http.MethodPost, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	id, _ := out["session_id"].(string)
	require.NotEmpty(t, id)
	assert.Contains(t, out["message"], "Welcome to the travel planner!")

	// The welcome turn lands in the history.
	sess, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, session.RoleAssistant, sess.Messages[0].Role)
}

func TestChatUnknownSession(t *testing.T) {
	srv, _ := newTestServer(&fakeGen{})
	rec, out := doJSON(t, srv.Router(), http.MethodPost, "/api/chat",
		map[string]any{"session_id": "nope", "message": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "session not found", out["error"])
}

func TestChatInvalidBody(t *testing.T) {
	srv, _ := newTestServer(&fakeGen{})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatCollectingTurn(t *testing.T) {
	gen := &fakeGen{extractReply: `{"trip_duration_days": 3, "destinations": ["Jaipur"]}`}
	srv, store := newTestServer(gen)
	router := srv.Router()

	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	rec, out := doJSON(t, router, http.MethodPost, "/api/chat",
		map[string]any{"session_id": sess.ID, "message": "3 days in Jaipur"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "question", out["response_type"])
	assert.Contains(t, out["message"], "Progress: 2/19 fields complete")

	status, ok := out["form_status"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, status["is_complete"])
}

func TestFormStatusEndpoint(t *testing.T) {
	srv, store := newTestServer(&fakeGen{})
	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	rec, out := doJSON(t, srv.Router(), http.MethodGet, "/api/form/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["is_complete"])
	assert.Equal(t, false, out["is_locked"])
	missing, ok := out["missing_fields"].([]any)
	require.True(t, ok)
	assert.Len(t, missing, 19)
}

func fullSubmission() map[string]any {
	return map[string]any{
		"destinations":       []any{"Jaipur"},
		"group_type":         "couple",
		"traveler_count":     2,
		"trip_duration_days": 3,
		"start_date":         "2026-03-15",
		"end_date":           "2026-03-17",
		"daily_start_time":   "09:00",
		"daily_end_time":     "18:00",
		"sightseeing_pace":   "moderate",
		"travel_mode":        "driving",
	}
}

func TestSubmitFormEndpoint(t *testing.T) {
	srv, store := newTestServer(&fakeGen{})
	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	rec, out := doJSON(t, srv.Router(), http.MethodPost, "/api/form/"+sess.ID, fullSubmission())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, true, out["form_locked"])

	// A second submission bounces off the locked form.
	rec, out = doJSON(t, srv.Router(), http.MethodPost, "/api/form/"+sess.ID, fullSubmission())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "locked")
}

func TestSubmitFormMissingFields(t *testing.T) {
	srv, store := newTestServer(&fakeGen{})
	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	body := fullSubmission()
	delete(body, "travel_mode")

	rec, out := doJSON(t, srv.Router(), http.MethodPost, "/api/form/"+sess.ID, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	missing, ok := out["missing_fields"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"travel_mode"}, missing)
}

func TestUpdateFormEndpoint(t *testing.T) {
	srv, store := newTestServer(&fakeGen{})
	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	rec, out := doJSON(t, srv.Router(), http.MethodPut, "/api/form/"+sess.ID,
		map[string]any{"field_updates": map[string]any{"traveler_count": 4}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])

	status := out["form_status"].(map[string]any)
	filled := status["filled_fields"].(map[string]any)
	assert.Equal(t, 4.0, filled["traveler_count"])
}

func TestUpdateFormValidationErrors(t *testing.T) {
	srv, store := newTestServer(&fakeGen{})
	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	rec, out := doJSON(t, srv.Router(), http.MethodPut, "/api/form/"+sess.ID,
		map[string]any{"field_updates": map[string]any{"group_type": "platoon"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	invalid, ok := out["invalid_fields"].([]any)
	require.True(t, ok)
	require.Len(t, invalid, 1)
	field := invalid[0].(map[string]any)
	assert.Equal(t, "group_type", field["field"])
}

func TestItineraryEndpointBeforePlanning(t *testing.T) {
	srv, store := newTestServer(&fakeGen{})
	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	rec, out := doJSON(t, srv.Router(), http.MethodGet, "/api/itinerary/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, out["itinerary"])
	assert.Equal(t, "No itinerary generated yet", out["message"])
}

func TestItineraryAndVersionsAfterPlanning(t *testing.T) {
	gen := &fakeGen{planReply: `{
		"summary": "Three days in Jaipur.",
		"days": [{"day_number": 1, "activities": [
			{"time_slot": "09:00 - 12:00", "location": "Amber Fort", "travel_distance_km": 11}
		]}]
	}`}
	srv, store := newTestServer(gen)
	router := srv.Router()
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, srv.flow.SubmitForm(ctx, sess, fullSubmission()))

	rec, out := doJSON(t, router, http.MethodPost, "/api/chat",
		map[string]any{"session_id": sess.ID, "message": "yes, generate"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "itinerary", out["response_type"])

	rec, out = doJSON(t, router, http.MethodGet, "/api/itinerary/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	it, ok := out["itinerary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, it["version"])
	assert.Equal(t, "Three days in Jaipur.", it["summary"])
	assert.Equal(t, 1.0, out["total_versions"])

	rec, out = doJSON(t, router, http.MethodGet, "/api/itinerary/"+sess.ID+"/versions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	versions, ok := out["versions"].([]any)
	require.True(t, ok)
	require.Len(t, versions, 1)
	first := versions[0].(map[string]any)
	assert.Equal(t, 1.0, first["version"])
	assert.Equal(t, "Three days in Jaipur.", first["summary"])
}

func TestMessagesEndpoint(t *testing.T) {
	srv, store := newTestServer(&fakeGen{})
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	sess.AddMessage(session.RoleUser, "hello")
	sess.AddMessage(session.RoleAssistant, "hi!")
	require.NoError(t, store.Update(ctx, sess))

	rec, out := doJSON(t, srv.Router(), http.MethodGet, "/api/messages/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msgs, ok := out["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	firstMsg := msgs[0].(map[string]any)
	assert.Equal(t, "user", firstMsg["role"])
	assert.Equal(t, "hello", firstMsg["content"])
}

func TestConcurrentChatAndReads(t *testing.T) {
	// Read handlers share the chat handler's per-session lock; interleaved
	// chat turns and reads must not race on the session's append-only lists.
	gen := &fakeGen{extractReply: `{"destinations": ["Jaipur"]}`}
	srv, store := newTestServer(gen)
	router := srv.Router()

	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec, _ := doJSON(t, router, http.MethodPost, "/api/chat",
				map[string]any{"session_id": sess.ID, "message": "Jaipur please"})
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
		go func() {
			defer wg.Done()
			for _, path := range []string{
				"/api/form/" + sess.ID,
				"/api/messages/" + sess.ID,
				"/api/itinerary/" + sess.ID,
				"/api/itinerary/" + sess.ID + "/versions",
			} {
				rec, _ := doJSON(t, router, http.MethodGet, path, nil)
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		}()
	}
	wg.Wait()
}

func TestGetEndpointsUnknownSession(t *testing.T) {
	srv, _ := newTestServer(&fakeGen{})
	router := srv.Router()
	for _, path := range []string{
		"/api/form/unknown",
		"/api/itinerary/unknown",
		"/api/itinerary/unknown/versions",
		"/api/messages/unknown",
	} {
		rec, _ := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
	}
}
