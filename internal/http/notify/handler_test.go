package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	notifyapi "github.com/MrJamesThe3rd/finflow/internal/http/notify"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/notify"
)

type feed struct {
	Pending int    `json:"pending"`
	Dropped uint64 `json:"dropped"`
	Events  []struct {
		Seq         uint64 `json:"seq"`
		Table       string `json:"table"`
		Action      string `json:"action"`
		Description string `json:"description"`
	} `json:"events"`
}

func setup(t *testing.T, capacity, changes int) (http.Handler, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	hub := notify.NewHub(capacity)

	at := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := range changes {
		hub.Notify(context.Background(), ledger.Change{
			Table:    "cheques",
			Action:   ledger.ActionInsert,
			RecordID: uuid.New(),
			UserID:   userID,
			At:       at.Add(time.Duration(i) * time.Minute),
		})
	}

	r := chi.NewRouter()
	notifyapi.NewHandler(hub).Routes(r)

	return r, userID
}

func call(t *testing.T, h http.Handler, userID uuid.UUID, method, target string) (*httptest.ResponseRecorder, feed) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	req = req.WithContext(auth.NewContext(req.Context(), auth.Session{UserID: userID}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var f feed
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	}

	return rec, f
}

func TestHandler_Peek(t *testing.T) {
	h, userID := setup(t, 50, 7)

	rec, f := call(t, h, userID, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 7, f.Pending)
	require.Len(t, f.Events, notifyapi.DefaultLimit)
	assert.Equal(t, uint64(7), f.Events[0].Seq)
	assert.Equal(t, "New INSERT in cheques", f.Events[0].Description)

	_, f = call(t, h, userID, http.MethodGet, "/?limit=10")
	assert.Len(t, f.Events, 7)
	assert.Equal(t, 7, f.Pending)
}

func TestHandler_Drain(t *testing.T) {
	h, userID := setup(t, 50, 7)

	rec, f := call(t, h, userID, http.MethodPost, "/drain")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.Events, 5)
	assert.Equal(t, 2, f.Pending)

	_, f = call(t, h, userID, http.MethodPost, "/drain")
	require.Len(t, f.Events, 2)
	assert.Equal(t, uint64(2), f.Events[0].Seq)
	assert.Equal(t, 0, f.Pending)
}

func TestHandler_Overflow(t *testing.T) {
	h, userID := setup(t, 3, 5)

	_, f := call(t, h, userID, http.MethodGet, "/")
	assert.Equal(t, 3, f.Pending)
	assert.Equal(t, uint64(2), f.Dropped)
	require.Len(t, f.Events, 3)
	assert.Equal(t, uint64(3), f.Events[2].Seq)
}

func TestHandler_Clear(t *testing.T) {
	h, userID := setup(t, 50, 2)

	rec, _ := call(t, h, userID, http.MethodDelete, "/")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, f := call(t, h, userID, http.MethodGet, "/")
	assert.Zero(t, f.Pending)
	assert.Empty(t, f.Events)
}

func TestHandler_OtherUserSeesNothing(t *testing.T) {
	h, _ := setup(t, 50, 3)

	_, f := call(t, h, uuid.New(), http.MethodGet, "/")
	assert.Zero(t, f.Pending)
	assert.Empty(t, f.Events)
}
