package matching_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	matchingapi "github.com/MrJamesThe3rd/finflow/internal/http/matching"
	"github.com/MrJamesThe3rd/finflow/internal/matching"
)

func setup(t *testing.T) (http.Handler, *matching.MockRepository, uuid.UUID) {
	t.Helper()

	repo := matching.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	matchingapi.NewHandler(matching.NewService(repo)).Routes(r)

	return r, repo, uuid.New()
}

func do(h http.Handler, userID uuid.UUID, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(auth.NewContext(req.Context(), auth.Session{UserID: userID}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Suggest(t *testing.T) {
	h, repo, userID := setup(t)
	repo.EXPECT().FindMatch(gomock.Any(), userID, "UPI-GUPTA STORES-gupta@ybl").Return("Gupta Stores", nil)

	rec := do(h, userID, http.MethodGet, "/suggest?raw=UPI-GUPTA+STORES-gupta@ybl", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"raw":"UPI-GUPTA STORES-gupta@ybl","party":"Gupta Stores"}`, rec.Body.String())

	rec = do(h, userID, http.MethodGet, "/suggest", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Learn(t *testing.T) {
	h, repo, userID := setup(t)
	repo.EXPECT().CreateMapping(gomock.Any(), userID, "GUPTA STORES", "Gupta Stores").Return(nil)

	rec := do(h, userID, http.MethodPost, "/", `{"raw_pattern":" GUPTA STORES ","party":"Gupta Stores"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(h, userID, http.MethodPost, "/", `{"raw_pattern":"","party":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
