package search_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finflow/internal/auth"
	searchapi "github.com/MrJamesThe3rd/finflow/internal/http/search"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/search"
)

type cashList []*ledger.Cash

func (l cashList) List(_ context.Context, f ledger.Filter) ([]*ledger.Cash, error) {
	if f.Party == "" {
		return nil, nil
	}

	return l, nil
}

type chequeList []*ledger.Cheque

func (l chequeList) List(context.Context, ledger.Filter) ([]*ledger.Cheque, error) { return l, nil }

type digitalList []*ledger.Digital

func (l digitalList) List(context.Context, ledger.Filter) ([]*ledger.Digital, error) { return l, nil }

func TestHandler_Search(t *testing.T) {
	books := ledger.Books{
		Cash:    cashList{{Entry: ledger.Entry{ID: uuid.New(), Party: "Gupta Stores", Amount: 100}}},
		Cheques: chequeList{{Entry: ledger.Entry{ID: uuid.New(), Party: "Gupta Stores", Amount: 200}, BankName: "HDFC Bank"}},
		Digital: digitalList{},
	}

	r := chi.NewRouter()
	searchapi.NewHandler(search.NewService(books)).Routes(r)

	tests := []struct {
		name      string
		target    string
		wantKinds []string
	}{
		{name: "All", target: "/?query=gupta", wantKinds: []string{"cash", "cheque"}},
		{name: "CashOnly", target: "/?query=gupta&category=cash", wantKinds: []string{"cash"}},
		{name: "BlankQuery", target: "/?query=%20", wantKinds: []string{}},
		{name: "UnknownCategory", target: "/?query=gupta&category=crypto", wantKinds: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req = req.WithContext(auth.NewContext(req.Context(), auth.Session{UserID: uuid.New()}))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var got []struct {
				Kind string `json:"kind"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

			kinds := make([]string, len(got))
			for i, g := range got {
				kinds[i] = g.Kind
			}

			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}
