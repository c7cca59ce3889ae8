package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/matching"
)

var userID = uuid.MustParse("0d8f2b55-3c1e-4a7a-9d4c-2f6e8b1a7c90")

func TestService_Suggest(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		setupMock func(m *matching.MockRepository)
		want      string
		wantErr   bool
	}{
		{
			name: "Match",
			raw:  "  NEFT-HDFC0001234-SHARMA TRADERS ",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), userID, "NEFT-HDFC0001234-SHARMA TRADERS").Return("Sharma Traders", nil)
			},
			want: "Sharma Traders",
		},
		{
			name: "NoMatch",
			raw:  "UPI/1234/unknown",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), userID, "UPI/1234/unknown").Return("", nil)
			},
		},
		{
			name: "Blank",
			raw:  "   ",
		},
		{
			name: "Error",
			raw:  "x",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), userID, "x").Return("", errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := matching.NewService(repo).Suggest(context.Background(), userID, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	repo.EXPECT().CreateMapping(gomock.Any(), userID, "SHARMA TRAD", "Sharma Traders").Return(nil)
	require.NoError(t, svc.Learn(context.Background(), userID, " SHARMA TRAD ", " Sharma Traders"))

	err := svc.Learn(context.Background(), userID, "", " ")
	assert.ErrorIs(t, err, ledger.ErrInvalid)
	assert.Contains(t, err.Error(), "raw_pattern")
	assert.Contains(t, err.Error(), "party")
}
