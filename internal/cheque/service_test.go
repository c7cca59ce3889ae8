package cheque_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finflow/internal/cheque"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
	"github.com/MrJamesThe3rd/finflow/internal/notify"
)

var (
	userID = uuid.New()
	now    = time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)
)

func clock() time.Time { return now }

func validParams() cheque.CreateParams {
	return cheque.CreateParams{
		Date:         time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Party:        "Mehta & Sons",
		Amount:       2500000,
		Direction:    ledger.DirectionOutgoing,
		ChequeNumber: " 004512 ",
		BankName:     " HDFC Bank ",
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name       string
		params     func() cheque.CreateParams
		setupMock  func(m *cheque.MockRepository)
		wantStatus ledger.ChequeStatus
		wantErr    error
	}

	tests := []testCase{
		{
			name:   "DefaultsToPending",
			params: validParams,
			setupMock: func(m *cheque.MockRepository) {
				m.EXPECT().
					CreateCheque(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *ledger.Cheque) error {
						c.ID = uuid.New()
						return nil
					})
			},
			wantStatus: ledger.ChequePending,
		},
		{
			name: "ExplicitStatus",
			params: func() cheque.CreateParams {
				p := validParams()
				p.Status = ledger.ChequeCleared

				return p
			},
			setupMock: func(m *cheque.MockRepository) {
				m.EXPECT().CreateCheque(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: ledger.ChequeCleared,
		},
		{
			name: "MissingChequeNumber",
			params: func() cheque.CreateParams {
				p := validParams()
				p.ChequeNumber = "  "

				return p
			},
			wantErr: ledger.ErrInvalid,
		},
		{
			name: "UnknownStatus",
			params: func() cheque.CreateParams {
				p := validParams()
				p.Status = "stopped"

				return p
			},
			wantErr: ledger.ErrInvalid,
		},
		{
			name:   "RepoError",
			params: validParams,
			setupMock: func(m *cheque.MockRepository) {
				m.EXPECT().CreateCheque(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := cheque.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			hub := notify.NewHub(10)
			svc := cheque.NewService(repo, hub).WithClock(clock)

			got, err := svc.Create(context.Background(), userID, tt.params())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Empty(t, hub.Peek(userID, 10))

				if errors.Is(tt.wantErr, ledger.ErrInvalid) {
					assert.ErrorIs(t, err, ledger.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, "004512", got.ChequeNumber)
			assert.Equal(t, "HDFC Bank", got.BankName)
			assert.Equal(t, ledger.FinancialYear("2025-2026"), got.FinancialYear)

			events := hub.Peek(userID, 10)
			require.Len(t, events, 1)
			assert.Equal(t, "New INSERT in cheques", events[0].Description())
		})
	}
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	stored := &ledger.Cheque{
		Entry: ledger.Entry{
			ID:            id,
			UserID:        userID,
			Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Party:         "Mehta & Sons",
			Amount:        1000,
			Direction:     ledger.DirectionIncoming,
			FinancialYear: "2024-2025",
		},
		ChequeNumber: "1",
		BankName:     "SBI",
		Status:       ledger.ChequePending,
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cheque.NewMockRepository(ctrl)
	repo.EXPECT().GetCheque(gomock.Any(), userID, id).Return(stored, nil)
	repo.EXPECT().UpdateCheque(gomock.Any(), stored).Return(nil)

	got, err := cheque.NewService(repo, nil).WithClock(clock).Update(context.Background(), userID, id, cheque.UpdateParams{
		BankName: new(" Canara Bank "),
		Status:   new(ledger.ChequeBounced),
	})
	require.NoError(t, err)
	assert.Equal(t, "Canara Bank", got.BankName)
	assert.Equal(t, ledger.ChequeBounced, got.Status)
	assert.Equal(t, ledger.FinancialYear("2024-2025"), got.FinancialYear)
}

func TestService_UpdateStatus(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		status    ledger.ChequeStatus
		setupMock func(m *cheque.MockRepository)
		wantErr   error
		wantNote  bool
	}{
		{
			name:   "Cleared",
			status: ledger.ChequeCleared,
			setupMock: func(m *cheque.MockRepository) {
				m.EXPECT().UpdateStatus(gomock.Any(), userID, id, ledger.ChequeCleared).Return(nil)
			},
			wantNote: true,
		},
		{
			name:    "Invalid",
			status:  "lost",
			wantErr: ledger.ErrInvalid,
		},
		{
			name:   "NotFound",
			status: ledger.ChequeCancelled,
			setupMock: func(m *cheque.MockRepository) {
				m.EXPECT().UpdateStatus(gomock.Any(), userID, id, ledger.ChequeCancelled).Return(ledger.ErrNotFound)
			},
			wantErr: ledger.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := cheque.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			hub := notify.NewHub(5)
			err := cheque.NewService(repo, hub).WithClock(clock).UpdateStatus(context.Background(), userID, id, tt.status)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			if tt.wantNote {
				events := hub.Peek(userID, 5)
				require.Len(t, events, 1)
				assert.Equal(t, ledger.ActionUpdate, events[0].Action)
				assert.Equal(t, id, events[0].RecordID)
			} else {
				assert.Empty(t, hub.Peek(userID, 5))
			}
		})
	}
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cheque.NewMockRepository(ctrl)
	repo.EXPECT().DeleteCheque(gomock.Any(), userID, id).Return(nil)

	hub := notify.NewHub(5)
	require.NoError(t, cheque.NewService(repo, hub).Delete(context.Background(), userID, id))

	events := hub.Peek(userID, 5)
	require.Len(t, events, 1)
	assert.Equal(t, "New DELETE in cheques", events[0].Description())
}
