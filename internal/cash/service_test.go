package cash_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finflow/internal/cash"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

var (
	userID = uuid.MustParse("5b7f3f0e-8d2a-4c55-9b1e-6a0f7d3c2e11")
	today  = time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return today }

type recorder struct {
	changes []ledger.Change
}

func (r *recorder) Notify(_ context.Context, c ledger.Change) {
	r.changes = append(r.changes, c)
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    cash.CreateParams
		setupMock func(m *cash.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: cash.CreateParams{
				Date:        time.Date(2025, 3, 30, 14, 45, 0, 0, time.UTC),
				Party:       "  Gupta Stores ",
				Amount:      150000,
				Description: "Counter sale",
				Direction:   ledger.DirectionIncoming,
			},
			setupMock: func(m *cash.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *ledger.Cash) error {
						tx.ID = uuid.New()
						tx.CreatedAt = today
						return nil
					})
			},
		},
		{
			name: "ZeroAmount",
			params: cash.CreateParams{
				Date:      today,
				Party:     "Gupta Stores",
				Direction: ledger.DirectionIncoming,
			},
			wantErr: ledger.ErrInvalid,
		},
		{
			name: "MissingParty",
			params: cash.CreateParams{
				Date:      today,
				Amount:    100,
				Direction: ledger.DirectionOutgoing,
			},
			wantErr: ledger.ErrInvalid,
		},
		{
			name: "RepoError",
			params: cash.CreateParams{
				Date:      today,
				Party:     "Gupta Stores",
				Amount:    500,
				Direction: ledger.DirectionOutgoing,
			},
			setupMock: func(m *cash.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := cash.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := &recorder{}
			svc := cash.NewService(repo, rec).WithClock(fixedClock)
			got, err := svc.Create(context.Background(), userID, tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)
				assert.Empty(t, rec.changes)

				if errors.Is(tt.wantErr, ledger.ErrInvalid) {
					assert.ErrorIs(t, err, ledger.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, userID, got.UserID)
			assert.Equal(t, "Gupta Stores", got.Party)
			assert.Equal(t, time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), got.Date)
			assert.Equal(t, ledger.FinancialYear("2024-2025"), got.FinancialYear)

			require.Len(t, rec.changes, 1)
			assert.Equal(t, "cash_transactions", rec.changes[0].Table)
			assert.Equal(t, ledger.ActionInsert, rec.changes[0].Action)
			assert.Equal(t, got.ID, rec.changes[0].RecordID)
		})
	}
}

func TestService_CreateThenGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cash.NewMockRepository(ctrl)

	var stored ledger.Cash

	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Cash) error {
			tx.ID = uuid.New()
			tx.CreatedAt = today
			stored = *tx

			return nil
		})
	repo.EXPECT().
		GetTransaction(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, id uuid.UUID) (*ledger.Cash, error) {
			require.Equal(t, stored.ID, id)
			cp := stored

			return &cp, nil
		})

	svc := cash.NewService(repo, nil).WithClock(fixedClock)

	created, err := svc.Create(context.Background(), userID, cash.CreateParams{
		Date:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Party:       "Verma Traders",
		Amount:      99900,
		Description: "Advance",
		Direction:   ledger.DirectionOutgoing,
	})
	require.NoError(t, err)

	fetched, err := svc.Get(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestService_List(t *testing.T) {
	dir := ledger.DirectionIncoming
	filter := ledger.Filter{UserID: userID, Direction: &dir}

	tests := []struct {
		name      string
		setupMock func(m *cash.MockRepository)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "Success",
			setupMock: func(m *cash.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), filter).
					Return([]*ledger.Cash{{Entry: ledger.Entry{ID: uuid.New()}}, {Entry: ledger.Entry{ID: uuid.New()}}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			setupMock: func(m *cash.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), filter).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := cash.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := cash.NewService(repo, nil).List(context.Background(), filter)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Update(t *testing.T) {
	id := uuid.New()
	existing := func() *ledger.Cash {
		return &ledger.Cash{Entry: ledger.Entry{
			ID:            id,
			UserID:        userID,
			Date:          time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			Party:         "Old Party",
			Amount:        1000,
			Direction:     ledger.DirectionIncoming,
			FinancialYear: "2024-2025",
		}}
	}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(existing(), nil)
		repo.EXPECT().
			UpdateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *ledger.Cash) error {
				assert.Equal(t, "New Party", tx.Party)
				assert.Equal(t, int64(2500), tx.Amount)
				assert.Equal(t, ledger.DirectionIncoming, tx.Direction)
				return nil
			})

		rec := &recorder{}
		svc := cash.NewService(repo, rec).WithClock(fixedClock)

		got, err := svc.Update(context.Background(), userID, id, cash.UpdateParams{
			Party:  new("New Party"),
			Amount: new(int64(2500)),
		})
		require.NoError(t, err)
		assert.Equal(t, ledger.FinancialYear("2024-2025"), got.FinancialYear)
		require.Len(t, rec.changes, 1)
		assert.Equal(t, ledger.ActionUpdate, rec.changes[0].Action)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(existing(), nil)

		_, err := cash.NewService(repo, nil).Update(context.Background(), userID, id, cash.UpdateParams{
			Amount: new(int64(-5)),
		})
		assert.ErrorIs(t, err, ledger.ErrInvalid)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(nil, ledger.ErrNotFound)

		_, err := cash.NewService(repo, nil).Update(context.Background(), userID, id, cash.UpdateParams{})
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().DeleteTransaction(gomock.Any(), userID, id).Return(nil)

		rec := &recorder{}
		require.NoError(t, cash.NewService(repo, rec).WithClock(fixedClock).Delete(context.Background(), userID, id))

		require.Len(t, rec.changes, 1)
		assert.Equal(t, ledger.Change{
			Table:    "cash_transactions",
			Action:   ledger.ActionDelete,
			RecordID: id,
			UserID:   userID,
			At:       today,
		}, rec.changes[0])
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cash.NewMockRepository(ctrl)
		repo.EXPECT().DeleteTransaction(gomock.Any(), userID, id).Return(ledger.ErrNotFound)

		rec := &recorder{}
		err := cash.NewService(repo, rec).Delete(context.Background(), userID, id)
		assert.ErrorIs(t, err, ledger.ErrNotFound)
		assert.Empty(t, rec.changes)
	})
}
