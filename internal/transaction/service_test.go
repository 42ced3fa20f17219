package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pmcouto/centavo/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					OwnerID:     uuid.New(),
					Amount:      1250,
					Type:        transaction.TypeExpense,
					Description: "Groceries",
					Date:        time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC),
					Currency:    "EUR",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "ZeroAmount",
			args: args{
				params: transaction.CreateParams{
					OwnerID:  uuid.New(),
					Amount:   0,
					Type:     transaction.TypeExpense,
					Currency: "EUR",
				},
			},
			wantErr: true,
		},
		{
			name: "BadCurrency",
			args: args{
				params: transaction.CreateParams{
					OwnerID:  uuid.New(),
					Amount:   1000,
					Type:     transaction.TypeIncome,
					Currency: "XQZ",
				},
			},
			wantErr: true,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					OwnerID:  uuid.New(),
					Amount:   500,
					Type:     transaction.TypeExpense,
					Currency: "EUR",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_CreateBatch(t *testing.T) {
	ownerID := uuid.New()

	valid := transaction.CreateParams{
		OwnerID:  ownerID,
		Amount:   1000,
		Type:     transaction.TypeExpense,
		Currency: "EUR",
		Date:     time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	type testCase struct {
		name      string
		params    []transaction.CreateParams
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: []transaction.CreateParams{valid, valid},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransactions(gomock.Any(), gomock.Len(2)).
					Return(nil)
			},
			wantLen: 2,
		},
		{
			name:    "EmptyInput",
			params:  nil,
			wantLen: 0,
		},
		{
			name: "OneInvalidRowFailsTheBatch",
			params: []transaction.CreateParams{
				valid,
				{OwnerID: ownerID, Amount: -1, Type: transaction.TypeExpense, Currency: "EUR"},
			},
			wantErr: true,
		},
		{
			name:   "RepoError",
			params: []transaction.CreateParams{valid},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransactions(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.CreateBatch(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		filter    transaction.ListFilter
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			filter: transaction.ListFilter{},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name:   "Error",
			filter: transaction.ListFilter{},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

	svc := transaction.NewService(repo)
	got, err := svc.Get(context.Background(), id)

	assert.ErrorIs(t, err, transaction.ErrNotFound)
	assert.Nil(t, got)
}
