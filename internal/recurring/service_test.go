package recurring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pmcouto/centavo/internal/recurring"
	"github.com/pmcouto/centavo/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    recurring.CreateParams
		setupMock func(m *recurring.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: recurring.CreateParams{
				OwnerID:     uuid.New(),
				Description: "Salary",
				Amount:      250000,
				Type:        transaction.TypeIncome,
				Currency:    "EUR",
				Frequency:   recurring.FrequencyMonthly,
				DayOfMonth:  25,
				StartDate:   time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC),
			},
			setupMock: func(m *recurring.MockRepository) {
				m.EXPECT().
					CreateRule(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rule *recurring.Rule) error {
						rule.ID = uuid.New()
						rule.CreatedAt = time.Now()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "InvalidRuleNeverReachesRepo",
			params: recurring.CreateParams{
				OwnerID:   uuid.New(),
				Amount:    -5,
				Type:      transaction.TypeExpense,
				Currency:  "EUR",
				Frequency: recurring.FrequencyDaily,
				StartDate: date(2024, time.January, 1),
			},
			wantErr: true,
		},
		{
			name: "RepoError",
			params: recurring.CreateParams{
				OwnerID:   uuid.New(),
				Amount:    1000,
				Type:      transaction.TypeExpense,
				Currency:  "EUR",
				Frequency: recurring.FrequencyDaily,
				StartDate: date(2024, time.January, 1),
			},
			setupMock: func(m *recurring.MockRepository) {
				m.EXPECT().
					CreateRule(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := recurring.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := recurring.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.True(t, got.IsActive)
			// Start dates are stored at day granularity.
			assert.Equal(t, date(2024, time.January, 1), got.StartDate)
		})
	}
}

func TestService_SetActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wm := date(2024, time.March, 15)
	stored := validRule()
	stored.LastGeneratedDate = &wm

	repo := recurring.NewMockRepository(ctrl)
	repo.EXPECT().GetRule(gomock.Any(), stored.ID).Return(&stored, nil)
	repo.EXPECT().
		UpdateRule(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rule *recurring.Rule) error {
			assert.False(t, rule.IsActive)
			// Suspension leaves the watermark in place.
			require.NotNil(t, rule.LastGeneratedDate)
			assert.Equal(t, wm, *rule.LastGeneratedDate)
			return nil
		})

	svc := recurring.NewService(repo)
	err := svc.SetActive(context.Background(), stored.ID, false)
	assert.NoError(t, err)
}

// processingTxRecorder implements recurring.ProcessingTx with observable
// outcomes, standing in for a real storage transaction.
type processingTxRecorder struct {
	rule *recurring.Rule

	createErr error
	commitErr error

	created    []*transaction.Transaction
	watermark  *time.Time
	committed  bool
	rolledBack bool
}

func (p *processingTxRecorder) Rule() *recurring.Rule { return p.rule }

func (p *processingTxRecorder) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	if p.createErr != nil {
		return p.createErr
	}
	p.created = append(p.created, txs...)
	return nil
}

func (p *processingTxRecorder) AdvanceWatermark(_ context.Context, lastGenerated time.Time) error {
	p.watermark = &lastGenerated
	return nil
}

func (p *processingTxRecorder) Commit() error {
	if p.commitErr != nil {
		return p.commitErr
	}
	p.committed = true
	return nil
}

func (p *processingTxRecorder) Rollback() error {
	if !p.committed {
		p.rolledBack = true
	}
	return nil
}

func TestService_ProcessAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rule := validRule()
	rule.Frequency = recurring.FrequencyDaily
	asOf := date(2024, time.January, 4)

	ptx := &processingTxRecorder{rule: &rule}

	repo := recurring.NewMockRepository(ctrl)
	repo.EXPECT().ListActiveRules(gomock.Any()).Return([]*recurring.Rule{&rule}, nil)
	repo.EXPECT().BeginProcessing(gomock.Any(), rule.ID).Return(ptx, nil)

	svc := recurring.NewService(repo)
	created, err := svc.ProcessAll(context.Background(), asOf)

	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Len(t, ptx.created, 3)
	assert.True(t, ptx.committed)
	assert.False(t, ptx.rolledBack)

	// The watermark lands on the last generated date, not on asOf.
	require.NotNil(t, ptx.watermark)
	assert.Equal(t, date(2024, time.January, 4), *ptx.watermark)
}

func TestService_ProcessAll_NothingDue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rule := validRule()
	rule.Frequency = recurring.FrequencyDaily
	wm := date(2024, time.January, 10)
	rule.LastGeneratedDate = &wm

	ptx := &processingTxRecorder{rule: &rule}

	repo := recurring.NewMockRepository(ctrl)
	repo.EXPECT().ListActiveRules(gomock.Any()).Return([]*recurring.Rule{&rule}, nil)
	repo.EXPECT().BeginProcessing(gomock.Any(), rule.ID).Return(ptx, nil)

	svc := recurring.NewService(repo)
	created, err := svc.ProcessAll(context.Background(), date(2024, time.January, 10))

	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, ptx.created)
	// No-op runs never touch the watermark or commit anything.
	assert.Nil(t, ptx.watermark)
	assert.False(t, ptx.committed)
}

func TestService_ProcessAll_FailedRuleDoesNotStopOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	broken := validRule()
	broken.Frequency = recurring.FrequencyDaily

	healthy := validRule()
	healthy.Frequency = recurring.FrequencyDaily

	brokenTx := &processingTxRecorder{rule: &broken, createErr: errors.New("insert failed")}
	healthyTx := &processingTxRecorder{rule: &healthy}

	repo := recurring.NewMockRepository(ctrl)
	repo.EXPECT().
		ListActiveRules(gomock.Any()).
		Return([]*recurring.Rule{&broken, &healthy}, nil)
	repo.EXPECT().BeginProcessing(gomock.Any(), broken.ID).Return(brokenTx, nil)
	repo.EXPECT().BeginProcessing(gomock.Any(), healthy.ID).Return(healthyTx, nil)

	svc := recurring.NewService(repo)
	created, err := svc.ProcessAll(context.Background(), date(2024, time.January, 3))

	require.Error(t, err)
	assert.ErrorContains(t, err, broken.ID.String())

	// The healthy rule still committed its two occurrences.
	assert.Equal(t, 2, created)
	assert.True(t, healthyTx.committed)

	// The broken rule rolled back: no partial inserts, watermark untouched.
	assert.True(t, brokenTx.rolledBack)
	assert.False(t, brokenTx.committed)
	assert.Nil(t, brokenTx.watermark)
}

func TestService_ProcessAll_CancelledContextStopsBetweenRules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := validRule()
	first.Frequency = recurring.FrequencyDaily

	second := validRule()
	second.Frequency = recurring.FrequencyDaily

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := recurring.NewMockRepository(ctrl)
	repo.EXPECT().
		ListActiveRules(gomock.Any()).
		Return([]*recurring.Rule{&first, &second}, nil)

	svc := recurring.NewService(repo)
	created, err := svc.ProcessAll(ctx, date(2024, time.January, 3))

	assert.Zero(t, created)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_ProcessAll_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	repo.EXPECT().ListActiveRules(gomock.Any()).Return(nil, errors.New("db down"))

	svc := recurring.NewService(repo)
	created, err := svc.ProcessAll(context.Background(), time.Now())

	assert.Zero(t, created)
	assert.Error(t, err)
}
