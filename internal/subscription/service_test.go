package subscription

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shawedgym/internal/apperror"
	"shawedgym/internal/metrics"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Subscribe(ctx context.Context, gymID, planID int) (*ActiveSubscription, error) {
	args := m.Called(ctx, gymID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ActiveSubscription), args.Error(1)
}

func (m *MockRepository) GetActive(ctx context.Context, gymID int) (*ActiveSubscription, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ActiveSubscription), args.Error(1)
}

func (m *MockRepository) History(ctx context.Context, gymID int) ([]GymSubscription, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]GymSubscription), args.Error(1)
}

func TestService_Subscribe(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	metrics.SubscriptionsActivatedTotal.Reset()

	repo.On("Subscribe", mock.Anything, 10, 2).Return(&ActiveSubscription{
		GymSubscription: GymSubscription{ID: 5, GymID: 10, Status: StatusActive},
		PlanName:        "pro",
		MemberLimit:     200,
	}, nil)

	sub, err := svc.Subscribe(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.PlanName)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SubscriptionsActivatedTotal.WithLabelValues("pro")))
}

func TestService_Subscribe_Failure(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	metrics.SubscriptionsActivatedTotal.Reset()

	repo.On("Subscribe", mock.Anything, 10, 99).Return(nil, apperror.NotFound("plan.get", "plan not found"))

	_, err := svc.Subscribe(context.Background(), 10, 99)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.SubscriptionsActivatedTotal))
}
