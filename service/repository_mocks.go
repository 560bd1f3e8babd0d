package service

import (
	"context"
	"time"

	"roulette/events"
	"roulette/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) EnsureDailyReset(ctx context.Context, userID string, allowance int, dayStart, now time.Time) (bool, error) {
	args := m.Called(ctx, userID, allowance, dayStart, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ReserveToken(ctx context.Context, userID string, rouletteType models.RouletteType) (bool, error) {
	args := m.Called(ctx, userID, rouletteType)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdatePremium(ctx context.Context, userID string, isPremium bool, expiresAt *time.Time) error {
	args := m.Called(ctx, userID, isPremium, expiresAt)
	return args.Error(0)
}

// MockSpinRecordRepository is a mock implementation of SpinRecordRepository
type MockSpinRecordRepository struct {
	mock.Mock
}

func (m *MockSpinRecordRepository) Create(ctx context.Context, record *models.SpinRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSpinRecordRepository) GetRecentByUser(ctx context.Context, userID string, rouletteType models.RouletteType, limit int) ([]*models.SpinRecord, error) {
	args := m.Called(ctx, userID, rouletteType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SpinRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo       UserRepository
	spinRecordRepo SpinRecordRepository
	eventPublisher EventPublisher
}

// SetRepositories configures the repositories returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, spinRecordRepo SpinRecordRepository, eventPublisher EventPublisher) {
	m.userRepo = userRepo
	m.spinRecordRepo = spinRecordRepo
	m.eventPublisher = eventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) SpinRecordRepository() SpinRecordRepository {
	return m.spinRecordRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventPublisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
