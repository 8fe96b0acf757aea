package application

import (
	"context"

	"liarsdice/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	Records interfaces.PlayerRecordRepository
	Bus     interfaces.EventPublisher
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

func (m *MockUnitOfWork) PlayerRecordRepository() interfaces.PlayerRecordRepository {
	return m.Records
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return m.Bus
}

// MockUnitOfWorkFactory hands out the same unit of work on every call
type MockUnitOfWorkFactory struct {
	UoW UnitOfWork
}

func (f *MockUnitOfWorkFactory) Create() UnitOfWork {
	return f.UoW
}
