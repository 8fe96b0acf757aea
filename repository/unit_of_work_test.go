package repository

import (
	"context"
	"testing"

	"liarsdice/domain/testhelpers"
	"liarsdice/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &testhelpers.MockTransactionalEventPublisher{}
	publisher.On("Flush", mock.Anything).Return(nil).Once()

	uow := NewUnitOfWorkFactory(testDB.DB).CreateWithPublisher(publisher)
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.PlayerRecordRepository().ApplyDelta(ctx, testutil.CreateTestDelta("alice", true))
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	record, err := NewPlayerRecordRepository(testDB.DB).GetByPlayerID(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, record)
	publisher.AssertExpectations(t)
}

func TestUnitOfWork_RollbackDiscardsChanges(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &testhelpers.MockTransactionalEventPublisher{}
	publisher.On("Discard").Return().Once()

	uow := NewUnitOfWorkFactory(testDB.DB).CreateWithPublisher(publisher)
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.PlayerRecordRepository().ApplyDelta(ctx, testutil.CreateTestDelta("bob", true))
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	record, err := NewPlayerRecordRepository(testDB.DB).GetByPlayerID(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, record)
	publisher.AssertExpectations(t)

	// a second rollback is a no-op
	require.NoError(t, uow.Rollback())
	publisher.AssertNumberOfCalls(t, "Discard", 1)
}

func TestUnitOfWork_RepositoryBeforeBeginPanics(t *testing.T) {
	uow := NewUnitOfWorkFactory(nil).CreateWithPublisher(nil)
	assert.Panics(t, func() { uow.PlayerRecordRepository() })
	assert.Panics(t, func() { uow.EventBus() })
	assert.Error(t, uow.Commit())
}
