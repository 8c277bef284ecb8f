package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sameQty(t *testing.T, v string) any {
	want := qty(t, v)
	return mock.MatchedBy(func(q kernel.Quantity) bool { return q.Equal(want) })
}

func eventOfKind(kind order.ChangeKind) any {
	return mock.MatchedBy(func(e order.ChangedEvent) bool { return e.Kind == kind })
}

// expectValidAggregate registers the lookups of a successful validation of
// buildAggregate("10", {20, "10"}) against available stock.
func expectValidAggregate(t *testing.T, uow *MockUoW, f fixture, available string) {
	uow.clients.On("Get", mock.Anything, id(t, 5)).Return(f.client, nil).Once()
	uow.orders.On("LineItemExists", mock.Anything, id(t, 10)).Return(false, nil).Once()
	uow.products.On("Exists", mock.Anything, id(t, 100)).Return(true, nil).Once()
	uow.orders.On("AllocationExists", mock.Anything, id(t, 20)).Return(false, nil).Once()
	uow.producers.On("Get", mock.Anything, id(t, 1)).Return(f.producer, nil).Once()
	uow.ledger.On("Get", mock.Anything, key(t, 1, 100)).Return(entry(t, key(t, 1, 100), available), nil).Once()
}

func TestCommitOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	agg := buildAggregate(t, "10", allocation{20, "10"})
	cmd, err := commands.NewCommitOrderCommand(agg)
	require.NoError(t, err)

	uow := newMockUoW()
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.orders.On("Exists", mock.Anything, id(t, 1)).Return(false, nil).Once(),
	)
	expectValidAggregate(t, uow, f, "10")
	mock.InOrder(
		uow.ledger.On("Debit", mock.Anything, key(t, 1, 100), sameQty(t, "10")).Return(nil).Once(),
		uow.orders.On("Save", mock.Anything, agg).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, eventOfKind(order.Created)).Return(nil).Once()
	recorder := new(MockRecorder)
	recorder.On("StockDebited", mock.MatchedBy(func(m []stock.Movement) bool { return len(m) == 1 })).Once()
	recorder.On("ObserveOperation", "commit_order", nil, mock.Anything).Once()

	h, err := commands.NewCommitOrderCommandHandler(factory, f.validators(t),
		commands.WithPublisher(publisher), commands.WithRecorder(recorder))
	require.NoError(t, err)

	committed, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Same(t, agg, committed)
	uow.assertAll(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestCommitOrderCommandHandler_Handle_DuplicateOrder(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	cmd, _ := commands.NewCommitOrderCommand(buildAggregate(t, "10", allocation{20, "10"}))

	uow := newMockUoW()
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.orders.On("Exists", mock.Anything, id(t, 1)).Return(true, nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h, _ := commands.NewCommitOrderCommandHandler(factory, f.validators(t))
	_, err := h.Handle(ctx, cmd)

	var dup *errs.ObjectAlreadyExistsError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "order", dup.Kind)
	uow.assertAll(t)
	uow.ledger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommitOrderCommandHandler_Handle_InsufficientStockDebitsNothing(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	cmd, _ := commands.NewCommitOrderCommand(buildAggregate(t, "10.001", allocation{20, "10.001"}))

	uow := newMockUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.orders.On("Exists", mock.Anything, id(t, 1)).Return(false, nil).Once()
	expectValidAggregate(t, uow, f, "10")
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h, _ := commands.NewCommitOrderCommandHandler(factory, f.validators(t))
	_, err := h.Handle(ctx, cmd)

	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "allocation", verr.Kind)
	var insufficient *stock.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "10.001", insufficient.Requested.String())
	uow.assertAll(t)
	uow.ledger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	uow.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCommitOrderCommandHandler_Handle_LostDebitRace(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	cmd, _ := commands.NewCommitOrderCommand(buildAggregate(t, "10", allocation{20, "10"}))
	lost := stock.NewInsufficientStockError(key(t, 1, 100), qty(t, "10"), qty(t, "4"))

	uow := newMockUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.orders.On("Exists", mock.Anything, id(t, 1)).Return(false, nil).Once()
	expectValidAggregate(t, uow, f, "10")
	uow.ledger.On("Debit", mock.Anything, key(t, 1, 100), sameQty(t, "10")).Return(lost).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h, _ := commands.NewCommitOrderCommandHandler(factory, f.validators(t))
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, stock.ErrInsufficientStock)
	uow.assertAll(t)
	uow.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCommitOrderCommandHandler_Handle_PublishFailureDoesNotFail(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	agg := buildAggregate(t, "10", allocation{20, "10"})
	cmd, _ := commands.NewCommitOrderCommand(agg)

	uow := newMockUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.orders.On("Exists", mock.Anything, id(t, 1)).Return(false, nil).Once()
	expectValidAggregate(t, uow, f, "25")
	uow.ledger.On("Debit", mock.Anything, key(t, 1, 100), sameQty(t, "10")).Return(nil).Once()
	uow.orders.On("Save", mock.Anything, agg).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	h, _ := commands.NewCommitOrderCommandHandler(factory, f.validators(t), commands.WithPublisher(publisher))
	_, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestCommitOrderCommandHandler_Handle_StalledBrokerIsBounded(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	agg := buildAggregate(t, "10", allocation{20, "10"})
	cmd, _ := commands.NewCommitOrderCommand(agg)

	uow := newMockUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.orders.On("Exists", mock.Anything, id(t, 1)).Return(false, nil).Once()
	expectValidAggregate(t, uow, f, "25")
	uow.ledger.On("Debit", mock.Anything, key(t, 1, 100), sameQty(t, "10")).Return(nil).Once()
	uow.orders.On("Save", mock.Anything, agg).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	var hasDeadline bool
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			publishCtx := args.Get(0).(context.Context)
			_, hasDeadline = publishCtx.Deadline()
			<-publishCtx.Done()
		}).
		Return(context.DeadlineExceeded).Once()

	h, _ := commands.NewCommitOrderCommandHandler(factory, f.validators(t),
		commands.WithPublisher(publisher), commands.WithPublishTimeout(50*time.Millisecond))
	started := time.Now()
	_, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, hasDeadline)
	assert.Less(t, time.Since(started), 2*time.Second)
	publisher.AssertExpectations(t)
}

func TestCommitOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	agg := buildAggregate(t, "10", allocation{20, "10"})
	cmd, _ := commands.NewCommitOrderCommand(agg)

	uow := newMockUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.orders.On("Exists", mock.Anything, id(t, 1)).Return(false, nil).Once()
	expectValidAggregate(t, uow, f, "10")
	uow.ledger.On("Debit", mock.Anything, key(t, 1, 100), sameQty(t, "10")).Return(nil).Once()
	uow.orders.On("Save", mock.Anything, agg).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(errors.New("commit error")).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(MockPublisher)

	h, _ := commands.NewCommitOrderCommandHandler(factory, f.validators(t), commands.WithPublisher(publisher))
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCommitOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	cmd, _ := commands.NewCommitOrderCommand(buildAggregate(t, "10"))

	uow := newMockUoW()
	factory := new(MockUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", mock.Anything).Return(errors.New("begin error")).Once(),
	)

	h, _ := commands.NewCommitOrderCommandHandler(factory, f.validators(t))
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
	uow.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestCommitOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newFixture(t)
	factory := new(MockUoWFactory)
	h, _ := commands.NewCommitOrderCommandHandler(factory, f.validators(t))

	_, err := h.Handle(t.Context(), commands.CommitOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCommitOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestNewCommitOrderCommand(t *testing.T) {
	_, err := commands.NewCommitOrderCommand(nil)
	require.ErrorIs(t, err, order.ErrAggregateIsNotConstructed)

	_, err = commands.NewCommitOrderCommandHandler(nil, nil)
	require.Error(t, err)
}
