package memory

import (
	"cmp"
	"context"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"
)

type stockLedger struct {
	uow *UnitOfWork
}

func (l *stockLedger) Get(_ context.Context, key stock.Key) (stock.Entry, error) {
	s, err := l.uow.current()
	if err != nil {
		return stock.Entry{}, err
	}
	available, ok := s.stock[key]
	if !ok {
		return stock.Entry{}, errs.NewObjectNotFoundError("stock", key)
	}
	return stock.NewEntry(key, available)
}

func (l *stockLedger) Debit(_ context.Context, key stock.Key, quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}
	s, err := l.uow.current()
	if err != nil {
		return err
	}
	available, ok := s.stock[key]
	if !ok {
		return errs.NewObjectNotFoundError("stock", key)
	}
	if quantity.GreaterThan(available) {
		return stock.NewInsufficientStockError(key, quantity, available)
	}
	left, err := available.Sub(quantity)
	if err != nil {
		return err
	}
	s.stock[key] = left
	return nil
}

func (l *stockLedger) Credit(_ context.Context, key stock.Key, quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}
	s, err := l.uow.current()
	if err != nil {
		return err
	}
	available, ok := s.stock[key]
	if !ok {
		available = kernel.ZeroQuantity()
	}
	s.stock[key] = available.Add(quantity)
	return nil
}

func (l *stockLedger) List(_ context.Context) ([]stock.Entry, error) {
	return l.list(func(stock.Key) bool { return true })
}

func (l *stockLedger) ListByProduct(_ context.Context, productID kernel.ID) ([]stock.Entry, error) {
	return l.list(func(key stock.Key) bool { return key.ProductID == productID })
}

func (l *stockLedger) list(match func(stock.Key) bool) ([]stock.Entry, error) {
	s, err := l.uow.current()
	if err != nil {
		return nil, err
	}
	entries := make([]stock.Entry, 0, len(s.stock))
	for key, available := range s.stock {
		if !match(key) {
			continue
		}
		e, err := stock.NewEntry(key, available)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b stock.Entry) int {
		if c := cmp.Compare(a.Key().ProducerID.Int64(), b.Key().ProducerID.Int64()); c != 0 {
			return c
		}
		return cmp.Compare(a.Key().ProductID.Int64(), b.Key().ProductID.Int64())
	})
	return entries, nil
}
