package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seed is the reference data loaded at startup: the parties the engine reads
// but never writes, and the opening stock.
type Seed struct {
	Clients []struct {
		ID        int64   `json:"id"`
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"clients"`
	Producers []struct {
		ID        int64   `json:"id"`
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		RadiusKm  float64 `json:"radiusKm"`
	} `json:"producers"`
	Products []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"products"`
	Stock []struct {
		ProducerID int64           `json:"producerId"`
		ProductID  int64           `json:"productId"`
		Quantity   decimal.Decimal `json:"quantity"`
	} `json:"stock"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, err
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return seed, nil
}

// SeedStats counts the records a seed run created.
type SeedStats struct {
	Clients, Producers, Products, Stock int
}

// Apply stores the seed in one transaction. Records that already exist are
// left untouched, so applying the same seed twice changes nothing.
func (s Seed) Apply(ctx context.Context, factory ports.UnitOfWorkFactory) (stats SeedStats, err error) {
	uow := factory.Create()
	if err = uow.Begin(ctx); err != nil {
		return stats, err
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback(ctx)
		}
	}()

	for _, c := range s.Clients {
		created, err := addOnce(func() error {
			id, loc, err := idAndLocation(c.ID, c.Latitude, c.Longitude)
			if err != nil {
				return err
			}
			client, err := party.NewClient(id, c.Name, loc)
			if err != nil {
				return err
			}
			return uow.ClientRepository().Add(ctx, client)
		})
		if err != nil {
			return stats, fmt.Errorf("client %d: %w", c.ID, err)
		}
		stats.Clients += created
	}

	for _, p := range s.Producers {
		created, err := addOnce(func() error {
			id, loc, err := idAndLocation(p.ID, p.Latitude, p.Longitude)
			if err != nil {
				return err
			}
			radius, err := kernel.NewDistance(p.RadiusKm)
			if err != nil {
				return err
			}
			producer, err := party.NewProducer(id, p.Name, loc, radius)
			if err != nil {
				return err
			}
			return uow.ProducerRepository().Add(ctx, producer)
		})
		if err != nil {
			return stats, fmt.Errorf("producer %d: %w", p.ID, err)
		}
		stats.Producers += created
	}

	for _, p := range s.Products {
		created, err := addOnce(func() error {
			id, err := kernel.NewID(p.ID)
			if err != nil {
				return err
			}
			return uow.ProductRepository().Add(ctx, id, p.Name)
		})
		if err != nil {
			return stats, fmt.Errorf("product %d: %w", p.ID, err)
		}
		stats.Products += created
	}

	for _, e := range s.Stock {
		created, err := s.openStock(ctx, uow.StockLedger(), e.ProducerID, e.ProductID, e.Quantity)
		if err != nil {
			return stats, fmt.Errorf("stock %d/%d: %w", e.ProducerID, e.ProductID, err)
		}
		stats.Stock += created
	}

	return stats, uow.Commit(ctx)
}

// openStock credits the opening quantity when the producer does not carry the product yet.
func (Seed) openStock(ctx context.Context, ledger ports.StockLedger, producer, product int64, q decimal.Decimal) (int, error) {
	producerID, err := kernel.NewID(producer)
	if err != nil {
		return 0, err
	}
	productID, err := kernel.NewID(product)
	if err != nil {
		return 0, err
	}
	key, err := stock.NewKey(producerID, productID)
	if err != nil {
		return 0, err
	}
	quantity, err := kernel.NewQuantity(q)
	if err != nil {
		return 0, err
	}

	if _, err := ledger.Get(ctx, key); err == nil {
		return 0, nil
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return 0, err
	}
	return 1, ledger.Credit(ctx, key, quantity)
}

func addOnce(add func() error) (int, error) {
	err := add()
	switch {
	case err == nil:
		return 1, nil
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return 0, nil
	default:
		return 0, err
	}
}

func idAndLocation(rawID int64, lat, lon float64) (kernel.ID, kernel.Location, error) {
	id, err := kernel.NewID(rawID)
	if err != nil {
		return kernel.ID{}, kernel.Location{}, err
	}
	loc, err := kernel.NewLocation(lat, lon)
	if err != nil {
		return kernel.ID{}, kernel.Location{}, err
	}
	return id, loc, nil
}

// SeedFromFile applies the configured seed file, if any.
func SeedFromFile(ctx context.Context, path string, factory ports.UnitOfWorkFactory, log *zap.Logger) error {
	if path == "" {
		return nil
	}
	seed, err := LoadSeed(path)
	if err != nil {
		return err
	}
	stats, err := seed.Apply(ctx, factory)
	if err != nil {
		return err
	}
	log.Info("Reference data seeded",
		zap.String("file", path),
		zap.Int("clients", stats.Clients),
		zap.Int("producers", stats.Producers),
		zap.Int("products", stats.Products),
		zap.Int("stock", stats.Stock),
	)
	return nil
}
