// Package partyrepo stores the reference data the fulfillment engine reads:
// clients, producers and products.
package partyrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/party"
)

// LocationDTO is the embedded position of a client or producer.
type LocationDTO struct {
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
}

// ClientDTO is a row of the clients table.
type ClientDTO struct {
	ID       int64       `gorm:"primaryKey;autoIncrement:false"`
	Name     string      `gorm:"type:varchar(255);not null"`
	Location LocationDTO `gorm:"embedded"`
}

func (ClientDTO) TableName() string {
	return "clients"
}

// ProducerDTO is a row of the producers table.
type ProducerDTO struct {
	ID       int64       `gorm:"primaryKey;autoIncrement:false"`
	Name     string      `gorm:"type:varchar(255);not null"`
	Location LocationDTO `gorm:"embedded"`
	RadiusKm float64     `gorm:"not null"`
}

func (ProducerDTO) TableName() string {
	return "producers"
}

// ProductDTO is a row of the products table.
type ProductDTO struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"type:varchar(255);not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func locationFromDomain(l kernel.Location) LocationDTO {
	return LocationDTO{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

func clientToDomain(dto ClientDTO) (*party.Client, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	loc, err := kernel.NewLocation(dto.Location.Latitude, dto.Location.Longitude)
	if err != nil {
		return nil, err
	}
	return party.NewClient(id, dto.Name, loc)
}

func producerToDomain(dto ProducerDTO) (*party.Producer, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	loc, err := kernel.NewLocation(dto.Location.Latitude, dto.Location.Longitude)
	if err != nil {
		return nil, err
	}
	radius, err := kernel.NewDistance(dto.RadiusKm)
	if err != nil {
		return nil, err
	}
	return party.NewProducer(id, dto.Name, loc, radius)
}
