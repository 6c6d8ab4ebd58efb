// Package orderrepo persists orders with GORM. Line items are stored as jsonb on the order row
// so that every order write stays a single-row statement.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. The key is (restaurant_id, id).
type OrderDTO struct {
	RestaurantID  string       `gorm:"type:varchar(64);primaryKey"`
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey"`
	CustomerRef   string       `gorm:"type:varchar(128);index"`
	LineItems     LineItemsDTO `gorm:"type:jsonb;not null"`
	TotalPrice    int64
	Status        int `gorm:"index"`
	PendingToken  string
	LastToken     string
	StockReleased bool
	Version       int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type LineItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// LineItemsDTO maps to a jsonb column.
type LineItemsDTO []LineItemDTO

func (l LineItemsDTO) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LineItemsDTO) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*l = nil
		return nil
	default:
		return errors.New("line items: unsupported column type")
	}
	return json.Unmarshal(raw, l)
}

func fromDomain(o *order.Order) OrderDTO {
	items := o.LineItems()
	lines := make(LineItemsDTO, 0, len(items))
	for _, it := range items {
		lines = append(lines, LineItemDTO{ProductID: it.ProductID().Bytes(), Quantity: it.Quantity()})
	}

	return OrderDTO{
		RestaurantID:  o.RestaurantID().String(),
		ID:            o.ID().Bytes(),
		CustomerRef:   o.CustomerRef(),
		LineItems:     lines,
		TotalPrice:    o.TotalPrice(),
		Status:        int(o.Status()),
		PendingToken:  o.PendingToken().String(),
		LastToken:     o.LastToken().String(),
		StockReleased: o.StockReleased(),
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	restaurantID, err := kernel.NewRestaurantID(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.LineItems))
	for _, line := range dto.LineItems {
		productID, err := kernel.UUIDFromBytes(line.ProductID[:])
		if err != nil {
			return nil, err
		}
		it, err := order.NewLineItem(productID, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	pending, err := kernel.OptionalTokenFromString(dto.PendingToken)
	if err != nil {
		return nil, err
	}
	last, err := kernel.OptionalTokenFromString(dto.LastToken)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(restaurantID, id, dto.CustomerRef, items, dto.TotalPrice,
		order.Status(dto.Status), pending, last, dto.StockReleased, dto.Version,
		dto.CreatedAt.UTC(), dto.UpdatedAt.UTC())
}
