package catalog

import (
	"context"
	"errors"
)

var (
	// ErrChannelNotFound indicates the requested channel does not exist.
	ErrChannelNotFound = errors.New("catalog: channel not found")
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("catalog: product not found")
)

// ProductCursor iterates an ordered stream of products. Usage mirrors
// database/sql rows:
//
//	for cursor.Next(ctx) {
//	    p := cursor.Product()
//	    ...
//	}
//	if err := cursor.Err(); err != nil { ... }
type ProductCursor interface {
	// Next advances the cursor. It returns false when the stream is exhausted
	// or an error occurred; Err disambiguates.
	Next(ctx context.Context) bool

	// Product returns the product at the current position. Only valid after a
	// Next call that returned true.
	Product() *Product

	// Err returns the error that terminated iteration, if any.
	Err() error
}

// ProductRepository reads products from the PIM store.
type ProductRepository interface {
	// Get returns a product by identifier.
	Get(ctx context.Context, identifier string) (*Product, error)

	// ListByChannel returns an ordered cursor over the products selectable
	// for the given channel.
	ListByChannel(ctx context.Context, channelCode string) (ProductCursor, error)
}

// AttributeRepository reads attribute definitions from the PIM store.
type AttributeRepository interface {
	// List returns all attributes in a stable order.
	List(ctx context.Context) ([]Attribute, error)
}

// CategoryRepository reads categories from the PIM store.
type CategoryRepository interface {
	// List returns all categories in a stable order.
	List(ctx context.Context) ([]Category, error)
}

// ChannelRepository reads channels from the PIM store.
type ChannelRepository interface {
	// Get returns a channel by code, or ErrChannelNotFound.
	Get(ctx context.Context, code string) (*Channel, error)
}

// VariantGroupRepository reads variant groups from the PIM store.
type VariantGroupRepository interface {
	// List returns all variant groups in a stable order.
	List(ctx context.Context) ([]VariantGroup, error)
}
