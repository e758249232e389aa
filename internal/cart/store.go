package cart

import (
	"context"
	"errors"
)

var ErrCartNotFound = errors.New("cart not found")

// CartStore is the persistence port for the single cart record of a
// shopper. Consumers define this interface, not the storage backends.
//
// Implementations must tolerate a missing or corrupt stored record by
// returning ErrCartNotFound (logged, not surfaced) so startup never
// hard-fails because of a bad persisted cart.
type CartStore interface {
	Load(ctx context.Context, shopperID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Clear(ctx context.Context, shopperID string) error
}
