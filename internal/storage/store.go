package storage

import (
	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
)

// ErrCartNotFound aliases cart.ErrCartNotFound, the sentinel the
// CartStore port requires from every backend.
var ErrCartNotFound = cart.ErrCartNotFound

// CartStore aliases the persistence port defined by the consumer
// (package cart); the backends in this package implement it.
type CartStore = cart.CartStore
