package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreClosed  = errors.New("store is closed")
	ErrAlreadyOpen  = errors.New("store is already open")
	ErrStoreCorrupt = errors.New("store failed integrity validation after recreation")
)

// Record errors.
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidEntry     = errors.New("invalid ventilation entry")
	ErrInvalidApartment = errors.New("invalid apartment")
	ErrInvalidRoom      = errors.New("invalid room")
	ErrDuplicateRoom    = errors.New("room id already exists in apartment")
	ErrLastRoom         = errors.New("apartment must keep at least one room")
)

// Import errors.
var (
	ErrInvalidPayload = errors.New("invalid import payload")
	ErrInvalidMode    = errors.New("unknown import mode")
)
