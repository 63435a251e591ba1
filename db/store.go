package db

import (
	"context"
	"errors"
	"fmt"
)

// Entity namespace names
const (
	EntityMedicine = "medicine"
	EntitySchedule = "schedule"
	EntityDosage   = "dosage"
)

var (
	// ErrConnectivity occurs when the key-value store is unreachable, rejects a command or the call was cancelled
	ErrConnectivity = errors.New("key-value store unavailable")
	// ErrDecode occurs when a stored value does not parse into the expected entity
	ErrDecode = errors.New("stored value could not be decoded")
	// ErrEncode occurs when an entity could not be serialized for storage
	ErrEncode = errors.New("entity could not be encoded")
)

// Store is a flat string keyed value store shared by every repository.
// Keys are distinguished purely by namespace prefix.
type Store interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Del removes key, absent keys are not an error
	Del(ctx context.Context, key string) error
	// Keys lists every key starting with prefix
	Keys(ctx context.Context, prefix string) ([]string, error)
	// MGet returns one slot per key, nil for keys that no longer exist
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Close() error
}

// StoreError describes a failed store or codec operation
type StoreError struct {
	Op   string
	Key  string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Key, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func connectivityError(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Kind: ErrConnectivity, Err: err}
}

func decodeError(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Kind: ErrDecode, Err: err}
}

func encodeError(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Kind: ErrEncode, Err: err}
}

// Namespace builds the key prefix for an entity within an environment, e.g. "prod:medicine:"
func Namespace(env, entity string) string {
	return env + ":" + entity + ":"
}
