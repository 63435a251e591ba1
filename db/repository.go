package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Record is a stored entity that knows its natural order
type Record[T any] interface {
	// Less reports whether the receiver sorts before other
	Less(other T) bool
	// RequiredFields lists the JSON keys every stored value must carry
	RequiredFields() []string
}

// Input is the caller supplied part of an entity, everything except the id
type Input[T any] interface {
	WithID(id string) T
}

// Repository provides namespaced CRUD for one entity type over a shared Store.
// Values are stored as JSON under prefix + id.
type Repository[T Record[T], I Input[T]] struct {
	store  Store
	prefix string
	logger zerolog.Logger
}

// NewRepository for the entity stored under prefix
func NewRepository[T Record[T], I Input[T]](store Store, prefix string, logger zerolog.Logger) *Repository[T, I] {
	return &Repository[T, I]{
		store:  store,
		prefix: prefix,
		logger: logger.With().Str("namespace", prefix).Logger(),
	}
}

// Prefix the repository stores its keys under
func (r *Repository[T, I]) Prefix() string {
	return r.prefix
}

func (r *Repository[T, I]) key(id string) string {
	return r.prefix + id
}

// Create a new entity with a generated id
func (r *Repository[T, I]) Create(ctx context.Context, input I) (string, error) {
	id := uuid.NewString()
	if err := r.put(ctx, "create", id, input.WithID(id)); err != nil {
		return "", err
	}

	return id, nil
}

// GetByID returns nil when the entity does not exist
func (r *Repository[T, I]) GetByID(ctx context.Context, id string) (*T, error) {
	key := r.key(id)

	val, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	entity, err := decode[T](val)
	if err != nil {
		return nil, decodeError("get", key, err)
	}

	return &entity, nil
}

// List every entity in the namespace in natural order.
// Values that fail to decode, or vanish between the scan and the fetch, are skipped.
func (r *Repository[T, I]) List(ctx context.Context) ([]T, error) {
	keys, err := r.store.Keys(ctx, r.prefix)
	if err != nil {
		return nil, err
	}

	entities := []T{}
	if len(keys) == 0 {
		return entities, nil
	}

	vals, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	for i, val := range vals {
		if val == nil {
			continue
		}

		entity, err := decode[T](val)
		if err != nil {
			r.logger.Warn().Err(err).Str("key", keys[i]).Msg("skipping undecodable entry")
			continue
		}

		entities = append(entities, entity)
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Less(entities[j])
	})

	return entities, nil
}

// Update overwrites the entity stored under id, creating it if it did not exist
func (r *Repository[T, I]) Update(ctx context.Context, id string, input I) error {
	return r.put(ctx, "update", id, input.WithID(id))
}

// Delete the entity, deleting an absent id is not an error
func (r *Repository[T, I]) Delete(ctx context.Context, id string) error {
	return r.store.Del(ctx, r.key(id))
}

// Mutate reads the entity, applies fn and writes the result back.
// It reports false without calling fn when the entity does not exist.
// Concurrent mutations of the same id are last write wins.
func (r *Repository[T, I]) Mutate(ctx context.Context, id string, fn func(entity *T) error) (bool, error) {
	entity, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	if entity == nil {
		return false, nil
	}

	if err = fn(entity); err != nil {
		return true, err
	}

	return true, r.put(ctx, "mutate", id, *entity)
}

func (r *Repository[T, I]) put(ctx context.Context, op, id string, entity T) error {
	key := r.key(id)

	data, err := json.Marshal(entity)
	if err != nil {
		return encodeError(op, key, err)
	}

	return r.store.Set(ctx, key, data)
}

var errNullValue = errors.New("value is null")

// decode a stored value strictly. Values of another shape sharing the
// namespace must fail here rather than come back as empty entities.
func decode[T Record[T]](data []byte) (T, error) {
	var entity T

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return entity, err
	}

	if fields == nil {
		return entity, errNullValue
	}

	for _, name := range entity.RequiredFields() {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return entity, fmt.Errorf("missing field %q", name)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entity); err != nil {
		return entity, err
	}

	return entity, nil
}

// Repositories for every entity, sharing one store
type Repositories struct {
	Medicines *MedicineRepository
	Schedules *ScheduleRepository
	Dosages   *DosageHistoryRepository
}

// NewRepositories for the given environment namespace
func NewRepositories(store Store, env string, logger zerolog.Logger) *Repositories {
	return &Repositories{
		Medicines: NewMedicineRepository(store, env, logger),
		Schedules: NewScheduleRepository(store, env, logger),
		Dosages:   NewDosageHistoryRepository(store, env, logger),
	}
}
