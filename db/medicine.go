package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

// ErrInsufficientStock occurs when a stock reduction would leave a negative stock
var ErrInsufficientStock = errors.New("insufficient stock")

// Medicine information
type Medicine struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Dose  float64 `json:"dose"`
	Unit  string  `json:"unit"`
	Stock float64 `json:"stock"`
}

// Less orders medicines by name
func (m Medicine) Less(other Medicine) bool {
	return m.Name < other.Name
}

// RequiredFields of a stored medicine
func (Medicine) RequiredFields() []string {
	return []string{"id", "name", "dose", "unit", "stock"}
}

func (m Medicine) String() string {
	return fmt.Sprintf("%s (%s %s)", m.Name, strconv.FormatFloat(m.Dose, 'f', -1, 64), m.Unit)
}

// MedicineInput for creating or replacing a medicine
type MedicineInput struct {
	Name  string  `json:"name"`
	Dose  float64 `json:"dose"`
	Unit  string  `json:"unit"`
	Stock float64 `json:"stock"`
}

// WithID builds the stored medicine
func (in MedicineInput) WithID(id string) Medicine {
	return Medicine{
		ID:    id,
		Name:  in.Name,
		Dose:  in.Dose,
		Unit:  in.Unit,
		Stock: in.Stock,
	}
}

// MedicineRepository stores medicines and their stock
type MedicineRepository struct {
	*Repository[Medicine, MedicineInput]
}

// NewMedicineRepository under the given environment namespace
func NewMedicineRepository(store Store, env string, logger zerolog.Logger) *MedicineRepository {
	return &MedicineRepository{
		Repository: NewRepository[Medicine, MedicineInput](store, Namespace(env, EntityMedicine), logger),
	}
}

// AddStock increases the stock of a medicine, false if it does not exist
func (r *MedicineRepository) AddStock(ctx context.Context, id string, amount float64) (bool, error) {
	return r.Mutate(ctx, id, func(m *Medicine) error {
		m.Stock += amount
		return nil
	})
}

// ReduceStock decreases the stock of a medicine, false if it does not exist.
// A reduction below zero is refused with ErrInsufficientStock and nothing is written.
func (r *MedicineRepository) ReduceStock(ctx context.Context, id string, amount float64) (bool, error) {
	return r.Mutate(ctx, id, func(m *Medicine) error {
		if m.Stock-amount < 0 {
			return fmt.Errorf("reduce %s stock %v by %v: %w", m.ID, m.Stock, amount, ErrInsufficientStock)
		}

		m.Stock -= amount
		return nil
	})
}
