package db

import "github.com/rs/zerolog"

// DosageHistory records a dose that was taken
type DosageHistory struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	MedicineID  string  `json:"medicine_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Less puts the most recent dose first
func (h DosageHistory) Less(other DosageHistory) bool {
	if h.Date != other.Date {
		return h.Date > other.Date
	}

	return timeKey(h.Time) > timeKey(other.Time)
}

// RequiredFields of a stored history entry
func (DosageHistory) RequiredFields() []string {
	return []string{"id", "date", "time", "medicine_id", "description", "amount"}
}

// DosageHistoryInput for recording a dose
type DosageHistoryInput struct {
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	MedicineID  string  `json:"medicine_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// WithID builds the stored history entry
func (in DosageHistoryInput) WithID(id string) DosageHistory {
	return DosageHistory{
		ID:          id,
		Date:        in.Date,
		Time:        in.Time,
		MedicineID:  in.MedicineID,
		Description: in.Description,
		Amount:      in.Amount,
	}
}

// DosageHistoryRepository stores taken doses
type DosageHistoryRepository = Repository[DosageHistory, DosageHistoryInput]

// NewDosageHistoryRepository under the given environment namespace
func NewDosageHistoryRepository(store Store, env string, logger zerolog.Logger) *DosageHistoryRepository {
	return NewRepository[DosageHistory, DosageHistoryInput](store, Namespace(env, EntityDosage), logger)
}
