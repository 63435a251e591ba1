package db

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// MedicineSchedule is a daily recurring intake of a medicine
type MedicineSchedule struct {
	ID          string  `json:"id"`
	Time        string  `json:"time"`
	MedicineID  string  `json:"medicine_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Less orders schedules by time of day
func (s MedicineSchedule) Less(other MedicineSchedule) bool {
	return timeKey(s.Time) < timeKey(other.Time)
}

// RequiredFields of a stored schedule
func (MedicineSchedule) RequiredFields() []string {
	return []string{"id", "time", "medicine_id", "description", "amount"}
}

// ScheduleInput for creating or replacing a schedule
type ScheduleInput struct {
	Time        string  `json:"time"`
	MedicineID  string  `json:"medicine_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// WithID builds the stored schedule
func (in ScheduleInput) WithID(id string) MedicineSchedule {
	return MedicineSchedule{
		ID:          id,
		Time:        in.Time,
		MedicineID:  in.MedicineID,
		Description: in.Description,
		Amount:      in.Amount,
	}
}

// ScheduleRepository stores medicine schedules
type ScheduleRepository = Repository[MedicineSchedule, ScheduleInput]

// NewScheduleRepository under the given environment namespace
func NewScheduleRepository(store Store, env string, logger zerolog.Logger) *ScheduleRepository {
	return NewRepository[MedicineSchedule, ScheduleInput](store, Namespace(env, EntitySchedule), logger)
}

// timeKey turns "08:30" into 830. Anything unparsable or outside int32 is 0.
func timeKey(t string) int {
	n, err := strconv.ParseInt(strings.ReplaceAll(t, ":", ""), 10, 32)
	if err != nil {
		return 0
	}

	return int(n)
}
