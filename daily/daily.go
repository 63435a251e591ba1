// Package daily joins medicine schedules with the medicines they reference
// into a per time slot view of a day.
package daily

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"git.0xdad.com/tblyler/medicate/db"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the medicine lookups in flight for one aggregation
const DefaultConcurrency = 8

// ScheduleLister lists every schedule
type ScheduleLister interface {
	List(ctx context.Context) ([]db.MedicineSchedule, error)
}

// MedicineReader reads a single medicine, nil when it does not exist
type MedicineReader interface {
	GetByID(ctx context.Context, id string) (*db.Medicine, error)
}

// MedicineAmount pairs a medicine with the amount to take.
// Medicine is nil when the schedule references a medicine that no longer exists.
type MedicineAmount struct {
	Medicine *db.Medicine
	Amount   float64
}

// MarshalJSON encodes the pair as [medicine, amount]
func (m MedicineAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{m.Medicine, m.Amount})
}

// UnmarshalJSON decodes a [medicine, amount] pair
func (m *MedicineAmount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}

	if len(pair) != 2 {
		return fmt.Errorf("expected [medicine, amount] pair, got %d elements", len(pair))
	}

	m.Medicine = nil
	if err := json.Unmarshal(pair[0], &m.Medicine); err != nil {
		return fmt.Errorf("failed to decode medicine: %w", err)
	}

	return json.Unmarshal(pair[1], &m.Amount)
}

// DailySchedule is everything scheduled at one time of day
type DailySchedule struct {
	Time      string           `json:"time"`
	Medicines []MedicineAmount `json:"medicines"`
	Taken     *bool            `json:"taken"`
}

// DailyScheduleWithDate labels the daily schedules with a date
type DailyScheduleWithDate struct {
	Date      string          `json:"date"`
	Schedules []DailySchedule `json:"schedules"`
}

// Aggregator builds daily views
type Aggregator struct {
	Schedules ScheduleLister
	Medicines MedicineReader
	// Concurrency of medicine lookups, DefaultConcurrency when zero. 1 looks them up sequentially.
	Concurrency int
}

// GetDailySchedule with the default lookup concurrency
func GetDailySchedule(ctx context.Context, date string, schedules ScheduleLister, medicines MedicineReader) (*DailyScheduleWithDate, error) {
	a := &Aggregator{Schedules: schedules, Medicines: medicines}
	return a.Build(ctx, date)
}

// Build the view for date. Schedules recur daily, so date is only echoed back
// and every stored schedule is included.
func (a *Aggregator) Build(ctx context.Context, date string) (*DailyScheduleWithDate, error) {
	schedules, err := a.Schedules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	medicines, err := a.resolve(ctx, schedules)
	if err != nil {
		return nil, err
	}

	// grouped on the exact time string, "8:00" and "08:00" are different slots
	slots := map[string]*DailySchedule{}
	times := []string{}
	for i, schedule := range schedules {
		slot, ok := slots[schedule.Time]
		if !ok {
			slot = &DailySchedule{Time: schedule.Time, Medicines: []MedicineAmount{}}
			slots[schedule.Time] = slot
			times = append(times, schedule.Time)
		}

		slot.Medicines = append(slot.Medicines, MedicineAmount{
			Medicine: medicines[i],
			Amount:   schedule.Amount,
		})
	}

	sort.Strings(times)

	view := &DailyScheduleWithDate{
		Date:      date,
		Schedules: make([]DailySchedule, 0, len(times)),
	}
	for _, t := range times {
		view.Schedules = append(view.Schedules, *slots[t])
	}

	return view, nil
}

// resolve the medicine of every schedule, index aligned with schedules
func (a *Aggregator) resolve(ctx context.Context, schedules []db.MedicineSchedule) ([]*db.Medicine, error) {
	medicines := make([]*db.Medicine, len(schedules))

	limit := a.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, schedule := range schedules {
		i, schedule := i, schedule
		g.Go(func() error {
			medicine, err := a.Medicines.GetByID(ctx, schedule.MedicineID)
			if err != nil {
				return fmt.Errorf("failed to get medicine %s for schedule %s: %w", schedule.MedicineID, schedule.ID, err)
			}

			medicines[i] = medicine

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return medicines, nil
}
