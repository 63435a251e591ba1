package db

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedis(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func newTestRepositories(t *testing.T) (*Repositories, *miniredis.Miniredis) {
	t.Helper()

	store, mr := newTestRedis(t)
	return NewRepositories(store, "test", zerolog.Nop()), mr
}

func TestMedicineCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repos, mr := newTestRepositories(t)

	id, err := repos.Medicines.Create(ctx, MedicineInput{Name: "Aspirin", Dose: 500, Unit: "mg", Stock: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	if !mr.Exists("test:medicine:" + id) {
		t.Fatalf("expected key test:medicine:%s to exist", id)
	}

	got, err := repos.Medicines.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected medicine, got nil")
	}

	want := Medicine{ID: id, Name: "Aspirin", Dose: 500, Unit: "mg", Stock: 100}
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	input := MedicineInput{Name: "Ibuprofen", Dose: 200, Unit: "mg"}
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := repos.Medicines.Create(ctx, input)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}

	list, err := repos.Medicines.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("expected 5 medicines, got %d", len(list))
	}
}

func TestGetByIDAbsent(t *testing.T) {
	repos, _ := newTestRepositories(t)

	got, err := repos.Medicines.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestMedicineListOrderedByName(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	for _, name := range []string{"Vitamin C", "Aspirin", "Paracetamol", "Ibuprofen"} {
		if _, err := repos.Medicines.Create(ctx, MedicineInput{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := repos.Medicines.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"Aspirin", "Ibuprofen", "Paracetamol", "Vitamin C"}
	if len(list) != len(want) {
		t.Fatalf("expected %d medicines, got %d", len(want), len(list))
	}
	for i, m := range list {
		if m.Name != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, m.Name, want[i])
		}
	}
}

func TestListEmptyNamespace(t *testing.T) {
	repos, _ := newTestRepositories(t)

	list, err := repos.Schedules.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	id, err := repos.Medicines.Create(ctx, MedicineInput{Name: "Aspirin"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err = repos.Medicines.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repos.Medicines.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected deleted medicine to be absent, got %+v", got)
	}

	list, err := repos.Medicines.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}

	if err = repos.Medicines.Delete(ctx, id); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

func TestUpdateOverwritesAndUpserts(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	id, err := repos.Schedules.Create(ctx, ScheduleInput{Time: "08:00", MedicineID: "m1", Amount: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err = repos.Schedules.Update(ctx, id, ScheduleInput{Time: "09:30", MedicineID: "m2", Amount: 2}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repos.Schedules.GetByID(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	want := MedicineSchedule{ID: id, Time: "09:30", MedicineID: "m2", Amount: 2}
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}

	if err = repos.Schedules.Update(ctx, "brand-new", ScheduleInput{Time: "10:00"}); err != nil {
		t.Fatalf("update of absent id: %v", err)
	}
	got, err = repos.Schedules.GetByID(ctx, "brand-new")
	if err != nil || got == nil {
		t.Fatalf("expected update to create the entity: %v %v", got, err)
	}
}

func TestAddStock(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	id, err := repos.Medicines.Create(ctx, MedicineInput{Name: "Aspirin", Dose: 500, Unit: "mg", Stock: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, amount := range []float64{50, 25} {
		found, err := repos.Medicines.AddStock(ctx, id, amount)
		if err != nil || !found {
			t.Fatalf("add stock %v: found=%v err=%v", amount, found, err)
		}
	}

	got, err := repos.Medicines.GetByID(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Stock != 175 {
		t.Fatalf("expected stock 175, got %v", got.Stock)
	}

	found, err := repos.Medicines.AddStock(ctx, "missing", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected found=false for missing medicine")
	}
}

func TestReduceStock(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	id, err := repos.Medicines.Create(ctx, MedicineInput{Name: "Aspirin", Stock: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := repos.Medicines.ReduceStock(ctx, id, 4)
	if err != nil || !found {
		t.Fatalf("reduce: found=%v err=%v", found, err)
	}

	found, err = repos.Medicines.ReduceStock(ctx, id, 7)
	if !found {
		t.Fatal("expected found=true")
	}
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	got, err := repos.Medicines.GetByID(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Stock != 6 {
		t.Fatalf("expected stock to stay at 6, got %v", got.Stock)
	}

	found, err = repos.Medicines.ReduceStock(ctx, "missing", 1)
	if err != nil || found {
		t.Fatalf("expected found=false err=nil, got found=%v err=%v", found, err)
	}
}

func TestScheduleListOrderedByTime(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	for _, tm := range []string{"20:00", "08:30", "bogus", "12:15", "08:00"} {
		if _, err := repos.Schedules.Create(ctx, ScheduleInput{Time: tm}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := repos.Schedules.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"bogus", "08:00", "08:30", "12:15", "20:00"}
	for i, s := range list {
		if s.Time != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, s.Time, want[i])
		}
	}
}

func TestDosageHistoryMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	inputs := []DosageHistoryInput{
		{Date: "2024-01-15", Time: "08:30", MedicineID: "m1", Amount: 1},
		{Date: "2024-01-20", Time: "08:00", MedicineID: "m1", Amount: 1},
		{Date: "2024-01-15", Time: "20:00", MedicineID: "m2", Amount: 2},
	}
	for _, in := range inputs {
		if _, err := repos.Dosages.Create(ctx, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := repos.Dosages.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := [][2]string{{"2024-01-20", "08:00"}, {"2024-01-15", "20:00"}, {"2024-01-15", "08:30"}}
	if len(list) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(list))
	}
	for i, h := range list {
		if h.Date != want[i][0] || h.Time != want[i][1] {
			t.Fatalf("position %d: got %s %s, want %s %s", i, h.Date, h.Time, want[i][0], want[i][1])
		}
	}
}

func TestUndecodableEntries(t *testing.T) {
	ctx := context.Background()
	repos, mr := newTestRepositories(t)

	if _, err := repos.Medicines.Create(ctx, MedicineInput{Name: "Aspirin"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mr.Set("test:medicine:corrupt", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, err := repos.Medicines.List(ctx)
	if err != nil {
		t.Fatalf("list should tolerate corrupt entries: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Aspirin" {
		t.Fatalf("expected only Aspirin, got %+v", list)
	}

	_, err = repos.Medicines.GetByID(ctx, "corrupt")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}

	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Key != "test:medicine:corrupt" {
		t.Fatalf("expected StoreError for the corrupt key, got %#v", err)
	}
}

func TestForeignShapedEntries(t *testing.T) {
	ctx := context.Background()
	repos, mr := newTestRepositories(t)

	if _, err := repos.Medicines.Create(ctx, MedicineInput{Name: "Aspirin"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	seeded := map[string]string{
		"null":    `null`,
		"empty":   `{}`,
		"foreign": `{"session":"abc","ttl":30}`,
		"partial": `{"id":"partial","name":"Ibuprofen"}`,
		"extra":   `{"id":"extra","name":"Ibuprofen","dose":1,"unit":"mg","stock":1,"owner":"x"}`,
		"nulled":  `{"id":"nulled","name":null,"dose":1,"unit":"mg","stock":1}`,
		"array":   `[1,2]`,
	}
	for id, val := range seeded {
		if err := mr.Set("test:medicine:"+id, val); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	list, err := repos.Medicines.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Aspirin" {
		t.Fatalf("expected only Aspirin, got %+v", list)
	}

	for id := range seeded {
		got, err := repos.Medicines.GetByID(ctx, id)
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("GetByID(%s): expected ErrDecode, got %+v %v", id, got, err)
		}
	}
}

func TestEmptyFieldsStillDecode(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	id, err := repos.Schedules.Create(ctx, ScheduleInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repos.Schedules.GetByID(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("expected zero valued schedule to round trip, got %+v %v", got, err)
	}
}

func TestTimeKey(t *testing.T) {
	tests := map[string]int{
		"08:30":       830,
		"23:59":       2359,
		"00:00":       0,
		"bogus":       0,
		"":            0,
		"99999:99999": 0,
	}

	for in, want := range tests {
		if got := timeKey(in); got != want {
			t.Fatalf("timeKey(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedis(t)

	prod := NewRepositories(store, "prod", zerolog.Nop())
	test := NewRepositories(store, "test", zerolog.Nop())

	if _, err := prod.Medicines.Create(ctx, MedicineInput{Name: "Aspirin"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := prod.Schedules.Create(ctx, ScheduleInput{Time: "08:00"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := test.Medicines.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("test namespace should be empty, got %+v", list)
	}

	meds, err := prod.Medicines.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(meds) != 1 {
		t.Fatalf("expected schedules to stay out of the medicine namespace, got %+v", meds)
	}
}

type vanishingStore struct {
	Store
	victim string
}

func (s *vanishingStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if err := s.Store.Del(ctx, s.victim); err != nil {
		return nil, err
	}

	return s.Store.MGet(ctx, keys)
}

func TestListToleratesKeysVanishingBeforeFetch(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedis(t)

	seed := NewMedicineRepository(store, "test", zerolog.Nop())
	keep, err := seed.Create(ctx, MedicineInput{Name: "Aspirin"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gone, err := seed.Create(ctx, MedicineInput{Name: "Ibuprofen"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	repo := NewMedicineRepository(&vanishingStore{Store: store, victim: seed.Prefix() + gone}, "test", zerolog.Nop())

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep {
		t.Fatalf("expected only %s, got %+v", keep, list)
	}
}

func TestConnectivityError(t *testing.T) {
	repos, mr := newTestRepositories(t)
	mr.Close()

	_, err := repos.Medicines.GetByID(context.Background(), "any")
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}

	_, err = repos.Medicines.List(context.Background())
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity from list, got %v", err)
	}
}

func TestEscapePattern(t *testing.T) {
	tests := map[string]string{
		"prod:medicine:": "prod:medicine:",
		"a*b?":           `a\*b\?`,
		"[x]":            `\[x\]`,
		`back\slash`:     `back\\slash`,
	}

	for in, want := range tests {
		if got := escapePattern(in); got != want {
			t.Fatalf("escapePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMedicineString(t *testing.T) {
	m := Medicine{Name: "Vitamin C", Dose: 1000, Unit: "mg"}
	if got := m.String(); got != "Vitamin C (1000 mg)" {
		t.Fatalf("got %q", got)
	}
}
