package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/censusstack/income-explorer/internal/dataset"
)

const managerCSV = `age,workclass,occupation,native_country,race,gender,education,hours_per_week,capital_gain,income
39,Private,Sales,United-States,White,Male,Bachelors,40,0,<=50K
28,Private,Sales,Cuba,Black,Female,Bachelors,40,0,>50K
`

func testManager(t *testing.T, ttl time.Duration, max int) *Manager {
	t.Helper()
	d, err := dataset.Parse(strings.NewReader(managerCSV), ',')
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewManager(d, nil, ttl, max, nil, nil)
}

func TestManagerCreateGetDrop(t *testing.T) {
	m := testManager(t, time.Hour, 0)

	s, err := m.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID() == "" {
		t.Fatal("expected non-empty session id")
	}
	if s.Engine() == nil {
		t.Fatal("expected session engine")
	}

	got, err := m.Get(s.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != s {
		t.Fatal("expected the same session back")
	}

	if err := m.Drop(s.ID()); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := m.Get(s.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after drop, got %v", err)
	}
	if err := m.Drop(s.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double drop, got %v", err)
	}
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	m := testManager(t, time.Hour, 0)

	a, _ := m.Create()
	b, _ := m.Create()

	if err := a.Engine().SetGender("Female"); err != nil {
		t.Fatalf("set gender: %v", err)
	}
	if got := b.Engine().Params().Gender; got != "All" {
		t.Fatalf("sessions must not share parameters, got %q", got)
	}
	if a.Engine().CurrentView() == b.Engine().CurrentView() {
		t.Fatal("sessions must own independent views")
	}
}

func TestManagerLimit(t *testing.T) {
	m := testManager(t, time.Hour, 2)

	if _, err := m.Create(); err != nil {
		t.Fatalf("create 1: %v", err)
	}
	s2, err := m.Create()
	if err != nil {
		t.Fatalf("create 2: %v", err)
	}
	if _, err := m.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}

	// Dropping one frees a slot.
	if err := m.Drop(s2.ID()); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := m.Create(); err != nil {
		t.Fatalf("create after drop: %v", err)
	}
}

func TestManagerSweepExpiresIdleSessions(t *testing.T) {
	m := testManager(t, 10*time.Minute, 0)
	base := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	now := base
	m.now = func() time.Time { return now }

	stale, _ := m.Create()
	fresh, _ := m.Create()

	// Keep one session active past the idle window.
	now = base.Add(9 * time.Minute)
	if _, err := m.Get(fresh.ID()); err != nil {
		t.Fatalf("touch: %v", err)
	}

	now = base.Add(15 * time.Minute)
	if removed := m.Sweep(); removed != 1 {
		t.Fatalf("expected 1 expired session, got %d", removed)
	}
	if _, err := m.Get(stale.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected stale session gone, got %v", err)
	}
	if _, err := m.Get(fresh.ID()); err != nil {
		t.Fatalf("expected fresh session alive, got %v", err)
	}
}

func TestManagerSweepDisabled(t *testing.T) {
	m := testManager(t, 0, 0)
	m.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	if _, err := m.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if removed := m.Sweep(); removed != 0 {
		t.Fatalf("expected no expiry with ttl 0, got %d", removed)
	}
}

func TestManagerCountCallback(t *testing.T) {
	d, err := dataset.Parse(strings.NewReader(managerCSV), ',')
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var seen []int
	m := NewManager(d, nil, time.Hour, 0, nil, func(n int) { seen = append(seen, n) })

	s, _ := m.Create()
	_, _ = m.Create()
	_ = m.Drop(s.ID())

	want := []int{1, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}
