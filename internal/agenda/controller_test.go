package agenda

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeService records calls and lets tests script responses, including
// blocking an in-flight fetch to exercise the stale-response guard.
type fakeService struct {
	mu            sync.Mutex
	practitioners []Practitioner
	appointments  map[string][]Appointment // keyed by Filters.Date
	listErr       error
	saveErr       error
	nextID        int
	listCalls     []Filters
	updates       []Appointment
	deletes       []int
	block         chan struct{} // when set, Appointments waits on it
}

func newFakeService() *fakeService {
	return &fakeService{
		practitioners: []Practitioner{
			{ID: "ah", Name: "Dr. Anne Humblet", Initials: "AH"},
			{ID: "jv", Name: "Dr. Jean Vermeulen", Initials: "JV"},
		},
		appointments: make(map[string][]Appointment),
		nextID:       100,
	}
}

func (f *fakeService) Practitioners(ctx context.Context) ([]Practitioner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.practitioners, nil
}

func (f *fakeService) Appointments(ctx context.Context, flt Filters) ([]Appointment, error) {
	f.mu.Lock()
	block := f.block
	f.listCalls = append(f.listCalls, flt)
	list, err := f.appointments[flt.Date], f.listErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return list, err
}

func (f *fakeService) CreateAppointment(ctx context.Context, apt Appointment) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeService) UpdateAppointment(ctx context.Context, apt Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.updates = append(f.updates, apt)
	return nil
}

func (f *fakeService) DeleteAppointment(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeService) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

var testDay = time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC)

func TestControllerStart(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-17"] = []Appointment{
		{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"},
		{ID: 2, Time: "10:00", Duration: 45, Patient: "Jean Martin", PractitionerID: "jv"},
	}
	c := NewController(svc, testDay)
	defer c.Close()

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if state, _ := c.State(); state != StateLoaded {
		t.Errorf("state = %v, want loaded", state)
	}
	if len(c.Practitioners()) != 2 {
		t.Errorf("practitioners = %d", len(c.Practitioners()))
	}
	// All practitioners start selected, so nothing is filtered away.
	if got := c.Visible(); len(got) != 2 {
		t.Errorf("visible = %d, want 2", len(got))
	}
	if c.Total() != 2 {
		t.Errorf("total = %d", c.Total())
	}
	// Full selection means no practitionerId param on the wire.
	if f := svc.listCalls[0]; f.PractitionerID != "" || f.Date != "2023-03-17" {
		t.Errorf("filters = %+v", f)
	}
}

func TestControllerSetDay(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-18"] = []Appointment{
		{ID: 9, Time: "11:00", Duration: 15, Patient: "Paul Petit", PractitionerID: "ah"},
	}
	c := NewController(svc, testDay)
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := c.SetDay(context.Background(), testDay.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("SetDay: %v", err)
	}
	got := c.Visible()
	if len(got) != 1 || got[0].ID != 9 {
		t.Errorf("visible after day change = %+v", got)
	}
}

func TestControllerToggleIsClientSide(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-17"] = []Appointment{
		{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"},
		{ID: 2, Time: "10:00", Duration: 45, Patient: "Jean Martin", PractitionerID: "jv"},
	}
	c := NewController(svc, testDay)
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	calls := svc.listCallCount()

	c.TogglePractitioner("jv")
	if svc.listCallCount() != calls {
		t.Error("toggling a practitioner must not hit the server")
	}
	got := c.Visible()
	if len(got) != 1 || got[0].PractitionerID != "ah" {
		t.Errorf("visible after toggle = %+v", got)
	}
}

func TestControllerSearchDebounce(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-17"] = []Appointment{
		{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"},
	}
	c := NewController(svc, testDay)
	c.debounce = 20 * time.Millisecond
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	calls := svc.listCallCount()

	// Rapid typing: only the last keystroke survives the debounce.
	c.SetQuery(context.Background(), "d")
	c.SetQuery(context.Background(), "du")
	c.SetQuery(context.Background(), "dupont")
	if svc.listCallCount() != calls {
		t.Error("re-fetch must not fire before the debounce window")
	}

	deadline := time.Now().Add(time.Second)
	for svc.listCallCount() == calls {
		if time.Now().After(deadline) {
			t.Fatal("debounced re-fetch never fired")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if svc.listCallCount() != calls+1 {
		t.Errorf("expected exactly one debounced fetch, got %d extra", svc.listCallCount()-calls)
	}
	svc.mu.Lock()
	last := svc.listCalls[len(svc.listCalls)-1]
	svc.mu.Unlock()
	if last.PatientSearch != "dupont" {
		t.Errorf("search sent = %q", last.PatientSearch)
	}
}

func TestControllerStaleResponseDropped(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-17"] = []Appointment{
		{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"},
	}
	svc.appointments["2023-03-18"] = []Appointment{
		{ID: 2, Time: "10:00", Duration: 30, Patient: "Jean Martin", PractitionerID: "ah"},
	}
	c := NewController(svc, testDay)
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Hold the fetch for day 17 in flight while day 18 completes.
	block := make(chan struct{})
	svc.mu.Lock()
	svc.block = block
	svc.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.SetDay(context.Background(), testDay) }()

	// Wait for the slow request to be issued.
	deadline := time.Now().Add(time.Second)
	for svc.listCallCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("slow fetch never issued")
		}
		time.Sleep(time.Millisecond)
	}

	svc.mu.Lock()
	svc.block = nil
	svc.mu.Unlock()
	if err := c.SetDay(context.Background(), testDay.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("SetDay: %v", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("blocked SetDay: %v", err)
	}

	// The newer day's data must win even though the older response
	// arrived last.
	got := c.Visible()
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("stale response overwrote newer data: %+v", got)
	}
}

func TestControllerSaveRefetches(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-17"] = []Appointment{
		{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"},
	}
	c := NewController(svc, testDay)
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	calls := svc.listCallCount()

	if err := c.Save(context.Background(), Appointment{Time: "10:00", Duration: 30, PractitionerID: "ah"}); err != nil {
		t.Fatalf("Save (create): %v", err)
	}
	if svc.listCallCount() != calls+1 {
		t.Error("create must trigger a re-fetch")
	}

	if err := c.Save(context.Background(), Appointment{ID: 1, Time: "10:30", Duration: 30, PractitionerID: "ah"}); err != nil {
		t.Fatalf("Save (update): %v", err)
	}
	svc.mu.Lock()
	nUpdates := len(svc.updates)
	svc.mu.Unlock()
	if nUpdates != 1 {
		t.Errorf("expected one update, got %d", nUpdates)
	}
}

func TestControllerDeleteRefetches(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-17"] = []Appointment{
		{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"},
	}
	c := NewController(svc, testDay)
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	calls := svc.listCallCount()

	if err := c.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	svc.mu.Lock()
	deleted := svc.deletes
	svc.mu.Unlock()
	if len(deleted) != 1 || deleted[0] != 1 {
		t.Errorf("deletes = %v", deleted)
	}
	if svc.listCallCount() != calls+1 {
		t.Error("delete must trigger a re-fetch")
	}
}

func TestControllerErrorStateAndRetry(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-17"] = []Appointment{
		{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"},
	}
	svc.listErr = errors.New("boom")
	c := NewController(svc, testDay)
	defer c.Close()

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	state, lastErr := c.State()
	if state != StateError || lastErr == nil {
		t.Errorf("state = %v, err = %v", state, lastErr)
	}
	if len(c.Visible()) != 0 {
		t.Error("no data may be shown in the error state")
	}

	svc.mu.Lock()
	svc.listErr = nil
	svc.mu.Unlock()
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	state, lastErr = c.State()
	if state != StateLoaded || lastErr != nil {
		t.Errorf("after retry: state = %v, err = %v", state, lastErr)
	}
	if len(c.Visible()) != 1 {
		t.Error("data must be back after retry")
	}
}

func TestControllerDragAndDrop(t *testing.T) {
	svc := newFakeService()
	apt := Appointment{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"}
	svc.appointments["2023-03-17"] = []Appointment{apt}
	c := NewController(svc, testDay)
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	c.BeginDrag(apt)
	if _, ok := c.Dragged(); !ok {
		t.Fatal("drag state not recorded")
	}
	if err := c.DropOn(context.Background(), "14:00", "jv"); err != nil {
		t.Fatalf("DropOn: %v", err)
	}
	if _, ok := c.Dragged(); ok {
		t.Error("drag state must clear after a successful drop")
	}
	svc.mu.Lock()
	moved := svc.updates[len(svc.updates)-1]
	svc.mu.Unlock()
	if moved.Time != "14:00" || moved.PractitionerID != "jv" {
		t.Errorf("update payload = %+v", moved)
	}
}

func TestControllerDropFailureKeepsDrag(t *testing.T) {
	svc := newFakeService()
	apt := Appointment{ID: 1, Time: "09:00", Duration: 30, Patient: "Marie Dupont", PractitionerID: "ah"}
	svc.appointments["2023-03-17"] = []Appointment{apt}
	c := NewController(svc, testDay)
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	c.BeginDrag(apt)
	svc.mu.Lock()
	svc.saveErr = errors.New("boom")
	svc.mu.Unlock()
	if err := c.DropOn(context.Background(), "14:00", "jv"); err == nil {
		t.Fatal("expected drop failure")
	}
	if _, ok := c.Dragged(); !ok {
		t.Error("drag state must survive a failed drop")
	}
}

func TestControllerSubsetSelectionOnWire(t *testing.T) {
	svc := newFakeService()
	svc.appointments["2023-03-17"] = nil
	c := NewController(svc, testDay)
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	c.SetSelected([]string{"ah"})
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	svc.mu.Lock()
	last := svc.listCalls[len(svc.listCalls)-1]
	svc.mu.Unlock()
	if last.PractitionerID != "ah" {
		t.Errorf("strict subset must be sent on the wire, got %q", last.PractitionerID)
	}
}
