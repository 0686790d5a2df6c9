package agenda

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// State of the controller's fetch machine.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Filters are the query parameters of GET /api/appointments.
type Filters struct {
	Date           string // YYYY-MM-DD
	PractitionerID string // comma-separated ids, empty = all
	PatientSearch  string
	Status         string
}

// Service is the API boundary the controller fetches through.
type Service interface {
	Practitioners(ctx context.Context) ([]Practitioner, error)
	Appointments(ctx context.Context, f Filters) ([]Appointment, error)
	CreateAppointment(ctx context.Context, apt Appointment) (int, error)
	UpdateAppointment(ctx context.Context, apt Appointment) error
	DeleteAppointment(ctx context.Context, id int) error
}

const searchDebounce = 300 * time.Millisecond

// Controller coordinates the agenda data flow: practitioners once at start,
// the selected day's appointments on every day change and after every
// mutation, and a debounced re-fetch when the patient search changes. Each
// fetch carries a generation token; a response belonging to an older
// generation is dropped, so rapid day paging can never overwrite newer data
// with a stale result.
type Controller struct {
	svc      Service
	debounce time.Duration

	mu            sync.Mutex
	state         State
	lastErr       error
	day           time.Time
	query         string
	practitioners []Practitioner
	selected      map[string]bool
	appointments  []Appointment
	total         int
	gen           uint64
	searchTimer   *time.Timer
	dragged       *Appointment
}

// NewController returns a controller over svc for the given initial day.
func NewController(svc Service, day time.Time) *Controller {
	return &Controller{
		svc:      svc,
		debounce: searchDebounce,
		state:    StateIdle,
		day:      day,
		selected: make(map[string]bool),
	}
}

// Start loads the practitioner directory, selects every practitioner as an
// active filter, then loads the day's appointments.
func (c *Controller) Start(ctx context.Context) error {
	pracs, err := c.svc.Practitioners(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateError
		c.lastErr = fmt.Errorf("load practitioners: %w", err)
		c.mu.Unlock()
		return err
	}
	c.mu.Lock()
	c.practitioners = pracs
	c.selected = make(map[string]bool, len(pracs))
	for _, p := range pracs {
		c.selected[p.ID] = true
	}
	c.mu.Unlock()
	return c.fetchAppointments(ctx)
}

// SetDay switches the displayed day and reloads it.
func (c *Controller) SetDay(ctx context.Context, day time.Time) error {
	c.mu.Lock()
	c.day = day
	c.mu.Unlock()
	return c.fetchAppointments(ctx)
}

// Day returns the displayed day.
func (c *Controller) Day() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

// SetQuery updates the patient search. The server re-fetch only fires after
// the query has been quiet for the debounce window; the client-side reducer
// in Visible applies immediately.
func (c *Controller) SetQuery(ctx context.Context, q string) {
	c.mu.Lock()
	c.query = q
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchTimer = time.AfterFunc(c.debounce, func() {
		_ = c.fetchAppointments(ctx)
	})
	c.mu.Unlock()
}

// SetSelected replaces the set of active practitioner filters. Selection is
// applied client-side; no re-fetch is needed.
func (c *Controller) SetSelected(ids []string) {
	c.mu.Lock()
	c.selected = make(map[string]bool, len(ids))
	for _, id := range ids {
		c.selected[id] = true
	}
	c.mu.Unlock()
}

// TogglePractitioner flips one practitioner filter.
func (c *Controller) TogglePractitioner(id string) {
	c.mu.Lock()
	c.selected[id] = !c.selected[id]
	c.mu.Unlock()
}

// Reload re-fetches the displayed day (manual retry after an error).
func (c *Controller) Reload(ctx context.Context) error {
	return c.fetchAppointments(ctx)
}

// State returns the fetch state and the last error (nil unless StateError
// or a failed mutation).
func (c *Controller) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.lastErr
}

// Practitioners returns the loaded practitioner directory.
func (c *Controller) Practitioners() []Practitioner {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.practitioners
}

// Total returns the size of the fetched day before client-side filtering.
func (c *Controller) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Visible returns the fetched appointments with the practitioner-selection
// and search reducer applied on top of the server-side filters. The search
// is filtered twice on purpose (server re-fetch plus this reducer), matching
// the established behavior of the agenda screen.
func (c *Controller) Visible() []Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.appointments, c.selected, c.query)
}

// Save creates the appointment when it has no id yet, updates it otherwise,
// then re-fetches the day so the grid reflects the stored rows.
func (c *Controller) Save(ctx context.Context, apt Appointment) error {
	var err error
	if apt.ID > 0 {
		err = c.svc.UpdateAppointment(ctx, apt)
	} else {
		_, err = c.svc.CreateAppointment(ctx, apt)
	}
	if err != nil {
		c.mu.Lock()
		c.lastErr = fmt.Errorf("save appointment: %w", err)
		c.mu.Unlock()
		return err
	}
	return c.fetchAppointments(ctx)
}

// Delete soft-deletes the appointment and re-fetches the day.
func (c *Controller) Delete(ctx context.Context, id int) error {
	if err := c.svc.DeleteAppointment(ctx, id); err != nil {
		c.mu.Lock()
		c.lastErr = fmt.Errorf("delete appointment: %w", err)
		c.mu.Unlock()
		return err
	}
	return c.fetchAppointments(ctx)
}

// BeginDrag records the appointment being dragged.
func (c *Controller) BeginDrag(apt Appointment) {
	c.mu.Lock()
	c.dragged = &apt
	c.mu.Unlock()
}

// Dragged returns the appointment currently being dragged, if any.
func (c *Controller) Dragged() (Appointment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragged == nil {
		return Appointment{}, false
	}
	return *c.dragged, true
}

// DropOn completes a drag onto (targetSlot, practitioner): the record is
// moved with Reschedule, persisted with a full-row update and the day is
// re-fetched. Drag state is cleared on success only; on failure the stale
// position stays visible until a reload.
func (c *Controller) DropOn(ctx context.Context, targetSlot, targetPractitionerID string) error {
	c.mu.Lock()
	if c.dragged == nil {
		c.mu.Unlock()
		return nil
	}
	apt := *c.dragged
	day := c.day
	c.mu.Unlock()

	moved, err := Reschedule(apt, day, targetSlot, targetPractitionerID)
	if err != nil {
		return err
	}
	if err := c.svc.UpdateAppointment(ctx, moved); err != nil {
		c.mu.Lock()
		c.lastErr = fmt.Errorf("reschedule appointment: %w", err)
		c.mu.Unlock()
		return err
	}
	c.mu.Lock()
	c.dragged = nil
	c.mu.Unlock()
	return c.fetchAppointments(ctx)
}

// Close stops the pending debounce timer, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.mu.Unlock()
}

func (c *Controller) fetchAppointments(ctx context.Context) error {
	c.mu.Lock()
	if len(c.practitioners) == 0 {
		c.mu.Unlock()
		return nil
	}
	c.state = StateLoading
	c.gen++
	gen := c.gen
	f := c.buildFilters()
	c.mu.Unlock()

	list, err := c.svc.Appointments(ctx, f)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer request was issued while this one was in flight.
		return nil
	}
	if err != nil {
		c.state = StateError
		c.lastErr = fmt.Errorf("load appointments: %w", err)
		c.appointments = nil
		c.total = 0
		return err
	}
	c.state = StateLoaded
	c.lastErr = nil
	c.appointments = list
	c.total = len(list)
	return nil
}

// buildFilters mirrors the agenda screen: the practitionerId param is only
// sent when the selection is a strict subset; the search is sent as-is.
// Callers hold c.mu.
func (c *Controller) buildFilters() Filters {
	f := Filters{Date: c.day.Format("2006-01-02")}
	var ids []string
	for _, p := range c.practitioners {
		if c.selected[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) > 0 && len(ids) < len(c.practitioners) {
		f.PractitionerID = strings.Join(ids, ",")
	}
	if c.query != "" {
		f.PatientSearch = c.query
	}
	return f
}
