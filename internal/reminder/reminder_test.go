package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/dentadmin/backend/internal/repo"
)

type fakeLister struct {
	rows []repo.Appointment
	err  error
}

func (f fakeLister) AppointmentsStartingOn(ctx context.Context, db *gorm.DB, day time.Time) ([]repo.Appointment, error) {
	return f.rows, f.err
}

type fakeWhatsApp struct {
	calls []string
	fail  bool
}

func (f *fakeWhatsApp) SendReminder(phone, patientName, dateStr, timeStr string) error {
	f.calls = append(f.calls, phone)
	if f.fail {
		return errors.New("twilio down")
	}
	return nil
}

type fakeMailer struct {
	calls []string
}

func (f *fakeMailer) SendAppointmentReminder(to, patientName, dateStr, timeStr string) error {
	f.calls = append(f.calls, to)
	return nil
}

func strPtr(s string) *string { return &s }

func appointmentAt(id int, hour int, phone, email *string) repo.Appointment {
	start := time.Date(2023, 3, 18, hour, 0, 0, 0, time.UTC)
	return repo.Appointment{
		ID:               id,
		PractitionerID:   "ah",
		StartAt:          start,
		EndAt:            start.Add(30 * time.Minute),
		DurationMin:      30,
		PatientFirstName: strPtr("Marie"),
		PatientLastName:  strPtr("Dupont"),
		PatientPhone:     phone,
		PatientEmail:     email,
	}
}

func TestSend_WhatsAppPreferred(t *testing.T) {
	wa := &fakeWhatsApp{}
	mail := &fakeMailer{}
	lister := fakeLister{rows: []repo.Appointment{
		appointmentAt(1, 9, strPtr("+32470111222"), strPtr("marie@example.be")),
	}}
	day := time.Date(2023, 3, 18, 0, 0, 0, 0, time.UTC)

	sent, skipped := SendWithLister(context.Background(), nil, day, wa, mail, lister)
	if sent != 1 || skipped != 0 {
		t.Errorf("sent=%d skipped=%d", sent, skipped)
	}
	if len(wa.calls) != 1 || wa.calls[0] != "+32470111222" {
		t.Errorf("whatsapp calls: %v", wa.calls)
	}
	if len(mail.calls) != 0 {
		t.Error("email must not fire when WhatsApp succeeded")
	}
}

func TestSend_EmailFallback(t *testing.T) {
	mail := &fakeMailer{}
	lister := fakeLister{rows: []repo.Appointment{
		appointmentAt(1, 9, nil, strPtr("marie@example.be")),
	}}
	day := time.Date(2023, 3, 18, 0, 0, 0, 0, time.UTC)

	sent, skipped := SendWithLister(context.Background(), nil, day, nil, mail, lister)
	if sent != 1 || skipped != 0 {
		t.Errorf("sent=%d skipped=%d", sent, skipped)
	}
	if len(mail.calls) != 1 || mail.calls[0] != "marie@example.be" {
		t.Errorf("email calls: %v", mail.calls)
	}
}

func TestSend_FailureDoesNotStopRun(t *testing.T) {
	wa := &fakeWhatsApp{fail: true}
	lister := fakeLister{rows: []repo.Appointment{
		appointmentAt(1, 9, strPtr("+32470111222"), nil),
		appointmentAt(2, 10, nil, nil),
	}}
	day := time.Date(2023, 3, 18, 0, 0, 0, 0, time.UTC)

	sent, skipped := SendWithLister(context.Background(), nil, day, wa, nil, lister)
	if sent != 0 || skipped != 2 {
		t.Errorf("sent=%d skipped=%d", sent, skipped)
	}
	if len(wa.calls) != 1 {
		t.Errorf("whatsapp calls: %v", wa.calls)
	}
}

func TestSend_NoContactSkips(t *testing.T) {
	lister := fakeLister{rows: []repo.Appointment{appointmentAt(1, 9, nil, nil)}}
	day := time.Date(2023, 3, 18, 0, 0, 0, 0, time.UTC)
	sent, skipped := SendWithLister(context.Background(), nil, day, nil, nil, lister)
	if sent != 0 || skipped != 1 {
		t.Errorf("sent=%d skipped=%d", sent, skipped)
	}
}
