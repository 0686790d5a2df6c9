// Package reminder implements the next-day appointment reminder run:
// WhatsApp when the patient has a phone, email as fallback, logged skip
// otherwise.
package reminder

import (
	"context"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dentadmin/backend/internal/agenda"
	"github.com/dentadmin/backend/internal/repo"
	"github.com/dentadmin/backend/internal/whatsapp"
)

// WhatsAppSender sends a reminder to a phone number.
type WhatsAppSender interface {
	SendReminder(phone, patientName, dateStr, timeStr string) error
}

// EmailSender mails a reminder when no phone is available.
type EmailSender interface {
	SendAppointmentReminder(to, patientName, dateStr, timeStr string) error
}

// Lister returns the appointments of a day. Tests supply a fake; production
// passes nil to read from the repo.
type Lister interface {
	AppointmentsStartingOn(ctx context.Context, db *gorm.DB, day time.Time) ([]repo.Appointment, error)
}

type repoLister struct{}

func (repoLister) AppointmentsStartingOn(ctx context.Context, db *gorm.DB, day time.Time) ([]repo.Appointment, error) {
	return repo.AppointmentsStartingOn(ctx, db, day)
}

// Send loads the day's non-cancelled appointments and sends one reminder
// per row. Per-recipient failures are logged and do not stop the run.
func Send(ctx context.Context, db *gorm.DB, day time.Time, wa WhatsAppSender, mail EmailSender) (sent, skipped int) {
	return SendWithLister(ctx, db, day, wa, mail, nil)
}

// SendWithLister is Send with an injectable lister for tests.
func SendWithLister(ctx context.Context, db *gorm.DB, day time.Time, wa WhatsAppSender, mail EmailSender, lister Lister) (sent, skipped int) {
	if lister == nil {
		if db == nil {
			log.Printf("[reminder] no database, skipping")
			return 0, 0
		}
		lister = repoLister{}
	}
	rows, err := lister.AppointmentsStartingOn(ctx, db, day)
	if err != nil {
		log.Printf("[reminder] list appointments: %v", err)
		return 0, 0
	}
	dateStr := day.Format("02/01/2006")
	for _, r := range rows {
		name := patientName(r)
		timeStr := r.StartAt.Format("15:04")
		switch {
		case wa != nil && r.PatientPhone != nil && *r.PatientPhone != "":
			if err := wa.SendReminder(*r.PatientPhone, name, dateStr, timeStr); err != nil {
				log.Printf("[reminder] whatsapp failed appointment=%d phone=%s: %v", r.ID, *r.PatientPhone, err)
				skipped++
				continue
			}
			sent++
			log.Printf("[reminder] whatsapp sent appointment=%d", r.ID)
		case mail != nil && r.PatientEmail != nil && *r.PatientEmail != "":
			if err := mail.SendAppointmentReminder(*r.PatientEmail, name, dateStr, timeStr); err != nil {
				log.Printf("[reminder] email failed appointment=%d to=%s: %v", r.ID, *r.PatientEmail, err)
				skipped++
				continue
			}
			sent++
			log.Printf("[reminder] email sent appointment=%d", r.ID)
		default:
			log.Printf("[reminder] no contact for appointment=%d (%s), skipped", r.ID, name)
			skipped++
		}
	}
	return sent, skipped
}

func patientName(r repo.Appointment) string {
	first, last := "", ""
	if r.PatientFirstName != nil {
		first = *r.PatientFirstName
	}
	if r.PatientLastName != nil {
		last = *r.PatientLastName
	}
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return agenda.UnknownPatient
	}
	return name
}

// DefaultWhatsAppSender returns a whatsapp.Client from the given config, or nil if not configured.
func DefaultWhatsAppSender(accountSid, authToken, from string) WhatsAppSender {
	if accountSid == "" || authToken == "" || from == "" {
		return nil
	}
	return whatsapp.NewClient(whatsapp.Config{
		AccountSid: accountSid,
		AuthToken:  authToken,
		From:       from,
	})
}
