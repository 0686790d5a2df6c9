//go:build integration

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/dentadmin/backend/internal/testutil"
)

func TestIntegration_AppointmentLifecycle(t *testing.T) {
	ctx := context.Background()
	db, url := testutil.OpenDB(ctx)
	if db == nil {
		if url == "" {
			t.Skip("DATABASE_URL not set")
		}
		t.Fatalf("open %s failed", url)
	}
	if err := testutil.MustMigrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pracs, err := ListPractitioners(ctx, db)
	if err != nil {
		t.Fatalf("ListPractitioners: %v", err)
	}
	if len(pracs) == 0 {
		t.Skip("seed has no practitioners")
	}
	prac := pracs[0]

	patientID, err := CreatePatient(ctx, db, &Patient{FirstName: "Test", LastName: "Intégration"})
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	defer func() { _ = SoftDeletePatient(ctx, db, patientID) }()

	day := time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC)
	start := day.Add(9 * time.Hour)
	id, err := CreateAppointment(ctx, db, &Appointment{
		PatientID:      &patientID,
		PractitionerID: prac.ID,
		StartAt:        start,
		EndAt:          start.Add(30 * time.Minute),
		DurationMin:    30,
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if id == 0 {
		t.Fatal("no id returned")
	}
	defer func() { _ = SoftDeleteAppointment(ctx, db, id) }()

	// Create-then-fetch of the same day must include the new row.
	list, err := ListAppointments(ctx, db, AppointmentQuery{Day: day})
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	found := false
	for _, a := range list {
		if a.ID == id {
			found = true
			if a.PatientLastName == nil || *a.PatientLastName != "Intégration" {
				t.Errorf("patient join missing: %+v", a)
			}
		}
	}
	if !found {
		t.Fatal("created appointment not visible in its day")
	}

	// Full-row update moves the slot.
	apt, err := AppointmentByID(ctx, db, id)
	if err != nil {
		t.Fatalf("AppointmentByID: %v", err)
	}
	apt.StartAt = start.Add(2 * time.Hour)
	apt.EndAt = apt.StartAt.Add(30 * time.Minute)
	if err := UpdateAppointment(ctx, db, apt); err != nil {
		t.Fatalf("UpdateAppointment: %v", err)
	}
	apt, err = AppointmentByID(ctx, db, id)
	if err != nil {
		t.Fatalf("AppointmentByID after update: %v", err)
	}
	if apt.StartAt.UTC().Hour() != 11 {
		t.Errorf("start not moved: %v", apt.StartAt)
	}

	// Soft delete hides the row from listings.
	if err := SoftDeleteAppointment(ctx, db, id); err != nil {
		t.Fatalf("SoftDeleteAppointment: %v", err)
	}
	if _, err := AppointmentByID(ctx, db, id); err == nil {
		t.Error("soft-deleted row still readable")
	}
}

func TestIntegration_ListAppointmentsFilters(t *testing.T) {
	ctx := context.Background()
	db, _ := testutil.OpenDB(ctx)
	if db == nil {
		t.Skip("DATABASE_URL not set")
	}
	pracs, err := ListPractitioners(ctx, db)
	if err != nil || len(pracs) < 2 {
		t.Skip("need at least two seeded practitioners")
	}
	day := time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC)

	list, err := ListAppointments(ctx, db, AppointmentQuery{
		Day:             day,
		PractitionerIDs: []string{pracs[0].ID},
	})
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	for _, a := range list {
		if a.PractitionerID != pracs[0].ID {
			t.Errorf("filter leaked practitioner %s", a.PractitionerID)
		}
	}

	cancelled, err := ListAppointments(ctx, db, AppointmentQuery{Day: day, Status: "cancelled"})
	if err != nil {
		t.Fatalf("ListAppointments cancelled: %v", err)
	}
	for _, a := range cancelled {
		if !a.Cancelled {
			t.Errorf("status filter leaked non-cancelled row %d", a.ID)
		}
	}
}
