package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medease/medease-api/internal/config"
	"github.com/medease/medease-api/internal/email"
	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
	"github.com/medease/medease-api/internal/service/event"
	apperrors "github.com/medease/medease-api/pkg/errors"
	"github.com/medease/medease-api/pkg/logger"
)

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *apt
	return &copied, nil
}

func (r *fakeAppointmentRepo) CreateIfSlotFree(_ context.Context, apt *model.Appointment, window time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.appointments {
		if existing.DoctorID != apt.DoctorID || existing.Status == model.AppointmentStatusCancelled {
			continue
		}
		diff := existing.AppointmentDate.Sub(apt.AppointmentDate)
		if diff < 0 {
			diff = -diff
		}
		if diff <= window {
			return repository.ErrSlotTaken
		}
	}
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt
	copied := *apt
	r.appointments[apt.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[apt.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *apt
	r.appointments[apt.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.PatientID == patientID {
			copied := *apt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.DoctorID == doctorID {
			copied := *apt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, from time.Time) ([]*model.Appointment, error) {
	all, _ := r.ListByPatient(ctx, patientID)
	var out []*model.Appointment
	for _, apt := range all {
		if !apt.AppointmentDate.Before(from) {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*model.Appointment, error) {
	all, _ := r.ListByDoctor(ctx, doctorID)
	var out []*model.Appointment
	for _, apt := range all {
		if !apt.AppointmentDate.Before(from) {
			out = append(out, apt)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	byUser map[uuid.UUID]*model.Patient
	byID   map[uuid.UUID]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		byUser: make(map[uuid.UUID]*model.Patient),
		byID:   make(map[uuid.UUID]*model.Patient),
	}
}

func (r *fakePatientRepo) add(p *model.Patient) {
	r.byUser[p.UserID] = p
	r.byID[p.ID] = p
}

func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakePatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Patient, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	d.ID = uuid.New()
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context) ([]*model.Doctor, error)          { return nil, nil }
func (r *fakeDoctorRepo) ListAvailable(_ context.Context) ([]*model.Doctor, error) { return nil, nil }
func (r *fakeDoctorRepo) ListPaged(_ context.Context, _, _ int) ([]*model.Doctor, int64, error) {
	return nil, 0, nil
}
func (r *fakeDoctorRepo) ListBySpecialty(_ context.Context, _ string) ([]*model.Doctor, error) {
	return nil, nil
}
func (r *fakeDoctorRepo) Search(_ context.Context, _ string) ([]*model.Doctor, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New()
	r.events = append(r.events, e)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

type fixture struct {
	svc     *Service
	apts    *fakeAppointmentRepo
	outbox  *fakeOutboxRepo
	userID  uuid.UUID
	patient *model.Patient
	doctor  *model.Doctor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	apts := newFakeAppointmentRepo()
	patients := newFakePatientRepo()
	doctors := newFakeDoctorRepo()
	outbox := &fakeOutboxRepo{}

	userID := uuid.New()
	patient := &model.Patient{
		Base:   model.Base{ID: uuid.New()},
		UserID: userID,
	}
	patients.add(patient)

	doctor := &model.Doctor{Specialty: "Cardiology", IsAvailable: true}
	require.NoError(t, doctors.Create(context.Background(), doctor))

	svc := NewService(
		apts, patients, doctors,
		event.NewService(outbox),
		email.NewService(config.SMTPConfig{}),
		logger.New(nil),
		nil,
	)

	return &fixture{
		svc:     svc,
		apts:    apts,
		outbox:  outbox,
		userID:  userID,
		patient: patient,
		doctor:  doctor,
	}
}

func bookReq(doctorID uuid.UUID, date, timeOfDay string) *model.BookAppointmentRequest {
	return &model.BookAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
		Reason:          "checkup",
	}
}

func TestBook(t *testing.T) {
	ctx := context.Background()

	t.Run("books a free slot", func(t *testing.T) {
		fx := newFixture(t)

		apt, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
		assert.Equal(t, model.AppointmentTypeConsultation, apt.Type, "type defaults to consultation")
		assert.Equal(t, fx.patient.ID, apt.PatientID)
		assert.Equal(t, time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC), apt.AppointmentDate)
	})

	t.Run("accepts time with seconds", func(t *testing.T) {
		fx := newFixture(t)

		apt, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:30:00"))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 1, 10, 30, 0, 0, time.UTC), apt.AppointmentDate)
	})

	t.Run("keeps an explicit type", func(t *testing.T) {
		fx := newFixture(t)

		req := bookReq(fx.doctor.ID, "2026-10-01", "10:00")
		req.Type = string(model.AppointmentTypeFollowUp)
		apt, err := fx.svc.Book(ctx, fx.userID, req)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentTypeFollowUp, apt.Type)
	})

	t.Run("accepts a lowercase type", func(t *testing.T) {
		fx := newFixture(t)

		req := bookReq(fx.doctor.ID, "2026-10-01", "10:00")
		req.Type = "follow_up"
		apt, err := fx.svc.Book(ctx, fx.userID, req)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentTypeFollowUp, apt.Type)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		fx := newFixture(t)

		req := bookReq(fx.doctor.ID, "2026-10-01", "10:00")
		req.Type = "HOUSE_CALL"
		_, err := fx.svc.Book(ctx, fx.userID, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects a slot inside the conflict window", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)

		_, err = fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:20"))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("rejects a slot exactly on the window boundary", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)

		_, err = fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:30"))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("allows a slot beyond the conflict window", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)

		_, err = fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:31"))
		assert.NoError(t, err)
	})

	t.Run("one winner when two bookings race for the same slot", func(t *testing.T) {
		fx := newFixture(t)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
			}(i)
		}
		wg.Wait()

		var failures int
		for _, err := range errs {
			if err != nil {
				assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
				failures++
			}
		}
		assert.Equal(t, 1, failures, "exactly one of the two bookings must lose")
	})

	t.Run("rejects an unavailable doctor", func(t *testing.T) {
		fx := newFixture(t)
		fx.doctor.IsAvailable = false

		_, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects an unknown doctor", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Book(ctx, fx.userID, bookReq(uuid.New(), "2026-10-01", "10:00"))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects a caller without a patient profile", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Book(ctx, uuid.New(), bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects garbage date input", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "October 1st", "10:00"))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("writes a booked event to the outbox", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)
		require.Len(t, fx.outbox.events, 1)
		assert.Equal(t, model.EventAppointmentBooked, fx.outbox.events[0].EventType)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled appointment frees the slot", func(t *testing.T) {
		fx := newFixture(t)

		apt, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)

		cancelled, err := fx.svc.Cancel(ctx, apt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

		_, err = fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		assert.NoError(t, err, "same slot is bookable again after cancellation")
	})

	t.Run("cancelled appointment stays retrievable", func(t *testing.T) {
		fx := newFixture(t)

		apt, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)
		_, err = fx.svc.Cancel(ctx, apt.ID)
		require.NoError(t, err)

		got, err := fx.svc.Get(ctx, apt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCancelled, got.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Cancel(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites any status with any valid status", func(t *testing.T) {
		fx := newFixture(t)

		apt, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)

		updated, err := fx.svc.UpdateStatus(ctx, apt.ID, string(model.AppointmentStatusCompleted))
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

		// Transitions are unrestricted, completed can go back to scheduled.
		updated, err = fx.svc.UpdateStatus(ctx, apt.ID, string(model.AppointmentStatusScheduled))
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusScheduled, updated.Status)
	})

	t.Run("accepts a lowercase status", func(t *testing.T) {
		fx := newFixture(t)

		apt, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)

		updated, err := fx.svc.UpdateStatus(ctx, apt.ID, "completed")
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		fx := newFixture(t)

		apt, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
		require.NoError(t, err)

		_, err = fx.svc.UpdateStatus(ctx, apt.ID, "DONE")
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestAddNotes(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	apt, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2026-10-01", "10:00"))
	require.NoError(t, err)

	updated, err := fx.svc.AddNotes(ctx, apt.ID, "BP stable, follow up in 3 months")
	require.NoError(t, err)
	assert.Equal(t, "BP stable, follow up in 3 months", updated.Notes)

	updated, err = fx.svc.AddNotes(ctx, apt.ID, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Notes, "notes are overwritten, not appended")
}

func TestListForPatient(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	past := &model.Appointment{
		PatientID:       fx.patient.ID,
		DoctorID:        fx.doctor.ID,
		AppointmentDate: time.Now().Add(-24 * time.Hour),
		Status:          model.AppointmentStatusCompleted,
	}
	require.NoError(t, fx.apts.CreateIfSlotFree(ctx, past, ConflictWindow))

	_, err := fx.svc.Book(ctx, fx.userID, bookReq(fx.doctor.ID, "2099-01-01", "09:00"))
	require.NoError(t, err)

	all, err := fx.svc.ListForPatient(ctx, fx.userID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	upcoming, err := fx.svc.ListForPatient(ctx, fx.userID, true)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, 2099, upcoming[0].AppointmentDate.Year())
}

func TestParseAppointmentDateTime(t *testing.T) {
	got, err := parseAppointmentDateTime("2026-10-01", "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 14, 30, 0, 0, time.UTC), got)

	got, err = parseAppointmentDateTime("2026-10-01", "14:30:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 14, 30, 45, 0, time.UTC), got)

	_, err = parseAppointmentDateTime("01/10/2026", "14:30")
	assert.Error(t, err)
}
