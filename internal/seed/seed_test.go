package seed

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
	"github.com/medease/medease-api/pkg/logger"
	"github.com/medease/medease-api/pkg/security"
)

type fakeStore struct {
	users      map[string]*model.User
	patients   []*model.Patient
	doctors    []*model.Doctor
	metrics    map[uuid.UUID]*model.HealthMetrics
	conditions []*model.MedicalCondition
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[string]*model.User),
		metrics: make(map[uuid.UUID]*model.HealthMetrics),
	}
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := s.users[email]
	return ok, nil
}

func (s *fakeStore) RegisterPatient(_ context.Context, user *model.User, patient *model.Patient) error {
	if _, ok := s.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = uuid.New()
	patient.ID = uuid.New()
	patient.UserID = user.ID
	s.users[user.Email] = user
	s.patients = append(s.patients, patient)
	return nil
}

func (s *fakeStore) RegisterDoctor(_ context.Context, user *model.User, doctor *model.Doctor) error {
	if _, ok := s.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = uuid.New()
	doctor.ID = uuid.New()
	doctor.UserID = user.ID
	s.users[user.Email] = user
	s.doctors = append(s.doctors, doctor)
	return nil
}

func (s *fakeStore) GetByPatient(_ context.Context, patientID uuid.UUID) (*model.HealthMetrics, error) {
	m, ok := s.metrics[patientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (s *fakeStore) Upsert(_ context.Context, m *model.HealthMetrics) error {
	s.metrics[m.PatientID] = m
	return nil
}

func (s *fakeStore) GetCondition(_ context.Context, _ uuid.UUID) (*model.MedicalCondition, error) {
	return nil, repository.ErrNotFound
}

func (s *fakeStore) ListByPatient(_ context.Context, _ uuid.UUID) ([]*model.MedicalCondition, error) {
	return s.conditions, nil
}

func (s *fakeStore) ListActiveByPatient(_ context.Context, _ uuid.UUID) ([]*model.MedicalCondition, error) {
	return s.conditions, nil
}

func (s *fakeStore) Create(_ context.Context, c *model.MedicalCondition) error {
	c.ID = uuid.New()
	s.conditions = append(s.conditions, c)
	return nil
}

func (s *fakeStore) Update(_ context.Context, _ *model.MedicalCondition) error { return nil }
func (s *fakeStore) Delete(_ context.Context, _ uuid.UUID) error              { return nil }

// conditionStore adapts fakeStore to the condition repository interface,
// whose Get clashes with the user repository's.
type conditionStore struct{ *fakeStore }

func (s conditionStore) Get(ctx context.Context, id uuid.UUID) (*model.MedicalCondition, error) {
	return s.GetCondition(ctx, id)
}

func newSeeder(store *fakeStore) *Seeder {
	return New(store, store, conditionStore{store}, security.NewBcryptHasher(4), logger.New(nil))
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seeder := newSeeder(store)

	require.NoError(t, seeder.Run(ctx))

	t.Run("demo patient with health record", func(t *testing.T) {
		user, ok := store.users["patient@medease.com"]
		require.True(t, ok)
		assert.Equal(t, "John", user.FirstName)
		assert.Equal(t, "Doe", user.LastName)
		assert.Equal(t, []string{model.RolePatient}, user.Roles)
		assert.NotEqual(t, "password123", user.PasswordHash)

		require.Len(t, store.patients, 1)
		metrics, ok := store.metrics[store.patients[0].ID]
		require.True(t, ok)
		require.NotNil(t, metrics.BMI)
		assert.Equal(t, 22.86, *metrics.BMI)

		require.Len(t, store.conditions, 1)
		assert.Equal(t, "Hypertension", store.conditions[0].Name)
		assert.Equal(t, model.SeverityMedium, store.conditions[0].Severity)
		assert.True(t, store.conditions[0].IsActive)
	})

	t.Run("three doctors", func(t *testing.T) {
		require.Len(t, store.doctors, 3)

		bySpecialty := make(map[string]*model.Doctor)
		for _, d := range store.doctors {
			bySpecialty[d.Specialty] = d
			assert.True(t, d.IsAvailable)
		}

		require.Contains(t, bySpecialty, "Cardiology")
		assert.Equal(t, 4.8, bySpecialty["Cardiology"].Rating)
		assert.Equal(t, "200", bySpecialty["Cardiology"].ConsultationFee)

		require.Contains(t, bySpecialty, "General Practice")
		assert.Equal(t, 4.6, bySpecialty["General Practice"].Rating)

		require.Contains(t, bySpecialty, "Dermatology")
		assert.Equal(t, 4.9, bySpecialty["Dermatology"].Rating)
	})

	t.Run("second run changes nothing", func(t *testing.T) {
		require.NoError(t, seeder.Run(ctx))

		assert.Len(t, store.users, 4)
		assert.Len(t, store.patients, 1)
		assert.Len(t, store.doctors, 3)
		assert.Len(t, store.conditions, 1)
	})
}
