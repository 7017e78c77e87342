package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
	apperrors "github.com/medease/medease-api/pkg/errors"
)

type fakePatientRepo struct {
	byUser map[uuid.UUID]*model.Patient
	byID   map[uuid.UUID]*model.Patient
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

type fakeMetricsRepo struct {
	byPatient map[uuid.UUID]*model.HealthMetrics
}

func (r *fakeMetricsRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*model.HealthMetrics, error) {
	m, ok := r.byPatient[patientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (r *fakeMetricsRepo) Upsert(_ context.Context, m *model.HealthMetrics) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.byPatient[m.PatientID] = m
	return nil
}

type fakeConditionRepo struct {
	conditions map[uuid.UUID]*model.MedicalCondition
}

func (r *fakeConditionRepo) Get(_ context.Context, id uuid.UUID) (*model.MedicalCondition, error) {
	c, ok := r.conditions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeConditionRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.MedicalCondition, error) {
	var out []*model.MedicalCondition
	for _, c := range r.conditions {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConditionRepo) ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalCondition, error) {
	all, _ := r.ListByPatient(ctx, patientID)
	var out []*model.MedicalCondition
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConditionRepo) Create(_ context.Context, c *model.MedicalCondition) error {
	c.ID = uuid.New()
	r.conditions[c.ID] = c
	return nil
}

func (r *fakeConditionRepo) Update(_ context.Context, c *model.MedicalCondition) error {
	if _, ok := r.conditions[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.conditions[c.ID] = c
	return nil
}

func (r *fakeConditionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.conditions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.conditions, id)
	return nil
}

func f(v float64) *float64 { return &v }

func newFixture() (*Service, uuid.UUID, *model.Patient) {
	userID := uuid.New()
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}, UserID: userID}

	patients := &fakePatientRepo{
		byUser: map[uuid.UUID]*model.Patient{userID: patient},
		byID:   map[uuid.UUID]*model.Patient{patient.ID: patient},
	}
	metrics := &fakeMetricsRepo{byPatient: make(map[uuid.UUID]*model.HealthMetrics)}
	conditions := &fakeConditionRepo{conditions: make(map[uuid.UUID]*model.MedicalCondition)}

	return NewService(patients, metrics, conditions), userID, patient
}

func TestGetProfileByUser(t *testing.T) {
	svc, userID, patient := newFixture()

	got, err := svc.GetProfileByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, got.ID)

	_, err = svc.GetProfileByUser(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestHealthMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("empty snapshot before first update", func(t *testing.T) {
		svc, userID, patient := newFixture()

		m, err := svc.GetHealthMetrics(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, patient.ID, m.PatientID)
		assert.Nil(t, m.Weight)
		assert.Nil(t, m.BMI)
	})

	t.Run("update computes BMI", func(t *testing.T) {
		svc, userID, _ := newFixture()

		m, err := svc.UpdateHealthMetrics(ctx, userID, &model.UpdateHealthMetricsRequest{
			Weight: f(70),
			Height: f(175),
		})
		require.NoError(t, err)
		require.NotNil(t, m.BMI)
		assert.Equal(t, 22.86, *m.BMI)
	})

	t.Run("partial update keeps prior fields and refreshes BMI", func(t *testing.T) {
		svc, userID, _ := newFixture()

		_, err := svc.UpdateHealthMetrics(ctx, userID, &model.UpdateHealthMetricsRequest{
			Weight: f(70),
			Height: f(175),
		})
		require.NoError(t, err)

		m, err := svc.UpdateHealthMetrics(ctx, userID, &model.UpdateHealthMetricsRequest{
			Weight: f(80),
		})
		require.NoError(t, err)
		require.NotNil(t, m.Height)
		assert.Equal(t, 175.0, *m.Height)
		require.NotNil(t, m.BMI)
		assert.Equal(t, 26.12, *m.BMI)
	})

	t.Run("BMI stays nil without height", func(t *testing.T) {
		svc, userID, _ := newFixture()

		m, err := svc.UpdateHealthMetrics(ctx, userID, &model.UpdateHealthMetricsRequest{
			Weight: f(70),
		})
		require.NoError(t, err)
		assert.Nil(t, m.BMI)
	})
}

func TestConditions(t *testing.T) {
	ctx := context.Background()

	t.Run("add and list", func(t *testing.T) {
		svc, userID, _ := newFixture()

		c, err := svc.AddCondition(ctx, userID, &model.CreateConditionRequest{
			Name:     "Hypertension",
			Severity: model.SeverityMedium,
		})
		require.NoError(t, err)
		assert.True(t, c.IsActive, "conditions default to active")

		list, err := svc.ListConditions(ctx, userID, false)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("active filter", func(t *testing.T) {
		svc, userID, _ := newFixture()

		_, err := svc.AddCondition(ctx, userID, &model.CreateConditionRequest{
			Name: "Hypertension", Severity: model.SeverityMedium,
		})
		require.NoError(t, err)

		inactive := false
		_, err = svc.AddCondition(ctx, userID, &model.CreateConditionRequest{
			Name: "Asthma", Severity: model.SeverityLow, IsActive: &inactive,
		})
		require.NoError(t, err)

		active, err := svc.ListConditions(ctx, userID, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Hypertension", active[0].Name)
	})

	t.Run("update", func(t *testing.T) {
		svc, userID, _ := newFixture()

		c, err := svc.AddCondition(ctx, userID, &model.CreateConditionRequest{
			Name: "Hypertension", Severity: model.SeverityMedium,
		})
		require.NoError(t, err)

		high := model.SeverityHigh
		resolved := false
		updated, err := svc.UpdateCondition(ctx, userID, c.ID, &model.UpdateConditionRequest{
			Severity: &high,
			IsActive: &resolved,
		})
		require.NoError(t, err)
		assert.Equal(t, model.SeverityHigh, updated.Severity)
		assert.False(t, updated.IsActive)
	})

	t.Run("delete", func(t *testing.T) {
		svc, userID, _ := newFixture()

		c, err := svc.AddCondition(ctx, userID, &model.CreateConditionRequest{
			Name: "Hypertension", Severity: model.SeverityMedium,
		})
		require.NoError(t, err)

		err = svc.DeleteCondition(ctx, userID, uuid.New())
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

		require.NoError(t, svc.DeleteCondition(ctx, userID, c.ID))
		list, err := svc.ListConditions(ctx, userID, false)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
