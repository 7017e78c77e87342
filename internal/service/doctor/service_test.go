package doctor

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

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
	gets    int
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
	r.gets++
	d, ok := r.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	if _, ok := r.doctors[d.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *d
	r.doctors[d.ID] = &copied
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDoctorRepo) ListPaged(ctx context.Context, limit, offset int) ([]*model.Doctor, int64, error) {
	all, _ := r.List(ctx)
	return all, int64(len(all)), nil
}

func (r *fakeDoctorRepo) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	all, _ := r.List(ctx)
	var out []*model.Doctor
	for _, d := range all {
		if d.IsAvailable {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDoctorRepo) ListBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error) {
	all, _ := r.List(ctx)
	var out []*model.Doctor
	for _, d := range all {
		if d.Specialty == specialty {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDoctorRepo) Search(_ context.Context, _ string) ([]*model.Doctor, error) {
	return nil, nil
}

func seedDoctor(t *testing.T, svc *Service) *model.Doctor {
	t.Helper()
	d, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
		UserID:    uuid.New(),
		Specialty: "Cardiology",
	})
	require.NoError(t, err)
	return d
}

func TestGetUsesCache(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo)
	d := seedDoctor(t, svc)

	ctx := context.Background()
	_, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, d.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets, "second read must come from the cache")
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo)
	d := seedDoctor(t, svc)

	ctx := context.Background()
	_, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)

	fee := "250"
	_, err = svc.Update(ctx, d.ID, &model.UpdateDoctorRequest{ConsultationFee: &fee})
	require.NoError(t, err)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "250", got.ConsultationFee, "stale cache entry must not survive an update")
}

func TestUpdatePartialFields(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo)
	d := seedDoctor(t, svc)
	ctx := context.Background()

	unavailable := false
	got, err := svc.Update(ctx, d.ID, &model.UpdateDoctorRequest{IsAvailable: &unavailable})
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, "Cardiology", got.Specialty, "untouched fields keep their values")
}

func TestGetUnknownDoctor(t *testing.T) {
	svc := NewService(newFakeDoctorRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCreateDefaultsToAvailable(t *testing.T) {
	svc := NewService(newFakeDoctorRepo())
	d := seedDoctor(t, svc)
	assert.True(t, d.IsAvailable)
}
