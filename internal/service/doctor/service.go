package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
	apperrors "github.com/medease/medease-api/pkg/errors"
)

const (
	cacheTTL        = 5 * time.Minute
	cacheSweepEvery = 10 * time.Minute
)

// Service exposes the doctor directory. Single-doctor reads go through a
// short-lived in-process cache since profiles change far less often than
// they are viewed.
type Service struct {
	repo  repository.DoctorRepository
	cache *gocache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheSweepEvery),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		UserID:              req.UserID,
		Specialty:           req.Specialty,
		Qualifications:      req.Qualifications,
		ExperienceYears:     req.ExperienceYears,
		HospitalAffiliation: req.HospitalAffiliation,
		LicenseNumber:       req.LicenseNumber,
		ConsultationFee:     req.ConsultationFee,
		Bio:                 req.Bio,
		IsAvailable:         true,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Doctor profile already exists for this user")
		}
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cached.(*model.Doctor), nil
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Doctor not found")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	s.cache.Set(id.String(), doctor, gocache.DefaultExpiration)
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Doctor not found")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}
	if req.Qualifications != nil {
		doctor.Qualifications = *req.Qualifications
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.HospitalAffiliation != nil {
		doctor.HospitalAffiliation = *req.HospitalAffiliation
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = *req.IsAvailable
	}
	if req.Rating != nil {
		doctor.Rating = *req.Rating
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	s.cache.Delete(id.String())
	return doctor, nil
}

// List returns one page of the directory.
func (s *Service) List(ctx context.Context, page *model.Pagination) (*model.Page[*model.Doctor], error) {
	doctors, total, err := s.repo.ListPaged(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return &model.Page[*model.Doctor]{
		Content:       doctors,
		Number:        page.Page,
		Size:          page.Limit(),
		TotalElements: total,
	}, nil
}

// ListAll returns the whole directory without paging.
func (s *Service) ListAll(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) ListBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error) {
	doctors, err := s.repo.ListBySpecialty(ctx, specialty)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors by specialty: %w", err)
	}
	return doctors, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]*model.Doctor, error) {
	doctors, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	return doctors, nil
}
