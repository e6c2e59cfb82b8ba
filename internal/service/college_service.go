package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/repository"
	apperrors "github.com/placement-hub/portal/pkg/util"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// CollegeService serves the views of a signed-in college.
type CollegeService struct {
	colleges repository.CollegeRepository
	students repository.StudentRepository
}

// NewCollegeService constructs the service.
func NewCollegeService(colleges repository.CollegeRepository, students repository.StudentRepository) *CollegeService {
	return &CollegeService{colleges: colleges, students: students}
}

// Profile returns the college's own row.
func (s *CollegeService) Profile(ctx context.Context, userID string) (*domain.College, error) {
	college, err := s.colleges.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("college profile", map[string]any{"id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return college, nil
}

// SearchStudents lists the students registered under the caller's college whose name,
// email or skills contain term. An empty term lists them all.
func (s *CollegeService) SearchStudents(ctx context.Context, userID, term string, limit, offset int) ([]domain.StudentListing, error) {
	college, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	filter := repository.StudentFilter{CollegeName: &college.CollegeName, Limit: limit, Offset: offset}
	if term = strings.TrimSpace(term); term != "" {
		filter.SearchTerm = &term
	}

	listings, err := s.students.Search(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return listings, nil
}
