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

// StudentService serves the views of a signed-in student.
type StudentService struct {
	students repository.StudentRepository
}

// NewStudentService constructs the service.
func NewStudentService(students repository.StudentRepository) *StudentService {
	return &StudentService{students: students}
}

// StudentProfileInput is the editable part of a student row. Skills is a comma separated list.
type StudentProfileInput struct {
	FullName        string
	Mobile          string
	CollegeName     string
	Course          *string
	YearOfStudy     *int
	CGPA            *float64
	Skills          string
	LinkedInURL     *string
	GitHubURL       *string
	PortfolioURL    *string
	PlacementStatus *string
	ResumeURL       *string
}

// Profile returns the student's own row.
func (s *StudentService) Profile(ctx context.Context, userID string) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("student profile", map[string]any{"id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return student, nil
}

// SaveProfile validates and upserts the student's own row.
func (s *StudentService) SaveProfile(ctx context.Context, userID string, in StudentProfileInput) (*domain.Student, error) {
	details := map[string]any{}
	if strings.TrimSpace(in.FullName) == "" {
		details["full_name"] = "required"
	}
	if strings.TrimSpace(in.Mobile) == "" {
		details["mobile"] = "required"
	}
	if strings.TrimSpace(in.CollegeName) == "" {
		details["college_name"] = "required"
	}
	if in.YearOfStudy != nil && (*in.YearOfStudy < 1 || *in.YearOfStudy > 6) {
		details["year_of_study"] = "must be between 1 and 6"
	}
	if in.CGPA != nil && (*in.CGPA < 0 || *in.CGPA > 10) {
		details["cgpa"] = "must be between 0 and 10"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid student profile", details)
	}

	student := &domain.Student{
		ID:              userID,
		FullName:        strings.TrimSpace(in.FullName),
		Mobile:          strings.TrimSpace(in.Mobile),
		CollegeName:     strings.TrimSpace(in.CollegeName),
		Course:          trimmed(in.Course),
		YearOfStudy:     in.YearOfStudy,
		CGPA:            in.CGPA,
		Skills:          ParseSkills(in.Skills),
		LinkedInURL:     trimmed(in.LinkedInURL),
		GitHubURL:       trimmed(in.GitHubURL),
		PortfolioURL:    trimmed(in.PortfolioURL),
		PlacementStatus: trimmed(in.PlacementStatus),
		ResumeURL:       trimmed(in.ResumeURL),
	}
	if student.Skills == nil {
		student.Skills = []string{}
	}
	if err := s.students.Upsert(ctx, student); err != nil {
		return nil, apperrors.MapError(err)
	}
	return student, nil
}

// Resume builds the resume preview. A missing row is reported as an incomplete profile.
func (s *StudentService) Resume(ctx context.Context, user domain.UserIdentity) (ResumePreview, error) {
	student, err := s.students.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ResumePreview{}, nil
		}
		return ResumePreview{}, apperrors.MapError(err)
	}
	return BuildResume(user, student), nil
}

// SkillGap compares raw (a comma separated list) with the in-demand skills. When raw is
// blank the skills stored on the profile are used.
func (s *StudentService) SkillGap(ctx context.Context, userID, raw string) (SkillGapReport, error) {
	skills := ParseSkills(raw)
	if len(skills) == 0 {
		student, err := s.students.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return SkillGapReport{}, apperrors.MapError(err)
		}
		if student != nil {
			skills = student.Skills
		}
	}
	if len(skills) == 0 {
		return SkillGapReport{}, apperrors.NewValidationError("no skills to analyze; add skills to your profile or enter them", nil)
	}
	return AnalyzeSkills(skills), nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// StudentDashboard summarizes the student's standing on the landing view.
type StudentDashboard struct {
	User            domain.UserIdentity `json:"user"`
	Profile         *domain.Student     `json:"profile,omitempty"`
	ProfileComplete bool                `json:"profile_complete"`
	MatchedSkills   int                 `json:"matched_skills"`
}

// Dashboard loads the summary. A student who never saved a profile gets an empty one.
func (s *StudentService) Dashboard(ctx context.Context, user domain.UserIdentity) (StudentDashboard, error) {
	dash := StudentDashboard{User: user}
	student, err := s.students.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dash, nil
		}
		return dash, apperrors.MapError(err)
	}
	dash.Profile = student
	dash.ProfileComplete = ProfileComplete(student)
	dash.MatchedSkills = len(AnalyzeSkills(student.Skills).Matched)
	return dash, nil
}
