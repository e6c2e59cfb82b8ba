package dto

import (
	"strings"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/service"
)

// StudentProfileRequest payload for PUT /student/profile. Skills is a comma separated list.
type StudentProfileRequest struct {
	FullName        string   `json:"full_name"`
	Mobile          string   `json:"mobile"`
	CollegeName     string   `json:"college_name"`
	Course          *string  `json:"course"`
	YearOfStudy     *int     `json:"year_of_study"`
	CGPA            *float64 `json:"cgpa"`
	Skills          string   `json:"skills"`
	LinkedInURL     *string  `json:"linkedin_url"`
	GitHubURL       *string  `json:"github_url"`
	PortfolioURL    *string  `json:"portfolio_url"`
	PlacementStatus *string  `json:"placement_status"`
	ResumeURL       *string  `json:"resume_url"`
}

// ToInput maps the payload onto the service input.
func (r StudentProfileRequest) ToInput() service.StudentProfileInput {
	return service.StudentProfileInput{
		FullName:        r.FullName,
		Mobile:          r.Mobile,
		CollegeName:     r.CollegeName,
		Course:          r.Course,
		YearOfStudy:     r.YearOfStudy,
		CGPA:            r.CGPA,
		Skills:          r.Skills,
		LinkedInURL:     r.LinkedInURL,
		GitHubURL:       r.GitHubURL,
		PortfolioURL:    r.PortfolioURL,
		PlacementStatus: r.PlacementStatus,
		ResumeURL:       r.ResumeURL,
	}
}

// StudentResponse is the JSON form of a students row.
type StudentResponse struct {
	ID              string   `json:"id"`
	Email           string   `json:"email,omitempty"`
	FullName        string   `json:"full_name"`
	Mobile          string   `json:"mobile"`
	CollegeName     string   `json:"college_name"`
	Course          *string  `json:"course,omitempty"`
	YearOfStudy     *int     `json:"year_of_study,omitempty"`
	CGPA            *float64 `json:"cgpa,omitempty"`
	Skills          []string `json:"skills"`
	SkillsText      string   `json:"skills_text"`
	LinkedInURL     *string  `json:"linkedin_url,omitempty"`
	GitHubURL       *string  `json:"github_url,omitempty"`
	PortfolioURL    *string  `json:"portfolio_url,omitempty"`
	PlacementStatus *string  `json:"placement_status,omitempty"`
	ResumeURL       *string  `json:"resume_url,omitempty"`
}

// NewStudentResponse converts a students row.
func NewStudentResponse(s *domain.Student) *StudentResponse {
	if s == nil {
		return nil
	}
	skills := s.Skills
	if skills == nil {
		skills = []string{}
	}
	return &StudentResponse{
		ID:              s.ID,
		FullName:        s.FullName,
		Mobile:          s.Mobile,
		CollegeName:     s.CollegeName,
		Course:          s.Course,
		YearOfStudy:     s.YearOfStudy,
		CGPA:            s.CGPA,
		Skills:          skills,
		SkillsText:      strings.Join(skills, ", "),
		LinkedInURL:     s.LinkedInURL,
		GitHubURL:       s.GitHubURL,
		PortfolioURL:    s.PortfolioURL,
		PlacementStatus: s.PlacementStatus,
		ResumeURL:       s.ResumeURL,
	}
}

// SkillGapRequest payload for POST /student/skill-gap. Blank skills use the profile's.
type SkillGapRequest struct {
	Skills string `json:"skills" form:"skills"`
}

// StudentDashboardResponse is the student landing view.
type StudentDashboardResponse struct {
	User            UserResponse     `json:"user"`
	Profile         *StudentResponse `json:"profile,omitempty"`
	ProfileComplete bool             `json:"profile_complete"`
	MatchedSkills   int              `json:"matched_skills"`
}

// NewStudentDashboardResponse converts the service summary.
func NewStudentDashboardResponse(d service.StudentDashboard) StudentDashboardResponse {
	return StudentDashboardResponse{
		User:            UserResponse{ID: d.User.ID, Email: d.User.Email},
		Profile:         NewStudentResponse(d.Profile),
		ProfileComplete: d.ProfileComplete,
		MatchedSkills:   d.MatchedSkills,
	}
}
