package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/placement-hub/portal/internal/domain"
)

const notSpecified = "Not specified"

// Education is one line of the resume's education section.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Score       string `json:"score"`
}

// ResumePreview is the data a resume is rendered from.
type ResumePreview struct {
	Complete     bool        `json:"complete"`
	Name         string      `json:"name,omitempty"`
	Email        string      `json:"email,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Skills       string      `json:"skills,omitempty"`
	Education    []Education `json:"education,omitempty"`
	LinkedInURL  *string     `json:"linkedin_url,omitempty"`
	GitHubURL    *string     `json:"github_url,omitempty"`
	PortfolioURL *string     `json:"portfolio_url,omitempty"`
}

// ProfileComplete reports whether a resume can be generated for the student.
func ProfileComplete(student *domain.Student) bool {
	return student != nil &&
		strings.TrimSpace(student.FullName) != "" &&
		strings.TrimSpace(student.Mobile) != "" &&
		strings.TrimSpace(student.CollegeName) != ""
}

// BuildResume assembles the preview. An incomplete profile yields Complete=false and no data.
func BuildResume(user domain.UserIdentity, student *domain.Student) ResumePreview {
	if !ProfileComplete(student) {
		return ResumePreview{}
	}

	edu := Education{
		Degree:      notSpecified,
		Institution: student.CollegeName,
		Year:        notSpecified,
		Score:       notSpecified,
	}
	if student.Course != nil && *student.Course != "" {
		edu.Degree = *student.Course
	}
	if student.YearOfStudy != nil && *student.YearOfStudy != 0 {
		edu.Year = fmt.Sprintf("%d Year", *student.YearOfStudy)
	}
	if student.CGPA != nil && *student.CGPA != 0 {
		edu.Score = strconv.FormatFloat(*student.CGPA, 'f', -1, 64) + " CGPA"
	}

	return ResumePreview{
		Complete:     true,
		Name:         student.FullName,
		Email:        user.Email,
		Phone:        student.Mobile,
		Skills:       strings.Join(student.Skills, ", "),
		Education:    []Education{edu},
		LinkedInURL:  student.LinkedInURL,
		GitHubURL:    student.GitHubURL,
		PortfolioURL: student.PortfolioURL,
	}
}
