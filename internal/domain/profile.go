package domain

import "time"

// Profile is the per-user row that records the account category.
type Profile struct {
	ID        string
	Email     string
	UserType  Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Student is the academic profile of a student account.
type Student struct {
	ID              string
	FullName        string
	Mobile          string
	CollegeName     string
	Course          *string
	YearOfStudy     *int
	CGPA            *float64
	Skills          []string
	LinkedInURL     *string
	GitHubURL       *string
	PortfolioURL    *string
	PlacementStatus *string
	ResumeURL       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// College is the institutional profile of a college account.
type College struct {
	ID                   string
	CollegeName          string
	CollegeID            string
	PlacementOfficerName string
	OfficerEmail         string
	OfficerMobile        string
	WebsiteURL           *string
	EstablishedYear      *int
	Location             *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StudentListing is a search hit: the student row plus the profile email.
type StudentListing struct {
	Student
	Email string
}
