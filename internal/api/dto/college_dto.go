package dto

import "github.com/placement-hub/portal/internal/domain"

// CollegeResponse is the JSON form of a colleges row.
type CollegeResponse struct {
	ID                   string  `json:"id"`
	CollegeName          string  `json:"college_name"`
	CollegeID            string  `json:"college_id"`
	PlacementOfficerName string  `json:"placement_officer_name"`
	OfficerEmail         string  `json:"officer_email"`
	OfficerMobile        string  `json:"officer_mobile"`
	WebsiteURL           *string `json:"website_url,omitempty"`
	EstablishedYear      *int    `json:"established_year,omitempty"`
	Location             *string `json:"location,omitempty"`
}

// NewCollegeResponse converts a colleges row.
func NewCollegeResponse(c *domain.College) CollegeResponse {
	return CollegeResponse{
		ID:                   c.ID,
		CollegeName:          c.CollegeName,
		CollegeID:            c.CollegeID,
		PlacementOfficerName: c.PlacementOfficerName,
		OfficerEmail:         c.OfficerEmail,
		OfficerMobile:        c.OfficerMobile,
		WebsiteURL:           c.WebsiteURL,
		EstablishedYear:      c.EstablishedYear,
		Location:             c.Location,
	}
}

// NewStudentListings converts search hits.
func NewStudentListings(listings []domain.StudentListing) []StudentResponse {
	out := make([]StudentResponse, 0, len(listings))
	for i := range listings {
		resp := NewStudentResponse(&listings[i].Student)
		resp.Email = listings[i].Email
		out = append(out, *resp)
	}
	return out
}
