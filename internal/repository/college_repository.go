package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/placement-hub/portal/internal/domain"
)

// CollegeRepository handles the colleges table.
type CollegeRepository interface {
	Upsert(ctx context.Context, college *domain.College) error
	GetByID(ctx context.Context, id string) (*domain.College, error)
}

type collegeRepository struct {
	pool *pgxpool.Pool
}

// NewCollegeRepository instantiates the repository.
func NewCollegeRepository(pool *pgxpool.Pool) CollegeRepository {
	return &collegeRepository{pool: pool}
}

func (r *collegeRepository) Upsert(ctx context.Context, college *domain.College) error {
	const query = `
        INSERT INTO colleges (id, college_name, college_id, placement_officer_name, officer_email,
            officer_mobile, website_url, established_year, location)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (id) DO UPDATE SET
            college_name=EXCLUDED.college_name,
            college_id=EXCLUDED.college_id,
            placement_officer_name=EXCLUDED.placement_officer_name,
            officer_email=EXCLUDED.officer_email,
            officer_mobile=EXCLUDED.officer_mobile,
            website_url=EXCLUDED.website_url,
            established_year=EXCLUDED.established_year,
            location=EXCLUDED.location,
            updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		college.ID,
		college.CollegeName,
		college.CollegeID,
		college.PlacementOfficerName,
		college.OfficerEmail,
		college.OfficerMobile,
		college.WebsiteURL,
		college.EstablishedYear,
		college.Location,
	).Scan(&college.CreatedAt, &college.UpdatedAt)
}

func (r *collegeRepository) GetByID(ctx context.Context, id string) (*domain.College, error) {
	const query = `
        SELECT id, college_name, college_id, placement_officer_name, officer_email, officer_mobile,
            website_url, established_year, location, created_at, updated_at
        FROM colleges WHERE id=$1`

	var college domain.College
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&college.ID,
		&college.CollegeName,
		&college.CollegeID,
		&college.PlacementOfficerName,
		&college.OfficerEmail,
		&college.OfficerMobile,
		&college.WebsiteURL,
		&college.EstablishedYear,
		&college.Location,
		&college.CreatedAt,
		&college.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &college, nil
}
