package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/placement-hub/portal/internal/domain"
)

// StudentRepository handles the students table.
type StudentRepository interface {
	Upsert(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	Search(ctx context.Context, filter StudentFilter) ([]domain.StudentListing, error)
}

// StudentFilter defines query params for student search.
type StudentFilter struct {
	CollegeName *string
	// SearchTerm is matched as a case-insensitive substring of name, email or any skill.
	SearchTerm *string
	Limit      int
	Offset     int
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

const studentColumns = `s.id, s.full_name, s.mobile, s.college_name, s.course, s.year_of_study, s.cgpa::float8,
            s.skills, s.linkedin_url, s.github_url, s.portfolio_url, s.placement_status, s.resume_url,
            s.created_at, s.updated_at`

func (r *studentRepository) Upsert(ctx context.Context, student *domain.Student) error {
	const query = `
        INSERT INTO students (id, full_name, mobile, college_name, course, year_of_study, cgpa, skills,
            linkedin_url, github_url, portfolio_url, placement_status, resume_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        ON CONFLICT (id) DO UPDATE SET
            full_name=EXCLUDED.full_name,
            mobile=EXCLUDED.mobile,
            college_name=EXCLUDED.college_name,
            course=EXCLUDED.course,
            year_of_study=EXCLUDED.year_of_study,
            cgpa=EXCLUDED.cgpa,
            skills=EXCLUDED.skills,
            linkedin_url=EXCLUDED.linkedin_url,
            github_url=EXCLUDED.github_url,
            portfolio_url=EXCLUDED.portfolio_url,
            placement_status=EXCLUDED.placement_status,
            resume_url=EXCLUDED.resume_url,
            updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		student.ID,
		student.FullName,
		student.Mobile,
		student.CollegeName,
		student.Course,
		student.YearOfStudy,
		student.CGPA,
		student.Skills,
		student.LinkedInURL,
		student.GitHubURL,
		student.PortfolioURL,
		student.PlacementStatus,
		student.ResumeURL,
	).Scan(&student.CreatedAt, &student.UpdatedAt)
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE s.id=$1`

	student, err := scanStudent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *studentRepository) Search(ctx context.Context, filter StudentFilter) ([]domain.StudentListing, error) {
	query, args := studentSearchQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.StudentListing
	for rows.Next() {
		var listing domain.StudentListing
		student, err := scanStudent(rows, &listing.Email)
		if err != nil {
			return nil, err
		}
		listing.Student = *student
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// studentSearchQuery builds the search statement. The term is matched with strpos, not
// LIKE, so '%', '_' and '\' in it are literal, and each skill is matched on its own.
func studentSearchQuery(filter StudentFilter) (string, []any) {
	base := `SELECT ` + studentColumns + `, p.email
             FROM students s JOIN profiles p ON p.id = s.id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CollegeName != nil && strings.TrimSpace(*filter.CollegeName) != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.CollegeName)))
		clauses = append(clauses, fmt.Sprintf("lower(s.college_name)=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.SearchTerm)))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(strpos(lower(s.full_name), %[1]s) > 0 OR strpos(lower(p.email), %[1]s) > 0"+
				" OR EXISTS (SELECT 1 FROM unnest(s.skills) AS sk WHERE strpos(lower(sk), %[1]s) > 0))",
			placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf("%s WHERE %s ORDER BY s.full_name LIMIT $%d OFFSET $%d",
		base, strings.Join(clauses, " AND "), len(args)-1, len(args))
	return query, args
}

func scanStudent(row pgx.Row, extra ...any) (*domain.Student, error) {
	var student domain.Student
	dest := []any{
		&student.ID,
		&student.FullName,
		&student.Mobile,
		&student.CollegeName,
		&student.Course,
		&student.YearOfStudy,
		&student.CGPA,
		&student.Skills,
		&student.LinkedInURL,
		&student.GitHubURL,
		&student.PortfolioURL,
		&student.PlacementStatus,
		&student.ResumeURL,
		&student.CreatedAt,
		&student.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &student, nil
}
