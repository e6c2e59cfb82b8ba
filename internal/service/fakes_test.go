package service

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/events"
	"github.com/placement-hub/portal/internal/repository"
)

type memProfiles struct {
	mu   sync.Mutex
	rows map[string]domain.Profile
	err  error
}

func newMemProfiles() *memProfiles { return &memProfiles{rows: map[string]domain.Profile{}} }

func (m *memProfiles) Upsert(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memProfiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (m *memProfiles) RoleOf(ctx context.Context, id string) (domain.Role, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.UserType, nil
}

type memStudents struct {
	mu      sync.Mutex
	rows    map[string]domain.Student
	emails  map[string]string
	filters []repository.StudentFilter
}

func newMemStudents() *memStudents {
	return &memStudents{rows: map[string]domain.Student{}, emails: map[string]string{}}
}

func (m *memStudents) Upsert(_ context.Context, s *domain.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = *s
	return nil
}

func (m *memStudents) GetByID(_ context.Context, id string) (*domain.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (m *memStudents) Search(_ context.Context, f repository.StudentFilter) ([]domain.StudentListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = append(m.filters, f)

	var out []domain.StudentListing
	for id, s := range m.rows {
		if f.CollegeName != nil && s.CollegeName != *f.CollegeName {
			continue
		}
		if f.SearchTerm != nil {
			term := strings.ToLower(*f.SearchTerm)
			hit := strings.Contains(strings.ToLower(s.FullName), term) ||
				strings.Contains(strings.ToLower(m.emails[id]), term)
			for _, skill := range s.Skills {
				hit = hit || strings.Contains(strings.ToLower(skill), term)
			}
			if !hit {
				continue
			}
		}
		out = append(out, domain.StudentListing{Student: s, Email: m.emails[id]})
	}
	return out, nil
}

type memColleges struct {
	mu   sync.Mutex
	rows map[string]domain.College
}

func newMemColleges() *memColleges { return &memColleges{rows: map[string]domain.College{}} }

func (m *memColleges) Upsert(_ context.Context, c *domain.College) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = *c
	return nil
}

func (m *memColleges) GetByID(_ context.Context, id string) (*domain.College, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

type stubAuth struct {
	user     *domain.UserIdentity
	err      error
	metadata map[string]string
}

func (s *stubAuth) GetSession(context.Context) (*domain.Session, error) { return nil, nil }

func (s *stubAuth) OnAuthStateChange(events.Handler) (events.Subscription, error) {
	return nil, nil
}

func (s *stubAuth) SignInWithPassword(context.Context, string, string) (*domain.UserIdentity, error) {
	return s.user, s.err
}

func (s *stubAuth) SignUp(_ context.Context, _ string, _ string, metadata map[string]string) (*domain.UserIdentity, error) {
	s.metadata = metadata
	return s.user, s.err
}

func (s *stubAuth) SignOut(context.Context) error { return nil }

type navRecorder struct {
	home       int
	dashboards []domain.Role
}

func (n *navRecorder) RedirectToHome() { n.home++ }

func (n *navRecorder) RedirectToDashboard(role domain.Role) {
	n.dashboards = append(n.dashboards, role)
}
