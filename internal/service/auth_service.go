package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/provider"
	"github.com/placement-hub/portal/internal/session"
	apperrors "github.com/placement-hub/portal/pkg/util"
)

// AuthService coordinates the sign-in and registration forms.
type AuthService struct {
	tables provider.Tables
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(tables provider.Tables, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{tables: tables, logger: logger.Named("auth")}
}

// SignUpInput carries every registration field; which ones are required depends on Role.
type SignUpInput struct {
	Role          domain.Role
	Email         string
	Password      string
	FullName      string
	Mobile        string
	CollegeName   string
	CollegeID     string
	OfficerName   string
	OfficerEmail  string
	OfficerMobile string
}

// SignIn authenticates the client and sends it to the dashboard of its role.
func (s *AuthService) SignIn(ctx context.Context, auth provider.AuthProvider, nav session.Navigator, requested domain.Role, email, password string) (*domain.UserIdentity, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("Email and password are required.", nil)
	}

	user, err := auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, authFailure(err)
	}

	role, err := s.tables.Profiles.RoleOf(ctx, user.ID)
	if err != nil || !role.Valid() {
		s.logger.Warn("profile role unavailable after sign-in; using requested role",
			zap.String("user_id", user.ID), zap.Error(err))
		role = requested
	}
	nav.RedirectToDashboard(role)
	return user, nil
}

// SignUp registers the account, writes its profile rows and sends the client to its
// dashboard.
func (s *AuthService) SignUp(ctx context.Context, auth provider.AuthProvider, nav session.Navigator, in SignUpInput) (*domain.UserIdentity, error) {
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown account type", map[string]any{"user_type": in.Role})
	}
	if missing := in.missingFields(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("Please fill all required fields.", map[string]any{"missing": missing})
	}

	user, err := auth.SignUp(ctx, in.Email, in.Password, in.metadata())
	if err != nil {
		return nil, authFailure(err)
	}

	profile := &domain.Profile{ID: user.ID, Email: user.Email, UserType: in.Role}
	if err := s.tables.Profiles.Upsert(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}

	switch in.Role {
	case domain.RoleStudent:
		student := &domain.Student{
			ID:          user.ID,
			FullName:    strings.TrimSpace(in.FullName),
			Mobile:      strings.TrimSpace(in.Mobile),
			CollegeName: strings.TrimSpace(in.CollegeName),
		}
		if err := s.tables.Students.Upsert(ctx, student); err != nil {
			return nil, apperrors.MapError(err)
		}
	case domain.RoleCollege:
		college := &domain.College{
			ID:                   user.ID,
			CollegeName:          strings.TrimSpace(in.CollegeName),
			CollegeID:            strings.TrimSpace(in.CollegeID),
			PlacementOfficerName: strings.TrimSpace(in.OfficerName),
			OfficerEmail:         strings.TrimSpace(in.OfficerEmail),
			OfficerMobile:        strings.TrimSpace(in.OfficerMobile),
		}
		if err := s.tables.Colleges.Upsert(ctx, college); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.logger.Info("account registered", zap.String("user_id", user.ID), zap.String("user_type", string(in.Role)))
	nav.RedirectToDashboard(in.Role)
	return user, nil
}

type formField struct {
	name  string
	value string
}

func (in SignUpInput) missingFields() []string {
	fields := []formField{{"email", in.Email}, {"password", in.Password}}
	switch in.Role {
	case domain.RoleStudent:
		fields = append(fields,
			formField{"full_name", in.FullName},
			formField{"mobile", in.Mobile},
			formField{"college_name", in.CollegeName},
		)
	case domain.RoleCollege:
		fields = append(fields,
			formField{"college_name", in.CollegeName},
			formField{"college_id", in.CollegeID},
			formField{"placement_officer_name", in.OfficerName},
			formField{"officer_email", in.OfficerEmail},
			formField{"officer_mobile", in.OfficerMobile},
		)
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (in SignUpInput) metadata() map[string]string {
	meta := map[string]string{"user_type": string(in.Role)}
	if in.FullName != "" {
		meta["full_name"] = strings.TrimSpace(in.FullName)
	}
	if in.CollegeName != "" {
		meta["college_name"] = strings.TrimSpace(in.CollegeName)
	}
	return meta
}

// authFailure turns a provider error into the message shown on the form.
func authFailure(err error) error {
	for _, known := range []error{
		provider.ErrInvalidCredentials,
		provider.ErrEmailTaken,
		provider.ErrWeakPassword,
		provider.ErrInvalidEmail,
	} {
		if errors.Is(err, known) {
			return apperrors.NewAuthFailed(known.Error(), err)
		}
	}
	return apperrors.NewAuthFailed("authentication service unavailable", err)
}
