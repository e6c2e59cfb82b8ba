// Package guard decides whether a protected view may be shown to a client, based on its
// session and, when a role is required, the role stored in the client's profile.
package guard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/observability"
	"github.com/placement-hub/portal/internal/session"
)

// Decision is the outcome of a guard evaluation.
type Decision string

const (
	// Pending means no decision can be taken yet; show a waiting indicator.
	Pending Decision = "pending"
	// Admit means the protected content may be shown.
	Admit Decision = "admit"
	// Redirect means the client has been sent to the landing route.
	Redirect Decision = "redirect"
)

// RoleLookup reads the role of a user. It is implemented by the profiles repository.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (domain.Role, error)
}

// SessionReader exposes the session state the guard depends on.
type SessionReader interface {
	Snapshot() session.Snapshot
}

// Guard evaluates access to protected views.
type Guard struct {
	roles   RoleLookup
	logger  *zap.Logger
	metrics *observability.Metrics
	timeout time.Duration
}

// New builds a guard. timeout bounds each role lookup; zero disables the bound.
func New(roles RoleLookup, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		roles:   roles,
		logger:  logger.Named("guard"),
		metrics: metrics,
		timeout: timeout,
	}
}

// Check evaluates a single navigation. An empty required role admits any signed-in user.
// Redirect decisions have already been handed to nav when Check returns.
func (g *Guard) Check(ctx context.Context, sessions SessionReader, nav session.Navigator, required domain.Role) Decision {
	snap := sessions.Snapshot()
	if snap.Loading() {
		g.record(required, Pending)
		return Pending
	}
	if snap.User == nil {
		nav.RedirectToHome()
		g.record(required, Redirect)
		return Redirect
	}
	if required == "" {
		g.record(required, Admit)
		return Admit
	}

	decision, ok := g.resolve(ctx, snap.User.ID, required)
	if !ok {
		return Pending
	}
	if decision == Redirect {
		nav.RedirectToHome()
	}
	g.record(required, decision)
	return decision
}

// resolve runs the role lookup. ok is false when ctx was cancelled by the caller, in which
// case the result must be discarded.
func (g *Guard) resolve(ctx context.Context, userID string, required domain.Role) (Decision, bool) {
	lookupCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	role, err := g.roles.RoleOf(lookupCtx, userID)
	if ctx.Err() != nil {
		return Pending, false
	}
	if err != nil {
		g.logger.Warn("role lookup failed; denying access",
			zap.String("user_id", userID),
			zap.String("required_role", string(required)),
			zap.Error(err))
		return Redirect, true
	}
	if role != required {
		g.logger.Info("role mismatch; denying access",
			zap.String("user_id", userID),
			zap.String("role", string(role)),
			zap.String("required_role", string(required)))
		return Redirect, true
	}
	return Admit, true
}

func (g *Guard) record(required domain.Role, decision Decision) {
	g.metrics.RecordGuardDecision(string(required), string(decision))
}
