package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/observability/telemetry"
	"github.com/seu-repo/evstation/internal/ports"
)

// KeyKind selects how an ownership rule interprets its bound value.
type KeyKind int

const (
	// KeyNone checks only that the principal owns an EV owner profile.
	KeyNone KeyKind = iota
	// KeyNIC treats the bound value as the NIC of the targeted owner.
	KeyNIC
	// KeyUserID treats the bound value as the targeted user id.
	KeyUserID
)

// OwnershipRule names the bound value an evaluator reads.
type OwnershipRule struct {
	Kind KeyKind
	Key  string
}

func NICRule(key string) OwnershipRule    { return OwnershipRule{Kind: KeyNIC, Key: key} }
func UserIDRule(key string) OwnershipRule { return OwnershipRule{Kind: KeyUserID, Key: key} }
func OwnerRule() OwnershipRule            { return OwnershipRule{Kind: KeyNone} }

// Decision is the outcome of an ownership evaluation.
// Err is set only when Allowed is false. Ref is the bound value the rule was
// checked against, empty when the request targets the principal's own account.
// Callers must act on Ref rather than re-reading the request.
type Decision struct {
	Allowed bool
	Ref     string
	Err     *domain.Error
}

func allow() Decision { return Decision{Allowed: true} }

func deny(err *domain.Error) Decision { return Decision{Err: err} }

// OwnershipEvaluator decides whether a principal may act on the resource referenced by a request.
type OwnershipEvaluator struct {
	owners ports.EVOwnerRepository
	rule   OwnershipRule
	log    *zap.Logger
}

func NewOwnershipEvaluator(owners ports.EVOwnerRepository, rule OwnershipRule, log *zap.Logger) *OwnershipEvaluator {
	return &OwnershipEvaluator{
		owners: owners,
		rule:   rule,
		log:    log,
	}
}

// Rule returns the configured rule.
func (e *OwnershipEvaluator) Rule() OwnershipRule {
	return e.rule
}

// Evaluate runs the role policy for p against the values bound to the request.
// It performs at most one owner lookup. Lookup failures surface as Internal, never as a denial.
func (e *OwnershipEvaluator) Evaluate(ctx context.Context, p domain.Principal, values BoundValues) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("ownership evaluation panicked",
				zap.String("principal_id", p.ID),
				zap.Any("panic", r),
			)
			d = deny(domain.ErrInternal)
		}
		telemetry.ObserveAuthzDecision(p.Role.String(), d.outcome())
	}()

	if !p.Authenticated() {
		return deny(domain.ErrUnauthenticated)
	}

	ref, present := e.resolve(values)

	switch p.Role {
	case domain.RoleAdmin, domain.RoleStationUser:
		d = allow()
	case domain.RoleEVOwner:
		d = e.evaluateOwner(ctx, p, ref, present)
	default:
		d = deny(domain.ErrNotAuthorized)
	}

	if !d.Allowed && d.Err.Kind == domain.KindNotAuthorized {
		e.log.Warn("ownership check denied",
			zap.String("principal_id", p.ID),
			zap.String("role", p.Role.String()),
			zap.String("key", e.rule.Key),
		)
	}
	if d.Allowed && present {
		d.Ref = ref
	}
	return d
}

func (e *OwnershipEvaluator) resolve(values BoundValues) (string, bool) {
	if values == nil || e.rule.Kind == KeyNone {
		return "", false
	}
	return values.Lookup(e.rule.Key)
}

func (e *OwnershipEvaluator) evaluateOwner(ctx context.Context, p domain.Principal, ref string, present bool) Decision {
	switch {
	case e.rule.Kind == KeyNIC && present:
		owner, err := e.owners.FindByNIC(ctx, ref)
		if err != nil {
			return e.lookupFailed(p, err)
		}
		if owner == nil || owner.UserID != p.ID {
			return deny(domain.ErrNotAuthorized)
		}
		return allow()

	case e.rule.Kind == KeyUserID && present:
		if ref != p.ID {
			return deny(domain.ErrNotAuthorized)
		}
		return allow()

	default:
		// No reference: the request targets the principal's own account.
		owner, err := e.owners.FindByUserID(ctx, p.ID)
		if err != nil {
			return e.lookupFailed(p, err)
		}
		if owner == nil {
			return deny(domain.ErrNotAuthorized)
		}
		return allow()
	}
}

func (e *OwnershipEvaluator) lookupFailed(p domain.Principal, err error) Decision {
	e.log.Error("ownership lookup failed",
		zap.String("principal_id", p.ID),
		zap.Error(fmt.Errorf("find ev owner: %w", err)),
	)
	return deny(domain.ErrInternal)
}

func (d Decision) outcome() string {
	if d.Allowed {
		return "allow"
	}
	if d.Err == nil {
		return "deny"
	}
	return string(d.Err.Kind)
}
