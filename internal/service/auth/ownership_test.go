package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/mocks"
)

// ownersRepo holds two owners: U1 owns NIC N1 and U2 owns NIC N2.
func ownersRepo() *mocks.MockEVOwnerRepository {
	owners := map[string]*domain.EVOwner{
		"N1": {NIC: "N1", UserID: "U1"},
		"N2": {NIC: "N2", UserID: "U2"},
	}
	return &mocks.MockEVOwnerRepository{
		FindByNICFunc: func(ctx context.Context, nic string) (*domain.EVOwner, error) {
			return owners[nic], nil
		},
		FindByUserIDFunc: func(ctx context.Context, userID string) (*domain.EVOwner, error) {
			for _, o := range owners {
				if o.UserID == userID {
					return o, nil
				}
			}
			return nil, nil
		},
	}
}

func owner(id string) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleEVOwner}
}

func TestOwnershipEvaluator_NICRule(t *testing.T) {
	tests := []struct {
		name      string
		principal domain.Principal
		values    BoundValues
		wantAllow bool
		wantKind  domain.ErrorKind
	}{
		{"owner acting on own NIC", owner("U1"), MapValues{"nic": "N1"}, true, ""},
		{"owner acting on another NIC", owner("U1"), MapValues{"nic": "N2"}, false, domain.KindNotAuthorized},
		{"owner acting on unknown NIC", owner("U1"), MapValues{"nic": "N9"}, false, domain.KindNotAuthorized},
		{"admin on any NIC", domain.Principal{ID: "A1", Role: domain.RoleAdmin}, MapValues{"nic": "N2"}, true, ""},
		{"station user on any NIC", domain.Principal{ID: "S1", Role: domain.RoleStationUser}, MapValues{"nic": "N9"}, true, ""},
		{"other role", domain.Principal{ID: "X1", Role: domain.RoleOther}, MapValues{"nic": "N1"}, false, domain.KindNotAuthorized},
		{"unauthenticated", domain.Principal{Role: domain.RoleAdmin}, MapValues{"nic": "N1"}, false, domain.KindUnauthenticated},
		{"absent NIC falls back to own profile", owner("U2"), MapValues{}, true, ""},
		{"blank NIC falls back to own profile", owner("U2"), MapValues{"nic": "  "}, true, ""},
		{"absent NIC without profile", owner("U3"), nil, false, domain.KindNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewOwnershipEvaluator(ownersRepo(), NICRule("nic"), zap.NewNop())

			d := e.Evaluate(context.Background(), tt.principal, tt.values)

			assert.Equal(t, tt.wantAllow, d.Allowed)
			if tt.wantAllow {
				assert.Nil(t, d.Err)
			} else {
				assert.Equal(t, tt.wantKind, d.Err.Kind)
			}
		})
	}
}

func TestOwnershipEvaluator_UserIDRule(t *testing.T) {
	e := NewOwnershipEvaluator(ownersRepo(), UserIDRule("userId"), zap.NewNop())

	assert.True(t, e.Evaluate(context.Background(), owner("U1"), MapValues{"userId": "U1"}).Allowed)

	d := e.Evaluate(context.Background(), owner("U1"), MapValues{"userId": "U2"})
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.KindNotAuthorized, d.Err.Kind)

	// Without a user id the own-account lookup decides.
	assert.True(t, e.Evaluate(context.Background(), owner("U1"), MapValues{}).Allowed)
	assert.False(t, e.Evaluate(context.Background(), owner("U3"), MapValues{}).Allowed)
}

func TestOwnershipEvaluator_UserIDRuleNeedsNoLookup(t *testing.T) {
	repo := &mocks.MockEVOwnerRepository{
		FindByNICFunc: func(ctx context.Context, nic string) (*domain.EVOwner, error) {
			t.Fatal("unexpected NIC lookup")
			return nil, nil
		},
		FindByUserIDFunc: func(ctx context.Context, userID string) (*domain.EVOwner, error) {
			t.Fatal("unexpected user id lookup")
			return nil, nil
		},
	}
	e := NewOwnershipEvaluator(repo, UserIDRule("userId"), zap.NewNop())

	assert.True(t, e.Evaluate(context.Background(), owner("U1"), MapValues{"userId": "U1"}).Allowed)
}

func TestOwnershipEvaluator_OwnerRule(t *testing.T) {
	e := NewOwnershipEvaluator(ownersRepo(), OwnerRule(), zap.NewNop())

	// The rule ignores bound values entirely.
	assert.True(t, e.Evaluate(context.Background(), owner("U1"), MapValues{"nic": "N2"}).Allowed)
	assert.False(t, e.Evaluate(context.Background(), owner("U9"), nil).Allowed)
	assert.Equal(t, KeyNone, e.Rule().Kind)
}

func TestOwnershipEvaluator_DecisionCarriesCheckedReference(t *testing.T) {
	// Arrange
	e := NewOwnershipEvaluator(ownersRepo(), NICRule("nic"), zap.NewNop())
	values := OrderedValues{
		Args:  MapValues{"nic": "N1"},
		Route: MapValues{"nic": "N2"},
	}
	admin := domain.Principal{ID: "A1", Role: domain.RoleAdmin}

	// Act
	ownerDecision := e.Evaluate(context.Background(), owner("U1"), values)
	adminDecision := e.Evaluate(context.Background(), admin, values)
	denied := e.Evaluate(context.Background(), owner("U2"), values)
	fallback := e.Evaluate(context.Background(), owner("U1"), MapValues{})

	// Assert
	assert.True(t, ownerDecision.Allowed)
	assert.Equal(t, "N1", ownerDecision.Ref)
	assert.Equal(t, "N1", adminDecision.Ref)
	assert.False(t, denied.Allowed)
	assert.Empty(t, denied.Ref)
	assert.True(t, fallback.Allowed)
	assert.Empty(t, fallback.Ref)
}

func TestOwnershipEvaluator_LookupFailureIsInternal(t *testing.T) {
	// Arrange
	repo := &mocks.MockEVOwnerRepository{
		FindByNICFunc: func(ctx context.Context, nic string) (*domain.EVOwner, error) {
			return nil, errors.New("connection refused")
		},
		FindByUserIDFunc: func(ctx context.Context, userID string) (*domain.EVOwner, error) {
			return nil, errors.New("connection refused")
		},
	}

	// Act & Assert
	byNIC := NewOwnershipEvaluator(repo, NICRule("nic"), zap.NewNop())
	d := byNIC.Evaluate(context.Background(), owner("U1"), MapValues{"nic": "N1"})
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.KindInternal, d.Err.Kind)

	own := NewOwnershipEvaluator(repo, OwnerRule(), zap.NewNop())
	d = own.Evaluate(context.Background(), owner("U1"), nil)
	assert.Equal(t, domain.KindInternal, d.Err.Kind)
}

func TestOwnershipEvaluator_PanicBecomesInternal(t *testing.T) {
	// Arrange
	repo := &mocks.MockEVOwnerRepository{
		FindByNICFunc: func(ctx context.Context, nic string) (*domain.EVOwner, error) {
			panic("nil map")
		},
	}
	e := NewOwnershipEvaluator(repo, NICRule("nic"), zap.NewNop())

	// Act
	d := e.Evaluate(context.Background(), owner("U1"), MapValues{"nic": "N1"})

	// Assert
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.KindInternal, d.Err.Kind)
}

func TestOwnershipEvaluator_SingleLookup(t *testing.T) {
	// Arrange
	calls := 0
	base := ownersRepo()
	repo := &mocks.MockEVOwnerRepository{
		FindByNICFunc: func(ctx context.Context, nic string) (*domain.EVOwner, error) {
			calls++
			return base.FindByNICFunc(ctx, nic)
		},
		FindByUserIDFunc: func(ctx context.Context, userID string) (*domain.EVOwner, error) {
			calls++
			return base.FindByUserIDFunc(ctx, userID)
		},
	}
	e := NewOwnershipEvaluator(repo, NICRule("nic"), zap.NewNop())

	// Act
	e.Evaluate(context.Background(), owner("U1"), MapValues{"nic": "N2"})
	e.Evaluate(context.Background(), owner("U1"), MapValues{})

	// Assert
	assert.Equal(t, 2, calls)
}
