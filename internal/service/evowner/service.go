package evowner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/adapter/queue"
	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/internal/service/auth"
)

const (
	msgRegistered       = "EV owner registered successfully"
	msgRetrieved        = "EV owner retrieved successfully"
	msgUpdated          = "EV owner updated successfully"
	msgDeactivated      = "EV owner account deactivated successfully"
	msgReactivated      = "EV owner account reactivated successfully"
	msgAlreadyActive    = "EV owner account is already active"
	msgAlreadyInactive  = "EV owner account is already deactivated"
	msgDuplicateNIC     = "An EV owner with this NIC already exists"
	msgDuplicateEmail   = "An account with this e-mail already exists"
	msgReactivateDenied = "Only back-office users can reactivate an EV owner account"
)

// Service manages EV owner accounts. Each owner has exactly one User with role EVOwner.
type Service struct {
	owners   ports.EVOwnerRepository
	users    ports.UserRepository
	mq       queue.MessageQueue
	notifier ports.Notifier
	now      func() time.Time
	log      *zap.Logger
}

// NewService wires the owner service. mq and notifier may be nil.
func NewService(
	owners ports.EVOwnerRepository,
	users ports.UserRepository,
	mq queue.MessageQueue,
	notifier ports.Notifier,
	log *zap.Logger,
) *Service {
	return &Service{
		owners:   owners,
		users:    users,
		mq:       mq,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

var _ ports.EVOwnerService = (*Service)(nil)

func (s *Service) Register(ctx context.Context, req *ports.RegisterOwnerRequest) *domain.ServiceResult {
	if err := validateRegister(req); err != nil {
		return domain.Fail(err)
	}

	nic := strings.TrimSpace(req.NIC)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.owners.FindByNIC(ctx, nic)
	if err != nil {
		return s.internal("Failed to look up EV owner", err)
	}
	if existing != nil {
		return domain.Fail(domain.NewError(domain.KindConflict, msgDuplicateNIC))
	}
	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return s.internal("Failed to look up user", err)
	}
	if account != nil {
		return domain.Fail(domain.NewError(domain.KindConflict, msgDuplicateEmail))
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return s.internal("Failed to hash password", err)
	}

	now := s.now()
	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName),
		Email:     email,
		Password:  hashed,
		Role:      domain.RoleEVOwner.String(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &domain.EVOwner{
		NIC:       nic,
		UserID:    user.ID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.owners.Register(ctx, user, owner); err != nil {
		return s.internal("Failed to register EV owner", err)
	}

	s.log.Info("EV owner registered", zap.String("nic", nic), zap.String("user_id", user.ID))
	s.publish(EventRegistered, owner)
	return domain.OK(msgRegistered, owner)
}

func (s *Service) Get(ctx context.Context, nic string) *domain.ServiceResult {
	owner, res := s.load(ctx, nic)
	if res != nil {
		return res
	}
	return domain.OK(msgRetrieved, owner)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) *domain.ServiceResult {
	owner, err := s.owners.FindByUserID(ctx, userID)
	if err != nil {
		return s.internal("Failed to load EV owner", err)
	}
	if owner == nil {
		return domain.Fail(domain.ErrEVOwnerNotFound)
	}
	return domain.OK(msgRetrieved, owner)
}

func (s *Service) UpdateProfile(ctx context.Context, nic string, patch *domain.EVOwnerPatch) *domain.ServiceResult {
	owner, res := s.load(ctx, nic)
	if res != nil {
		return res
	}
	if err := validatePatch(patch); err != nil {
		return domain.Fail(err)
	}

	updated := *owner
	fields := map[string]interface{}{}

	if patch.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*patch.FirstName)
		fields["first_name"] = updated.FirstName
	}
	if patch.LastName != nil {
		updated.LastName = strings.TrimSpace(*patch.LastName)
		fields["last_name"] = updated.LastName
	}
	if patch.Phone != nil {
		updated.Phone = strings.TrimSpace(*patch.Phone)
		fields["phone"] = updated.Phone
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != owner.Email {
			taken, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return s.internal("Failed to look up user", err)
			}
			if taken != nil && taken.ID != owner.UserID {
				return domain.Fail(domain.NewError(domain.KindConflict, msgDuplicateEmail))
			}
		}
		updated.Email = email
		fields["email"] = email
	}

	updated.UpdatedAt = s.now()
	fields["updated_at"] = updated.UpdatedAt

	if err := s.owners.UpdateFields(ctx, nic, fields); err != nil {
		return s.internal("Failed to update EV owner", err)
	}

	s.log.Info("EV owner updated", zap.String("nic", nic), zap.Int("fields", len(fields)-1))
	s.publish(EventUpdated, &updated)
	return domain.OK(msgUpdated, &updated)
}

// Deactivate is the owner's own account closure. Login is refused until reactivated.
func (s *Service) Deactivate(ctx context.Context, nic string) *domain.ServiceResult {
	owner, res := s.load(ctx, nic)
	if res != nil {
		return res
	}
	if !owner.IsActive {
		return domain.Fail(domain.NewError(domain.KindAlreadyInState, msgAlreadyInactive))
	}
	return s.setActive(ctx, owner, false)
}

// Reactivate is reserved to back-office roles.
func (s *Service) Reactivate(ctx context.Context, actor domain.Principal, nic string) *domain.ServiceResult {
	if !actor.Authenticated() {
		return domain.Fail(domain.ErrUnauthenticated)
	}
	if !actor.Role.HasFullAccess() {
		s.log.Warn("EV owner reactivation denied",
			zap.String("principal_id", actor.ID),
			zap.String("role", actor.Role.String()),
		)
		return domain.Fail(domain.NewError(domain.KindNotAuthorized, msgReactivateDenied))
	}

	owner, res := s.load(ctx, nic)
	if res != nil {
		return res
	}
	if owner.IsActive {
		return domain.Fail(domain.NewError(domain.KindAlreadyInState, msgAlreadyActive))
	}
	return s.setActive(ctx, owner, true)
}

func (s *Service) setActive(ctx context.Context, owner *domain.EVOwner, active bool) *domain.ServiceResult {
	if err := s.owners.SetActive(ctx, owner.NIC, active); err != nil {
		return s.internal("Failed to change EV owner state", err)
	}

	changed := *owner
	changed.IsActive = active
	changed.UpdatedAt = s.now()

	evt, msg := EventDeactivated, msgDeactivated
	if active {
		evt, msg = EventReactivated, msgReactivated
	}
	s.log.Info("EV owner state changed", zap.String("nic", owner.NIC), zap.Bool("is_active", active))
	s.publish(evt, &changed)
	s.notify(ctx, &changed)
	return domain.OK(msg, &changed)
}

func (s *Service) load(ctx context.Context, nic string) (*domain.EVOwner, *domain.ServiceResult) {
	owner, err := s.owners.FindByNIC(ctx, strings.TrimSpace(nic))
	if err != nil {
		return nil, s.internal("Failed to load EV owner", err)
	}
	if owner == nil {
		return nil, domain.Fail(domain.ErrEVOwnerNotFound)
	}
	return owner, nil
}

func (s *Service) internal(msg string, err error) *domain.ServiceResult {
	s.log.Error(msg, zap.Error(err))
	return domain.Fail(domain.ErrInternal)
}
