package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
	"github.com/mycad/backoffice/internal/email"
	"github.com/mycad/backoffice/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// BcryptCost is the cost factor for bcrypt password hashing.
	// Cost 12 provides good security while staying fast enough for
	// login flows.
	BcryptCost = 12

	// InitialPasswordBytes is the number of random bytes in a generated
	// initial password. Hex-encoded to twice this length.
	InitialPasswordBytes = 16

	// VerificationTokenBytes is the number of random bytes in an email
	// verification token.
	VerificationTokenBytes = 32

	// DefaultProfileRole is assigned to provisioned profiles.
	DefaultProfileRole = "member"
)

// =============================================================================
// Store Interface
// =============================================================================

// UserStore is the subset of document store queries the provisioning
// service needs. *repository.Queries satisfies it.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (domain.Group, error)
	CreateUser(ctx context.Context, params repository.CreateUserParams) (domain.User, error)
	CreateProfile(ctx context.Context, params repository.CreateProfileParams) (domain.Profile, error)
}

// =============================================================================
// Interface Definition
// =============================================================================

// ProvisionParams carries the inputs for provisioning one user.
type ProvisionParams struct {
	Email   string
	Name    string
	GroupID uuid.UUID
	Lang    string // Email language, defaults to Spanish
}

// ProvisionResult reports the created records.
type ProvisionResult struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
	Email     string
	MessageID string // Verification email message id
}

// UserService defines the user provisioning operations.
type UserService interface {
	// Provision creates a user with a generated initial password, the
	// linked profile in the owning group, and sends the verification
	// email.
	// Returns domain.ECONFLICT if the email is already registered.
	// Returns domain.EINVALID for validation errors.
	// Returns domain.ENOTFOUND if the group does not exist.
	Provision(ctx context.Context, params ProvisionParams) (*ProvisionResult, error)
}

// =============================================================================
// Implementation
// =============================================================================

type userService struct {
	store    UserStore
	renderer *email.Renderer
	sender   email.Sender
	logger   *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	store UserStore,
	renderer *email.Renderer,
	sender email.Sender,
	logger *slog.Logger,
) UserService {
	return &userService{
		store:    store,
		renderer: renderer,
		sender:   sender,
		logger:   logger,
	}
}

// Provision creates the user and profile records and sends the
// verification email.
func (s *userService) Provision(ctx context.Context, params ProvisionParams) (*ProvisionResult, error) {
	const op = "user.provision"

	addr := strings.ToLower(strings.TrimSpace(params.Email))
	if addr == "" || !strings.Contains(addr, "@") {
		return nil, domain.Invalid(op, "a valid email address is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, domain.Invalid(op, "name is required")
	}
	if params.GroupID == uuid.Nil {
		return nil, domain.Invalid(op, "groupId is required")
	}

	// Duplicate check before any writes.
	_, err := s.store.GetUserByEmail(ctx, addr)
	switch {
	case err == nil:
		return nil, domain.Conflict(op, "a user with this email already exists")
	case !errors.Is(err, sql.ErrNoRows):
		return nil, domain.Internal(err, op, "failed to check for existing user")
	}

	group, err := s.store.GetGroupByID(ctx, params.GroupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "group", params.GroupID.String())
		}
		return nil, domain.Internal(err, op, "failed to fetch group")
	}

	// Generated initial password; the user sets their own after
	// verifying the account.
	password, err := randomHex(InitialPasswordBytes)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate initial password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash initial password")
	}

	user, err := s.store.CreateUser(ctx, repository.CreateUserParams{
		ID:           uuid.New(),
		Email:        addr,
		Name:         strings.TrimSpace(params.Name),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create user")
	}

	profile, err := s.store.CreateProfile(ctx, repository.CreateProfileParams{
		ID:      uuid.New(),
		UserID:  user.ID,
		GroupID: group.ID,
		Name:    user.Name,
		Email:   user.Email,
		Role:    DefaultProfileRole,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create profile")
	}

	token, err := randomHex(VerificationTokenBytes)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate verification token")
	}

	rendered, err := s.renderer.Render(email.KindVerification, email.Params{
		To:    user.Email,
		Name:  user.Name,
		Lang:  params.Lang,
		Token: token,
	})
	if err != nil {
		return nil, err
	}

	messageID, err := s.sender.Send(ctx, user.Email, rendered)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to send verification email")
	}

	s.logger.Info("provisioned user",
		"user_id", user.ID,
		"profile_id", profile.ID,
		"group_id", group.ID,
		"email", user.Email,
	)

	return &ProvisionResult{
		UserID:    user.ID,
		ProfileID: profile.ID,
		Email:     user.Email,
		MessageID: messageID,
	}, nil
}

// randomHex returns n random bytes hex-encoded.
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
