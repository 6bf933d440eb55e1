package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
	"github.com/mycad/backoffice/internal/email"
	"github.com/mycad/backoffice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeUserStore struct {
	usersByEmail map[string]domain.User
	groups       map[uuid.UUID]domain.Group

	createdUsers    []repository.CreateUserParams
	createdProfiles []repository.CreateProfileParams
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		usersByEmail: map[string]domain.User{},
		groups:       map[uuid.UUID]domain.Group{},
	}
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := f.usersByEmail[email]
	if !ok {
		return domain.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) GetGroupByID(_ context.Context, id uuid.UUID) (domain.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return domain.Group{}, sql.ErrNoRows
	}
	return g, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, params repository.CreateUserParams) (domain.User, error) {
	f.createdUsers = append(f.createdUsers, params)
	u := domain.User{
		ID:           params.ID,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
	}
	f.usersByEmail[params.Email] = u
	return u, nil
}

func (f *fakeUserStore) CreateProfile(_ context.Context, params repository.CreateProfileParams) (domain.Profile, error) {
	f.createdProfiles = append(f.createdProfiles, params)
	return domain.Profile{
		ID:      params.ID,
		UserID:  params.UserID,
		GroupID: params.GroupID,
		Name:    params.Name,
		Email:   params.Email,
		Role:    params.Role,
	}, nil
}

type fakeSender struct {
	sent []email.Rendered
	to   []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, to string, msg email.Rendered) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	f.to = append(f.to, to)
	return "msg-1@mycad", nil
}

// =============================================================================
// Tests
// =============================================================================

func newUserFixture(t *testing.T) (*fakeUserStore, *fakeSender, UserService, uuid.UUID) {
	t.Helper()

	store := newFakeUserStore()
	groupID := uuid.New()
	store.groups[groupID] = domain.Group{ID: groupID, Name: "Transportes del Norte"}

	renderer, err := email.NewRenderer("https://app.mycad.mx")
	require.NoError(t, err)

	sender := &fakeSender{}
	svc := NewUserService(store, renderer, sender, discardLogger())
	return store, sender, svc, groupID
}

func TestProvision(t *testing.T) {
	t.Run("creates user, profile, and sends verification email", func(t *testing.T) {
		store, sender, svc, groupID := newUserFixture(t)

		res, err := svc.Provision(context.Background(), ProvisionParams{
			Email:   "Ana@Example.com",
			Name:    "Ana López",
			GroupID: groupID,
		})

		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", res.Email)
		assert.Equal(t, "msg-1@mycad", res.MessageID)

		require.Len(t, store.createdUsers, 1)
		require.Len(t, store.createdProfiles, 1)
		assert.Equal(t, groupID, store.createdProfiles[0].GroupID)
		assert.Equal(t, DefaultProfileRole, store.createdProfiles[0].Role)
		assert.Equal(t, store.createdUsers[0].ID, store.createdProfiles[0].UserID)

		// Initial password is stored only as a bcrypt hash.
		hash := store.createdUsers[0].PasswordHash
		assert.True(t, strings.HasPrefix(hash, "$2a$"))
		assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("guess")))

		require.Len(t, sender.sent, 1)
		assert.Equal(t, "ana@example.com", sender.to[0])
		assert.Contains(t, sender.sent[0].HTMLBody, "/verify?token=")
	})

	t.Run("duplicate email conflicts before any writes", func(t *testing.T) {
		store, sender, svc, groupID := newUserFixture(t)
		store.usersByEmail["ana@example.com"] = domain.User{ID: uuid.New(), Email: "ana@example.com"}

		_, err := svc.Provision(context.Background(), ProvisionParams{
			Email:   "ana@example.com",
			Name:    "Ana",
			GroupID: groupID,
		})

		require.Error(t, err)
		assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
		assert.Empty(t, store.createdUsers)
		assert.Empty(t, store.createdProfiles)
		assert.Empty(t, sender.sent)
	})

	t.Run("unknown group is not found", func(t *testing.T) {
		store, _, svc, _ := newUserFixture(t)

		_, err := svc.Provision(context.Background(), ProvisionParams{
			Email:   "ana@example.com",
			Name:    "Ana",
			GroupID: uuid.New(),
		})

		require.Error(t, err)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
		assert.Empty(t, store.createdUsers)
	})

	t.Run("validation failures", func(t *testing.T) {
		_, _, svc, groupID := newUserFixture(t)

		tests := []struct {
			name   string
			params ProvisionParams
		}{
			{name: "missing email", params: ProvisionParams{Name: "Ana", GroupID: groupID}},
			{name: "malformed email", params: ProvisionParams{Email: "nope", Name: "Ana", GroupID: groupID}},
			{name: "missing name", params: ProvisionParams{Email: "a@b.com", GroupID: groupID}},
			{name: "missing group", params: ProvisionParams{Email: "a@b.com", Name: "Ana"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Provision(context.Background(), tt.params)
				require.Error(t, err)
				assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			})
		}
	})

	t.Run("send failure surfaces", func(t *testing.T) {
		_, sender, svc, groupID := newUserFixture(t)
		sender.err = context.DeadlineExceeded

		_, err := svc.Provision(context.Background(), ProvisionParams{
			Email:   "a@b.com",
			Name:    "Ana",
			GroupID: groupID,
		})

		require.Error(t, err)
		assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	})

	t.Run("email language follows the request", func(t *testing.T) {
		_, sender, svc, groupID := newUserFixture(t)

		_, err := svc.Provision(context.Background(), ProvisionParams{
			Email:   "a@b.com",
			Name:    "Ana",
			GroupID: groupID,
			Lang:    "en",
		})

		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "Verify your MyCAD account", sender.sent[0].Subject)
	})
}
