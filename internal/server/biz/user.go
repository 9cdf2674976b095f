package biz

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/authz"
	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/log"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/query"
	"github.com/embedhub/embedhub/internal/scopes"
	"github.com/embedhub/embedhub/internal/store"
)

const minPasswordLength = 8

type UserServiceParams struct {
	fx.In

	Store store.Store
	Clock store.Clock
	Query *query.Engine

	PermissionValidator *PermissionValidator
	APIKeys             *APIKeyService
}

type UserService struct {
	*AbstractService

	query     *query.Engine
	validator *PermissionValidator
	apiKeys   *APIKeyService
}

func NewUserService(params UserServiceParams) *UserService {
	return &UserService{
		AbstractService: &AbstractService{store: params.Store, clock: params.Clock},
		query:           params.Query,
		validator:       params.PermissionValidator,
		apiKeys:         params.APIKeys,
	}
}

type CreateUserInput struct {
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Password string         `json:"password"`
	Roles    []string       `json:"roles"`
	Scopes   []string       `json:"scopes"`
	Labels   objects.Labels `json:"labels"`
}

func (input CreateUserInput) validate() error {
	if !strings.Contains(input.Email, "@") {
		return errs.InvalidArgumentf("malformed email %q", input.Email)
	}

	if strings.TrimSpace(input.Name) == "" {
		return errs.InvalidArgumentf("user name is required")
	}

	if len(input.Password) < minPasswordLength {
		return errs.InvalidArgumentf("password must be at least %d characters", minPasswordLength)
	}

	return nil
}

// CreateUser creates an account. A user is its own owner, so a fresh id is
// minted before the permission check. The grantor must possess every role
// and scope being granted.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*objects.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if err := s.validator.CanGrantRoles(ctx, input.Roles); err != nil {
		return nil, err
	}

	if err := s.validator.CanGrantScopes(ctx, input.Scopes); err != nil {
		return nil, err
	}

	id := uuid.New()

	if err := authz.Authorize(ctx, scopes.ResourceUsers, scopes.ActionCreate, id); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, errs.Internal("failed to hash password", err)
	}

	now := s.now()
	actor := s.actorID(ctx)

	record := &store.Record{
		ID:      id,
		Type:    scopes.ResourceUsers,
		OwnerID: id,
		Name:    input.Name,
		Labels:  input.Labels.Clone(),
		Status:  string(objects.UserStatusActivated),
		Attrs: map[string]string{
			store.AttrEmail:    normalizeEmail(input.Email),
			store.AttrPassword: hashedPassword,
			store.AttrRoles:    store.EncodeList(input.Roles),
			store.AttrScopes:   store.EncodeList(input.Scopes),
		},
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	return userFromRecord(record), nil
}

type UpdateUserInput struct {
	Name     *string             `json:"name"`
	Password *string             `json:"password"`
	Labels   objects.LabelUpdate `json:"labels"`
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*objects.User, error) {
	if !input.Labels.Valid() {
		return nil, errs.InvalidArgumentf("labels update may set either replace or merge, not both")
	}

	record, err := s.store.Get(ctx, scopes.ResourceUsers, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceUsers, scopes.ActionUpdate, record.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, errs.InvalidArgumentf("user name is required")
		}

		record.Name = *input.Name
	}

	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, errs.InvalidArgumentf("password must be at least %d characters", minPasswordLength)
		}

		hashedPassword, err := HashPassword(*input.Password)
		if err != nil {
			return nil, errs.Internal("failed to hash password", err)
		}

		record.Attrs[store.AttrPassword] = hashedPassword
	}

	record.Labels = input.Labels.Apply(record.Labels)
	record.UpdatedAt = s.now()
	record.UpdatedBy = s.actorID(ctx)

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	return userFromRecord(record), nil
}

type UpdateUserPermissionsInput struct {
	Roles  []string `json:"roles"`
	Scopes []string `json:"scopes"`
}

// UpdateUserPermissions replaces a user's roles and direct scopes. Editing
// is gated twice: the grantor must be allowed to touch the target at all,
// and must possess everything being granted.
func (s *UserService) UpdateUserPermissions(ctx context.Context, id uuid.UUID, input UpdateUserPermissionsInput) (*objects.User, error) {
	record, err := s.store.Get(ctx, scopes.ResourceUsers, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceUsers, scopes.ActionUpdate, record.OwnerID); err != nil {
		return nil, err
	}

	if err := s.validator.CanEditUserPermissions(ctx, userFromRecord(record)); err != nil {
		return nil, err
	}

	if err := s.validator.CanGrantRoles(ctx, input.Roles); err != nil {
		return nil, err
	}

	if err := s.validator.CanGrantScopes(ctx, input.Scopes); err != nil {
		return nil, err
	}

	record.Attrs[store.AttrRoles] = store.EncodeList(input.Roles)
	record.Attrs[store.AttrScopes] = store.EncodeList(input.Scopes)
	record.UpdatedAt = s.now()
	record.UpdatedBy = s.actorID(ctx)

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	return userFromRecord(record), nil
}

// UpdateUserStatus activates or deactivates a user. The bootstrap owner can
// never be deactivated.
func (s *UserService) UpdateUserStatus(ctx context.Context, id uuid.UUID, status objects.UserStatus) (*objects.User, error) {
	switch status {
	case objects.UserStatusActivated, objects.UserStatusDeactivated:
	default:
		return nil, errs.InvalidArgumentf("unknown user status %q", status)
	}

	record, err := s.store.Get(ctx, scopes.ResourceUsers, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceUsers, scopes.ActionUpdate, record.OwnerID); err != nil {
		return nil, err
	}

	if record.Attrs[store.AttrIsOwner] == "true" && status == objects.UserStatusDeactivated {
		return nil, errs.PermissionDeniedf("cannot deactivate the bootstrap owner")
	}

	record.Status = string(status)
	record.UpdatedAt = s.now()
	record.UpdatedBy = s.actorID(ctx)

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	if status == objects.UserStatusDeactivated {
		s.apiKeys.InvalidateOwnerKeys(ctx, record.ID)
	}

	return userFromRecord(record), nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*objects.User, error) {
	record, err := s.store.Get(ctx, scopes.ResourceUsers, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(ctx, scopes.ResourceUsers, scopes.ActionRead, record.OwnerID); err != nil {
		return nil, err
	}

	return userFromRecord(record), nil
}

// GetUserByID loads a user without a permission check, for the
// authentication middleware resolving a token subject.
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*objects.User, error) {
	return authz.RunWithSystemBypass(ctx, "user.lookup", func(ctx context.Context) (*objects.User, error) {
		record, err := s.store.Get(ctx, scopes.ResourceUsers, id)
		if err != nil {
			return nil, err
		}

		return userFromRecord(record), nil
	})
}

// DeleteUser deletes a user. The bootstrap owner cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	record, err := s.store.Get(ctx, scopes.ResourceUsers, id)
	if err != nil {
		return err
	}

	if err := authz.Authorize(ctx, scopes.ResourceUsers, scopes.ActionDelete, record.OwnerID); err != nil {
		return err
	}

	if record.Attrs[store.AttrIsOwner] == "true" {
		return errs.PermissionDeniedf("cannot delete the bootstrap owner")
	}

	if err := s.store.Delete(ctx, scopes.ResourceUsers, id); err != nil {
		return err
	}

	s.apiKeys.InvalidateOwnerKeys(ctx, record.ID)

	return nil
}

// UserList is one page of users.
type UserList struct {
	Items      []*objects.User `json:"items"`
	TotalCount int             `json:"totalCount"`
	HasMore    bool            `json:"hasMore"`
	NextOffset int             `json:"nextOffset"`
}

func (s *UserService) ListUsers(ctx context.Context, spec query.Spec) (*UserList, error) {
	result, err := s.query.Query(ctx, scopes.ResourceUsers, spec)
	if err != nil {
		return nil, err
	}

	items := make([]*objects.User, len(result.Items))
	for i, record := range result.Items {
		items[i] = userFromRecord(record)
	}

	return &UserList{
		Items:      items,
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore(),
		NextOffset: result.NextOffset(),
	}, nil
}

// EnsureOwner creates the bootstrap owner account on first startup. If any
// owner already exists the call is a no-op; the configured password is never
// applied to an existing account.
func (s *UserService) EnsureOwner(ctx context.Context, email, name, password string) (*objects.User, error) {
	return authz.RunWithSystemBypass(ctx, "user.ensure_owner", func(ctx context.Context) (*objects.User, error) {
		existing, err := s.store.GetByAttr(ctx, scopes.ResourceUsers, store.AttrIsOwner, "true")
		if err == nil {
			return userFromRecord(existing), nil
		}

		if !errs.IsKind(err, errs.KindNotFound) {
			return nil, err
		}

		if !strings.Contains(email, "@") {
			return nil, errs.InvalidArgumentf("malformed owner email %q", email)
		}

		if len(password) < minPasswordLength {
			return nil, errs.InvalidArgumentf("owner password must be at least %d characters", minPasswordLength)
		}

		hashedPassword, err := HashPassword(password)
		if err != nil {
			return nil, errs.Internal("failed to hash owner password", err)
		}

		now := s.now()
		id := uuid.New()

		record := &store.Record{
			ID:      id,
			Type:    scopes.ResourceUsers,
			OwnerID: id,
			Name:    name,
			Labels:  objects.Labels{},
			Status:  string(objects.UserStatusActivated),
			Attrs: map[string]string{
				store.AttrEmail:    normalizeEmail(email),
				store.AttrPassword: hashedPassword,
				store.AttrIsOwner:  "true",
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.store.Create(ctx, record); err != nil {
			return nil, err
		}

		log.Info(ctx, "created bootstrap owner", log.String("email", email))

		return userFromRecord(record), nil
	})
}

// OwnerExists reports whether the bootstrap owner account has been created.
func (s *UserService) OwnerExists(ctx context.Context) (bool, error) {
	return authz.RunWithSystemBypass(ctx, "user.owner_exists", func(ctx context.Context) (bool, error) {
		_, err := s.store.GetByAttr(ctx, scopes.ResourceUsers, store.AttrIsOwner, "true")
		if err != nil {
			if errs.IsKind(err, errs.KindNotFound) {
				return false, nil
			}

			return false, err
		}

		return true, nil
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userFromRecord(record *store.Record) *objects.User {
	isOwner, _ := strconv.ParseBool(record.Attrs[store.AttrIsOwner])

	return &objects.User{
		ID:        record.ID,
		Email:     record.Attrs[store.AttrEmail],
		Name:      record.Name,
		Password:  record.Attrs[store.AttrPassword],
		IsOwner:   isOwner,
		Status:    objects.UserStatus(record.Status),
		Roles:     store.DecodeList(record.Attrs[store.AttrRoles]),
		Scopes:    store.DecodeList(record.Attrs[store.AttrScopes]),
		Labels:    record.Labels,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		CreatedBy: record.CreatedBy,
		UpdatedBy: record.UpdatedBy,
	}
}
