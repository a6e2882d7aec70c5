// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/iamadmin/iamadmin/internal/metrics"
	"github.com/iamadmin/iamadmin/internal/model"
	"github.com/iamadmin/iamadmin/internal/repository"
)

// DirectoryStore is the persistent store behind DirectoryService.
// *repository.Repository implements it.
type DirectoryStore interface {
	CountUsers(ctx context.Context, search string) (int64, error)
	ListUsers(ctx context.Context, search string, limit, offset int64) ([]*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserByEmail(ctx context.Context, email string, upd model.UserUpdate) (*model.User, error)
	UserExists(ctx context.Context, email string) (bool, error)

	CountApplications(ctx context.Context, search string) (int64, error)
	ListApplications(ctx context.Context, search string, limit, offset int64) ([]*model.Application, error)

	GroupExists(ctx context.Context, id int64) (bool, error)
}

// DirectoryService answers paginated queries over users and applications
// and edits user accounts.
type DirectoryService struct {
	store   DirectoryStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(store DirectoryStore, logger *slog.Logger, recorder metrics.Recorder) *DirectoryService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DirectoryService{
		store:   store,
		logger:  logger,
		metrics: recorder,
	}
}

// validatePage checks the window before any store access.
// page_size is checked first so a bad size is reported for any page.
func validatePage(req model.PageRequest) error {
	if req.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if req.Page < 1 {
		return ErrInvalidPage
	}
	if int64(req.Page-1) > math.MaxInt64/int64(req.PageSize) {
		return ErrPageOutOfRange
	}
	return nil
}

// ListUsers returns one page of users, newest first, optionally filtered
// by a case-insensitive substring of their names or email.
//
// The count and the page are separate reads, so a concurrent write can
// make TotalCount disagree with the rows seen.
func (s *DirectoryService) ListUsers(ctx context.Context, caller *model.Caller, req model.PageRequest) (model.Page[*model.User], error) {
	if err := requireCaller(caller); err != nil {
		return model.Page[*model.User]{}, err
	}
	if err := validatePage(req); err != nil {
		return model.Page[*model.User]{}, err
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveDirectoryQueryDuration(metrics.CollectionUsers, time.Since(start))
	}()
	s.metrics.IncDirectoryQuery(metrics.CollectionUsers, req.Filtered())

	total, err := s.store.CountUsers(ctx, req.Search)
	if err != nil {
		return model.Page[*model.User]{}, unavailable("count users", err)
	}

	users, err := s.store.ListUsers(ctx, req.Search, int64(req.PageSize), req.Offset())
	if err != nil {
		return model.Page[*model.User]{}, unavailable("list users", err)
	}

	return model.Page[*model.User]{TotalCount: total, Data: users}, nil
}

// ListApplications returns one page of applications ordered by name
// descending, optionally filtered by name or client ID.
func (s *DirectoryService) ListApplications(ctx context.Context, caller *model.Caller, req model.PageRequest) (model.Page[*model.Application], error) {
	if err := requireCaller(caller); err != nil {
		return model.Page[*model.Application]{}, err
	}
	if err := validatePage(req); err != nil {
		return model.Page[*model.Application]{}, err
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveDirectoryQueryDuration(metrics.CollectionApplications, time.Since(start))
	}()
	s.metrics.IncDirectoryQuery(metrics.CollectionApplications, req.Filtered())

	total, err := s.store.CountApplications(ctx, req.Search)
	if err != nil {
		return model.Page[*model.Application]{}, unavailable("count applications", err)
	}

	apps, err := s.store.ListApplications(ctx, req.Search, int64(req.PageSize), req.Offset())
	if err != nil {
		return model.Page[*model.Application]{}, unavailable("list applications", err)
	}

	return model.Page[*model.Application]{TotalCount: total, Data: apps}, nil
}

// GetUser returns the user with exactly this email.
func (s *DirectoryService) GetUser(ctx context.Context, caller *model.Caller, email string) (*model.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, unavailable("get user", err)
	}
	return user, nil
}

// UserExists reports whether a user with this email exists.
func (s *DirectoryService) UserExists(ctx context.Context, caller *model.Caller, email string) (bool, error) {
	if err := requireCaller(caller); err != nil {
		return false, err
	}

	exists, err := s.store.UserExists(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, unavailable("check user", err)
	}
	return exists, nil
}

// GroupExists reports whether the group exists.
func (s *DirectoryService) GroupExists(ctx context.Context, caller *model.Caller, groupID int64) (bool, error) {
	if err := requireCaller(caller); err != nil {
		return false, err
	}

	exists, err := s.store.GroupExists(ctx, groupID)
	if err != nil {
		return false, unavailable("check group", err)
	}
	return exists, nil
}

// UpdateUser overwrites the editable attributes of the user with this email.
// All five fields are written; a nil name clears it.
func (s *DirectoryService) UpdateUser(ctx context.Context, caller *model.Caller, email string, upd model.UserUpdate) (*model.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	user, err := s.store.UpdateUserByEmail(ctx, email, upd)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, unavailable("update user", err)
	}

	s.metrics.IncUserUpdated()
	s.logger.InfoContext(ctx, "user_updated",
		slog.String("email", user.Email),
		slog.String("actor", caller.Subject),
		slog.Bool("is_active", user.IsActive),
		slog.Bool("is_root", user.IsRoot),
	)

	return user, nil
}
