// Package memstore provides in-memory stand-ins for the Postgres and Redis
// stores and the invitation notifier, for service and handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iamadmin/iamadmin/internal/model"
	"github.com/iamadmin/iamadmin/internal/repository"
)

// Directory is an in-memory users/applications/groups store with the same
// search and ordering rules as the Postgres repository.
type Directory struct {
	mu     sync.RWMutex
	users  []*model.User
	apps   []*model.Application
	groups map[int64]string
	nextID int64

	// Err, when set, is returned by every method.
	Err error
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{groups: make(map[int64]string)}
}

// AddUser inserts a copy of u, assigning an ID when it has none.
func (d *Directory) AddUser(u model.User) *model.User {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	if u.ID == 0 {
		u.ID = d.nextID
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	d.users = append(d.users, &u)
	c := u
	return &c
}

// AddApplication inserts a copy of a, assigning an ID when it has none.
func (d *Directory) AddApplication(a model.Application) *model.Application {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	if a.ID == 0 {
		a.ID = d.nextID
	}
	d.apps = append(d.apps, &a)
	c := a
	return &c
}

// AddGroup inserts a group.
func (d *Directory) AddGroup(id int64, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groups[id] = name
}

func containsFold(field *string, search string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), search)
}

func (d *Directory) matchingUsers(search string) []*model.User {
	search = strings.ToLower(search)
	var out []*model.User
	for _, u := range d.users {
		if search == "" ||
			containsFold(u.FirstName, search) ||
			containsFold(u.LastName, search) ||
			containsFold(u.MiddleName, search) ||
			containsFold(&u.Email, search) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (d *Directory) matchingApplications(search string) []*model.Application {
	search = strings.ToLower(search)
	var out []*model.Application
	for _, a := range d.apps {
		if search == "" || containsFold(&a.Name, search) || containsFold(&a.ClientID, search) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name > out[j].Name
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func window[T any](items []*T, limit, offset int64) []*T {
	out := make([]*T, 0)
	if offset >= int64(len(items)) {
		return out
	}
	end := int64(len(items))
	if limit < end-offset {
		end = offset + limit
	}
	for _, item := range items[offset:end] {
		c := *item
		out = append(out, &c)
	}
	return out
}

// CountUsers counts users matching search.
func (d *Directory) CountUsers(ctx context.Context, search string) (int64, error) {
	if d.Err != nil {
		return 0, d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.matchingUsers(search))), nil
}

// ListUsers returns a window of users matching search.
func (d *Directory) ListUsers(ctx context.Context, search string, limit, offset int64) ([]*model.User, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return window(d.matchingUsers(search), limit, offset), nil
}

// GetUserByEmail returns the user with this exact email.
func (d *Directory) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UpdateUserByEmail overwrites the editable fields of a user.
func (d *Directory) UpdateUserByEmail(ctx context.Context, email string, upd model.UserUpdate) (*model.User, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			u.FirstName = upd.FirstName
			u.MiddleName = upd.MiddleName
			u.LastName = upd.LastName
			u.IsActive = upd.IsActive
			u.IsRoot = upd.IsRoot
			u.UpdatedAt = time.Now().UTC()
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UserExists reports whether a user with this email exists.
func (d *Directory) UserExists(ctx context.Context, email string) (bool, error) {
	if d.Err != nil {
		return false, d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// CountApplications counts applications matching search.
func (d *Directory) CountApplications(ctx context.Context, search string) (int64, error) {
	if d.Err != nil {
		return 0, d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.matchingApplications(search))), nil
}

// ListApplications returns a window of applications matching search.
func (d *Directory) ListApplications(ctx context.Context, search string, limit, offset int64) ([]*model.Application, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return window(d.matchingApplications(search), limit, offset), nil
}

// GroupExists reports whether the group exists.
func (d *Directory) GroupExists(ctx context.Context, id int64) (bool, error) {
	if d.Err != nil {
		return false, d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.groups[id]
	return ok, nil
}
