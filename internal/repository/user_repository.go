package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/store"
)

type UserRepo struct {
	st store.Store
	c  collection[model.User]
}

func NewUserRepo(st store.Store) *UserRepo {
	return &UserRepo{st: st, c: collection[model.User]{st: st, name: model.CollUsers}}
}

// Get fetches a user by id.
func (r *UserRepo) Get(ctx context.Context, id int64) (model.User, error) {
	return r.c.get(ctx, id)
}

// GetByEmail fetches a user by email, ignoring case and surrounding spaces.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.TrimSpace(email)
	return r.c.find(ctx, store.Query{Match: func(rec store.Record) bool {
		return strings.EqualFold(strings.TrimSpace(rec.String("email")), email)
	}})
}

// ListWithPlaintextPassword returns users still carrying a plaintext
// password attribute.
func (r *UserRepo) ListWithPlaintextPassword(ctx context.Context) ([]model.User, error) {
	return r.c.list(ctx, store.Query{Match: func(rec store.Record) bool {
		s, ok := rec["password"].(string)
		return ok && s != ""
	}})
}

// SetPasswordHash stores hash and drops any plaintext password. The record
// is replaced because a patch cannot remove an attribute.
func (r *UserRepo) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	rec, err := r.st.Get(ctx, model.CollUsers, id)
	if err != nil {
		return err
	}
	delete(rec, "password")
	rec["passwordHash"] = hash
	_, err = r.st.Replace(ctx, model.CollUsers, id, rec)
	return err
}
