package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/user"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, u := range r.db.users {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.ID = uuid.NewString()
	r.db.users[usr.ID] = &usr
	return usr, nil
}

func (r *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if usr, ok := r.db.users[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.db.users {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) GetUserByGoogleID(_ context.Context, gid string) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.db.users {
		if usr.GoogleID != "" && usr.GoogleID == gid {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]user.User, 0, len(r.db.users))
	for _, usr := range r.db.users {
		res = append(res, *usr)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (r *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.users[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	r.db.users[usr.ID] = &usr
	return usr, nil
}
