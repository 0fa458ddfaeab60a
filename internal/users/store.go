package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/bookshelf/internal/common"
	"github.com/EmpoweredVote/bookshelf/internal/db"
)

// Store persists users through gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(d *gorm.DB) *Store {
	return &Store{db: d}
}

func (s *Store) Create(ctx context.Context, u *User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return classify("create user", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, classify("get user", err)
	}
	return &u, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, classify("get user by username", err)
	}
	return &u, nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	list := []User{}
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, classify("list users", err)
	}
	return list, nil
}

// Update overwrites username, email and password hash of u.ID.
func (s *Store) Update(ctx context.Context, u *User) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
	})
	if res.Error != nil {
		return classify("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update user %d: %w", u.ID, common.ErrorNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return classify("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete user %d: %w", id, common.ErrorNotFound)
	}
	return nil
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, common.ErrorNotFound)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, common.ErrorConflict)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, common.ErrorForeignKey)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
