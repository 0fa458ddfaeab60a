package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EmpoweredVote/bookshelf/internal/common"
	"github.com/EmpoweredVote/bookshelf/internal/db"
	"github.com/EmpoweredVote/bookshelf/internal/users"
)

type Store struct {
	db *gorm.DB
}

func NewStore(d *gorm.DB) *Store {
	return &Store{db: d}
}

// Create inserts b with AuthorName copied from the author's current row.
// A missing author is reported as common.ErrorForeignKey.
func (s *Store) Create(ctx context.Context, b *Book) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author users.User
		if err := tx.Select("id", "username").First(&author, b.AuthorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("author %d: %w", b.AuthorID, common.ErrorForeignKey)
			}
			return err
		}
		b.AuthorName = author.Username
		return tx.Omit(clause.Associations).Create(b).Error
	})
	if err != nil {
		return classify("create book", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Book, error) {
	var b Book
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, classify("get book", err)
	}
	return &b, nil
}

// List returns every book in insertion order.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	list := []Book{}
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, classify("list books", err)
	}
	return list, nil
}

// Update overwrites the editable fields of b.ID. Author columns are left alone.
func (s *Store) Update(ctx context.Context, b *Book) error {
	res := s.db.WithContext(ctx).Model(&Book{}).Where("id = ?", b.ID).Updates(map[string]any{
		"title":       b.Title,
		"description": b.Description,
		"image":       b.Image,
		"genre":       b.Genre,
	})
	if res.Error != nil {
		return classify("update book", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update book %d: %w", b.ID, common.ErrorNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&Book{}, id)
	if res.Error != nil {
		return classify("delete book", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete book %d: %w", id, common.ErrorNotFound)
	}
	return nil
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, common.ErrorNotFound)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, common.ErrorForeignKey)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
