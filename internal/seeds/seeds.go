// Package seeds loads the fixed sample rows shipped with the server.
package seeds

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/bookshelf/internal/books"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
	"github.com/EmpoweredVote/bookshelf/internal/users"
)

//go:embed data.yaml
var defaultData []byte

type UserRow struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type BookRow struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Genre       string `yaml:"genre"`
	Author      string `yaml:"author"`
}

// Data is the parsed seed file.
type Data struct {
	Users []UserRow `yaml:"users"`
	Books []BookRow `yaml:"books"`
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &d, nil
}

// SeedAll inserts the embedded sample rows.
func SeedAll(ctx context.Context, d *gorm.DB, log logging.Logger) error {
	data, err := Parse(defaultData)
	if err != nil {
		return err
	}
	return Seed(ctx, d, data, log)
}

// Seed fills each table only when it is empty, so running it twice is a no-op.
// Seed books whose author does not exist are skipped. Everything runs in one
// transaction.
func Seed(ctx context.Context, d *gorm.DB, data *Data, log logging.Logger) error {
	return d.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedUsers(ctx, tx, data.Users, log); err != nil {
			return err
		}
		return seedBooks(ctx, tx, data.Books, log)
	})
}

func seedUsers(ctx context.Context, tx *gorm.DB, rows []UserRow, log logging.Logger) error {
	var count int64
	if err := tx.Model(&users.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		log.Info(ctx, "users table not empty, skipping", "count", count)
		return nil
	}

	for _, su := range rows {
		hash, err := users.HashPassword(su.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.Username, err)
		}
		u := users.User{Username: su.Username, Email: su.Email, PasswordHash: hash}
		if err := tx.Create(&u).Error; err != nil {
			return fmt.Errorf("create user %s: %w", su.Username, err)
		}
	}
	log.Info(ctx, "seeded users", "count", len(rows))
	return nil
}

func seedBooks(ctx context.Context, tx *gorm.DB, rows []BookRow, log logging.Logger) error {
	var count int64
	if err := tx.Model(&books.Book{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		log.Info(ctx, "books table not empty, skipping", "count", count)
		return nil
	}

	created := 0
	for _, sb := range rows {
		var author users.User
		err := tx.Where("username = ?", sb.Author).First(&author).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn(ctx, "seed book author missing, skipping", "title", sb.Title, "author", sb.Author)
			continue
		}
		if err != nil {
			return fmt.Errorf("author %q for %q: %w", sb.Author, sb.Title, err)
		}

		b := books.Book{
			Title:       sb.Title,
			Description: sb.Description,
			Image:       sb.Image,
			Genre:       sb.Genre,
			AuthorID:    author.ID,
			AuthorName:  author.Username,
		}
		if err := tx.Omit("Author").Create(&b).Error; err != nil {
			return fmt.Errorf("create book %q: %w", sb.Title, err)
		}
		created++
	}
	log.Info(ctx, "seeded books", "count", created)
	return nil
}
