package books

import (
	"fmt"

	"gorm.io/gorm"
)

// Init creates the books table. The users table must already exist.
func Init(d *gorm.DB) error {
	if err := d.AutoMigrate(&Book{}); err != nil {
		return fmt.Errorf("auto-migrate books: %w", err)
	}
	return nil
}
