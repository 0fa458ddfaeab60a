package users

import (
	"fmt"

	"gorm.io/gorm"
)

// Init creates the users table if it does not exist.
func Init(d *gorm.DB) error {
	if err := d.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("auto-migrate users: %w", err)
	}
	return nil
}
