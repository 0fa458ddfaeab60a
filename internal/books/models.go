package books

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/EmpoweredVote/bookshelf/internal/users"
)

// Book is a catalog entry. AuthorName is a snapshot of the author's username
// taken at creation and never resynced.
type Book struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `gorm:"not null" json:"description"`
	Image       string      `gorm:"not null" json:"image"`
	Genre       string      `gorm:"not null" json:"genre"`
	AuthorID    int64       `gorm:"column:author_id;not null;index" json:"authorId"`
	AuthorName  string      `gorm:"column:author_name;not null" json:"authorName"`
	CreatedAt   time.Time   `json:"createdAt"`
	Author      *users.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Book) TableName() string { return "books" }

// BookRequest is the body of create and update calls.
type BookRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required"`
	Genre       string `json:"genre" validate:"required"`
	AuthorID    FlexID `json:"authorId" validate:"required"`
	AuthorName  string `json:"authorName" validate:"required"`
}

// invalidID never equals a real user id.
const invalidID FlexID = -1

// FlexID is an id that arrives either as a JSON number or as a numeric
// string. null, "" and 0 decode to 0 (missing); anything else that is not an
// integer decodes to invalidID.
type FlexID int64

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	*f = parseFlexID(raw)
	return nil
}

func parseFlexID(raw string) FlexID {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return FlexID(n)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) ||
		v > math.MaxInt64 || v < math.MinInt64 {
		return invalidID
	}
	return FlexID(int64(v))
}
