package client

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Genre       string    `json:"genre"`
	AuthorID    int64     `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BookInput is the body of create and update calls.
type BookInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Genre       string `json:"genre"`
	AuthorID    int64  `json:"authorId"`
	AuthorName  string `json:"authorName"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
