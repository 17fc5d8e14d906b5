package models

import "time"

// Board separates the two community areas that share one post model.
type Board string

const (
	BoardForum Board = "forum"
	BoardBlog  Board = "blog"
)

func (b Board) Valid() bool {
	return b == BoardForum || b == BoardBlog
}

type Post struct {
	ID           string    `json:"id"`
	Board        Board     `json:"board"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Excerpt      string    `json:"excerpt,omitempty"`
	ImageURLs    []string  `json:"imageUrls"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
