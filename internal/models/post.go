// Package models contains stored objects of board.
package models

import (
	"context"

	"github.com/udovin/gosql"

	"github.com/udovin/board/internal/db"
)

// Post represents a post.
type Post struct {
	// ID contains identifier of post.
	ID int64 `db:"id"`
	// Title contains title of post.
	Title string `db:"title"`
	// Content contains text of post.
	Content string `db:"content"`
}

// ObjectID returns ID of post.
func (o Post) ObjectID() int64 {
	return o.ID
}

// PostStore represents store for posts.
type PostStore struct {
	db    *db.DB
	table string
}

// NewPostStore creates a new instance of PostStore.
func NewPostStore(conn *db.DB, table string) *PostStore {
	return &PostStore{db: conn, table: table}
}

// All returns all posts, newest first.
func (s *PostStore) All(ctx context.Context) ([]Post, error) {
	query := s.db.Select(s.table)
	query.SetNames("id", "title", "content")
	query.SetOrderBy(gosql.Descending("id"))
	rawQuery, values := query.Build()
	rows, err := db.GetRunner(ctx, s.db).QueryContext(ctx, rawQuery, values...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	posts := []Post{}
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Get returns post by ID.
//
// Returns sql.ErrNoRows when post does not exist.
func (s *PostStore) Get(ctx context.Context, id int64) (Post, error) {
	query := s.db.Select(s.table)
	query.SetNames("id", "title", "content")
	query.SetWhere(gosql.Column("id").Equal(id))
	query.SetLimit(1)
	rawQuery, values := query.Build()
	row := db.GetRunner(ctx, s.db).QueryRowContext(ctx, rawQuery, values...)
	var post Post
	if err := row.Scan(&post.ID, &post.Title, &post.Content); err != nil {
		return Post{}, err
	}
	return post, nil
}

// Create creates a new post and sets its ID.
func (s *PostStore) Create(ctx context.Context, post *Post) error {
	id, err := s.db.InsertRow(
		ctx, s.table,
		[]string{"title", "content"}, []any{post.Title, post.Content},
		"id",
	)
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

// Update updates title and content of post.
func (s *PostStore) Update(ctx context.Context, post Post) error {
	return s.db.UpdateRow(
		ctx, s.table,
		[]string{"title", "content"}, []any{post.Title, post.Content},
		"id", post.ID,
	)
}

// Delete deletes post by ID.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	return s.db.DeleteRow(ctx, s.table, "id", id)
}
