package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/udovin/board/internal/models"
	"github.com/udovin/board/internal/pkg/logs"
)

// Post represents post.
type Post struct {
	// ID contains identifier of post.
	ID int64 `json:"id"`
	// Title contains title of post.
	Title string `json:"title"`
	// Content contains text of post.
	Content string `json:"content"`
}

// PostForm represents form for creating and updating posts.
type PostForm struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Message represents simple response with message.
type Message struct {
	Message string `json:"message"`
}

// registerPostHandlers registers handlers for post management.
func (v *View) registerPostHandlers(g *echo.Group) {
	g.GET("/posts", v.observePosts)
	g.POST("/posts", v.createPost)
	g.PUT("/posts/:post", v.updatePost, v.extractPost)
	g.DELETE("/posts/:post", v.deletePost, v.extractPost)
}

func (v *View) observePosts(c echo.Context) error {
	posts, err := v.core.Posts.All(getContext(c))
	if err != nil {
		c.Logger().Error(err)
		return err
	}
	resp := make([]Post, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, makePost(post))
	}
	return c.JSON(http.StatusOK, resp)
}

func (f *PostForm) Parse(c echo.Context) error {
	if err := c.Bind(f); err != nil {
		c.Logger().Warn(err)
		return errorResponse{
			Code:    http.StatusBadRequest,
			Message: localize(c, "Invalid form."),
		}
	}
	return nil
}

// Update validates form and copies its fields to post.
func (f PostForm) Update(c echo.Context, post *models.Post) error {
	errors := errorFields{}
	if strings.TrimSpace(f.Title) == "" {
		errors["title"] = errorField{Message: localize(c, "Title is required.")}
	}
	if strings.TrimSpace(f.Content) == "" {
		errors["content"] = errorField{Message: localize(c, "Content is required.")}
	}
	if len(errors) > 0 {
		return errorResponse{
			Code:          http.StatusBadRequest,
			Message:       localize(c, "Form has invalid fields."),
			InvalidFields: errors,
		}
	}
	post.Title = f.Title
	post.Content = f.Content
	return nil
}

func (v *View) createPost(c echo.Context) error {
	var form PostForm
	if err := form.Parse(c); err != nil {
		return err
	}
	post := models.Post{}
	if err := form.Update(c, &post); err != nil {
		return err
	}
	if err := v.core.Posts.Create(getContext(c), &post); err != nil {
		c.Logger().Error(err)
		return err
	}
	c.Logger().Info("Post created", logs.Any("post_id", post.ID))
	return c.JSON(http.StatusCreated, Message{Message: "created"})
}

func (v *View) updatePost(c echo.Context) error {
	post, ok := c.Get(postKey).(models.Post)
	if !ok {
		return fmt.Errorf("post not extracted")
	}
	var form PostForm
	if err := form.Parse(c); err != nil {
		return err
	}
	if err := form.Update(c, &post); err != nil {
		return err
	}
	if err := v.core.Posts.Update(getContext(c), post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postNotFound(c)
		}
		c.Logger().Error(err)
		return err
	}
	return c.JSON(http.StatusOK, Message{Message: "updated"})
}

func (v *View) deletePost(c echo.Context) error {
	post, ok := c.Get(postKey).(models.Post)
	if !ok {
		return fmt.Errorf("post not extracted")
	}
	if err := v.core.Posts.Delete(getContext(c), post.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postNotFound(c)
		}
		c.Logger().Error(err)
		return err
	}
	return c.JSON(http.StatusOK, Message{Message: "deleted"})
}

func makePost(post models.Post) Post {
	return Post{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
	}
}

func postNotFound(c echo.Context) errorResponse {
	return errorResponse{
		Code:    http.StatusNotFound,
		Message: localize(c, "Post not found."),
	}
}

func (v *View) extractPost(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("post"), 10, 64)
		if err != nil {
			c.Logger().Warn(err)
			return errorResponse{
				Code:    http.StatusBadRequest,
				Message: localize(c, "Invalid post ID."),
			}
		}
		post, err := v.core.Posts.Get(getContext(c), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return postNotFound(c)
			}
			c.Logger().Error(err)
			return err
		}
		c.Set(postKey, post)
		return next(c)
	}
}
