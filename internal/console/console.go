// Package console implements interactive console for posts.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/gommon/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/udovin/board/internal/api"
	"github.com/udovin/board/internal/pkg/locale"
	"github.com/udovin/board/internal/pkg/logs"
)

// ErrAborted is returned when operation was canceled by user or
// form was not filled.
var ErrAborted = errors.New("operation aborted")

// PostsClient represents client for posts API.
type PostsClient interface {
	ObservePosts(ctx context.Context) ([]api.Post, error)
	CreatePost(ctx context.Context, form api.PostForm) error
	UpdatePost(ctx context.Context, id int64, form api.PostForm) error
	DeletePost(ctx context.Context, id int64) error
}

// Form represents form for new posts.
type Form interface {
	// Values returns current title and content.
	Values() (title, content string)
	// Clear clears all fields.
	Clear()
}

// Container represents place where list of posts is shown.
type Container interface {
	// Replace replaces whole content of container.
	Replace(content string, items []Item)
}

// Status represents status line.
type Status interface {
	SetStatus(text string)
}

// Dialogs represents modal dialogs.
type Dialogs interface {
	// Alert shows message to user.
	Alert(message string)
	// Confirm asks user for confirmation.
	Confirm(message string) bool
	// EditPost asks user for new title and content of post.
	//
	// Returns false when user canceled editing.
	EditPost(post api.Post) (api.PostForm, bool)
}

// Context contains everything console interacts with.
type Context struct {
	Form      Form
	Container Container
	Status    Status
	Dialogs   Dialogs
	Logger    *logs.Logger
	Printer   *message.Printer
}

// Item represents rendered post with bound actions.
type Item struct {
	Post   api.Post
	Edit   func(ctx context.Context) error
	Delete func(ctx context.Context) error
}

// Console represents console for managing posts.
type Console struct {
	client   PostsClient
	context  Context
	renderer *Renderer
}

// Option represents console option.
type Option func(*Console)

// WithRenderer sets custom renderer.
func WithRenderer(renderer *Renderer) Option {
	return func(c *Console) {
		c.renderer = renderer
	}
}

// NewConsole creates a new instance of console.
func NewConsole(client PostsClient, ctx Context, options ...Option) *Console {
	if ctx.Logger == nil {
		ctx.Logger = logs.NewLogger(io.Discard, log.OFF)
	}
	if ctx.Printer == nil {
		ctx.Printer = locale.NewPrinter(language.English)
	}
	c := Console{client: client, context: ctx}
	for _, option := range options {
		option(&c)
	}
	if c.renderer == nil {
		c.renderer = NewRenderer(ctx.Printer)
	}
	return &c
}

// Load fetches all posts and renders them.
//
// On failure the rendered list is left unchanged.
func (c *Console) Load(ctx context.Context) error {
	c.setStatus("Loading posts...")
	posts, err := c.client.ObservePosts(ctx)
	if err != nil {
		c.logError("GET /api/posts", err)
		if isResponseError(err) {
			c.setStatus("Failed to load posts.")
		} else {
			c.setStatus("Error while communicating with server.")
		}
		return err
	}
	if err := c.renderer.Render(c.context.Container, posts, c.bind); err != nil {
		c.context.Logger.Error("Cannot render posts", err)
		return err
	}
	c.context.Status.SetStatus("")
	return nil
}

// Create creates post from form and reloads list.
func (c *Console) Create(ctx context.Context) error {
	title, content := c.context.Form.Values()
	form := api.PostForm{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}
	if form.Title == "" || form.Content == "" {
		c.alert("Please fill in both title and content.")
		return ErrAborted
	}
	c.setStatus("Creating post...")
	if err := c.client.CreatePost(ctx, form); err != nil {
		c.logError("POST /api/posts", err)
		c.alertError(err, "Failed to create post.")
		c.context.Status.SetStatus("")
		return err
	}
	c.context.Form.Clear()
	return c.Load(ctx)
}

// Edit asks for new title and content of post, updates post and
// reloads list.
//
// Blank fields keep current values of post.
func (c *Console) Edit(ctx context.Context, post api.Post) error {
	values, ok := c.context.Dialogs.EditPost(post)
	if !ok {
		return ErrAborted
	}
	form := api.PostForm{
		Title:   strings.TrimSpace(values.Title),
		Content: strings.TrimSpace(values.Content),
	}
	if form.Title == "" {
		form.Title = post.Title
	}
	if form.Content == "" {
		form.Content = post.Content
	}
	c.setStatus("Updating post...")
	if err := c.client.UpdatePost(ctx, post.ID, form); err != nil {
		c.logError(fmt.Sprintf("PUT /api/posts/%d", post.ID), err)
		c.alertError(err, "Failed to update post.")
		c.context.Status.SetStatus("")
		return err
	}
	return c.Load(ctx)
}

// Delete deletes post after confirmation and reloads list.
func (c *Console) Delete(ctx context.Context, id int64) error {
	if !c.context.Dialogs.Confirm(c.context.Printer.Sprintf(
		"Are you sure you want to delete this post?",
	)) {
		return ErrAborted
	}
	c.setStatus("Deleting post...")
	if err := c.client.DeletePost(ctx, id); err != nil {
		c.logError(fmt.Sprintf("DELETE /api/posts/%d", id), err)
		c.alertError(err, "Failed to delete post.")
		c.context.Status.SetStatus("")
		return err
	}
	return c.Load(ctx)
}

func (c *Console) bind(post api.Post) Item {
	return Item{
		Post: post,
		Edit: func(ctx context.Context) error {
			return c.Edit(ctx, post)
		},
		Delete: func(ctx context.Context) error {
			return c.Delete(ctx, post.ID)
		},
	}
}

func (c *Console) setStatus(key string) {
	c.context.Status.SetStatus(c.context.Printer.Sprintf(key))
}

func (c *Console) alert(key string) {
	c.context.Dialogs.Alert(c.context.Printer.Sprintf(key))
}

// alertError shows failure message for unsuccessful response and
// communication message for other errors.
func (c *Console) alertError(err error, key string) {
	if isResponseError(err) {
		c.alert(key)
	} else {
		c.alert("Error while communicating with server.")
	}
}

func (c *Console) logError(endpoint string, err error) {
	var resp *api.ResponseError
	if errors.As(err, &resp) {
		c.context.Logger.Error(
			endpoint+" failed",
			logs.Any("status", resp.Code),
			logs.Any("status_text", resp.StatusText),
		)
		return
	}
	c.context.Logger.Error(endpoint+" error", err)
}

func isResponseError(err error) bool {
	var resp *api.ResponseError
	return errors.As(err, &resp)
}
