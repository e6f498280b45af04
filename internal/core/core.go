// Package core manages resources shared by board server commands.
package core

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/gommon/log"

	"github.com/udovin/board/internal/config"
	"github.com/udovin/board/internal/db"
	"github.com/udovin/board/internal/models"
	"github.com/udovin/board/internal/pkg/logs"
)

// Core manages all available resources.
type Core struct {
	// Config contains config.
	Config config.Config
	// Posts contains post store.
	Posts *models.PostStore
	// DB stores database connection.
	DB *db.DB
	//
	context context.Context
	cancel  context.CancelFunc
	// logger contains logger.
	logger *logs.Logger
}

// NewCore creates core instance from config.
func NewCore(cfg config.Config) (*Core, error) {
	conn, err := cfg.DB.Create()
	if err != nil {
		return nil, err
	}
	level := log.Lvl(cfg.LogLevel)
	if level == 0 {
		level = log.INFO
	}
	logger := logs.NewLogger(os.Stdout, level)
	return &Core{Config: cfg, DB: conn, logger: logger}, nil
}

// Logger returns logger instance.
func (c *Core) Logger() *logs.Logger {
	return c.logger
}

// SetupAllStores prepares all stores.
func (c *Core) SetupAllStores() {
	c.Posts = models.NewPostStore(c.DB, "board_post")
}

// Start checks database connection and marks core as started.
func (c *Core) Start() error {
	if c.cancel != nil {
		return fmt.Errorf("core already started")
	}
	c.Logger().Debug("Starting core")
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.DB.PingContext(ctx); err != nil {
		cancel()
		return err
	}
	c.context, c.cancel = ctx, cancel
	c.Logger().Debug("Core started")
	return nil
}

// Stop stops core.
func (c *Core) Stop() {
	if c.cancel == nil {
		return
	}
	c.Logger().Debug("Stopping core")
	defer c.Logger().Debug("Core stopped")
	c.cancel()
	c.context, c.cancel = nil, nil
}

// Context returns context that is canceled when core stops.
func (c *Core) Context() context.Context {
	return c.context
}

// Close closes database connection.
func (c *Core) Close() error {
	c.Stop()
	return c.DB.Close()
}
