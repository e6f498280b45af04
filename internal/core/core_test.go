package core

import (
	"context"
	"testing"

	"github.com/udovin/board/internal/config"
	"github.com/udovin/board/internal/db"
	"github.com/udovin/board/internal/migrations"
)

var testCfg = config.Config{
	DB: config.DB{
		Options: config.SQLiteOptions{Path: ":memory:"},
	},
}

func TestNewCore(t *testing.T) {
	c, err := NewCore(testCfg)
	if err != nil {
		t.Fatal("Error:", err)
	}
	defer func() { _ = c.Close() }()
	c.SetupAllStores()
	if err := db.ApplyMigrations(context.Background(), c.DB, migrations.Schema); err != nil {
		t.Fatal("Error:", err)
	}
	if err := c.Start(); err != nil {
		t.Fatal("Error:", err)
	}
	if c.Context() == nil {
		t.Fatal("Expected context")
	}
	// Check that we can not start core twice.
	if err := c.Start(); err == nil {
		t.Fatal("Expected error")
	}
	c.Stop()
	// Check that we can stop core twice without no side effects.
	c.Stop()
	if _, err := c.Posts.All(context.Background()); err != nil {
		t.Fatal("Error:", err)
	}
}

func TestNewCore_Failure(t *testing.T) {
	var cfg config.Config
	if _, err := NewCore(cfg); err == nil {
		t.Fatal("Expected error while creating core")
	}
}
