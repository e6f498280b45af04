package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/nsf/jsondiff"

	"github.com/udovin/board/internal/config"
	"github.com/udovin/board/internal/core"
	"github.com/udovin/board/internal/db"
	"github.com/udovin/board/internal/migrations"
)

type TestEnv struct {
	tb     testing.TB
	Core   *core.Core
	Server *httptest.Server
	Client *Client
}

func NewTestEnv(tb testing.TB) *TestEnv {
	env := TestEnv{tb: tb}
	cfg := config.Config{
		DB: config.DB{
			Options: config.SQLiteOptions{Path: ":memory:"},
		},
		LogLevel: config.LogLevel(log.OFF),
	}
	c, err := core.NewCore(cfg)
	if err != nil {
		tb.Fatal("Error:", err)
	}
	env.Core = c
	c.SetupAllStores()
	if err := db.ApplyMigrations(context.Background(), c.DB, migrations.Schema); err != nil {
		_ = c.Close()
		tb.Fatal("Error:", err)
	}
	if err := c.Start(); err != nil {
		_ = c.Close()
		tb.Fatal("Error:", err)
	}
	e := echo.New()
	e.Logger = c.Logger()
	NewView(c).Register(e)
	env.Server = httptest.NewServer(e)
	env.Client = NewClient(env.Server.URL)
	return &env
}

func (e *TestEnv) Close() {
	e.Server.Close()
	_ = e.Core.Close()
}

// Check compares JSON representation of value with expected JSON.
func (e *TestEnv) Check(value any, expected string) {
	data, err := json.Marshal(value)
	if err != nil {
		e.tb.Fatal("Error:", err)
	}
	options := jsondiff.DefaultConsoleOptions()
	diff, report := jsondiff.Compare([]byte(expected), data, &options)
	if diff != jsondiff.FullMatch {
		e.tb.Fatalf("Unexpected JSON:\n%s", report)
	}
}
