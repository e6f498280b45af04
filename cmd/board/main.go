package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/udovin/board/internal/api"
	"github.com/udovin/board/internal/config"
	"github.com/udovin/board/internal/core"
	"github.com/udovin/board/internal/db"
	"github.com/udovin/board/internal/migrations"
	"github.com/udovin/board/internal/pkg/logs"
)

var testCtx, testCancel = context.WithCancel(context.Background())

func resolveFile(files ...string) (string, error) {
	for _, file := range files {
		if len(file) == 0 {
			continue
		}
		if _, err := os.Stat(file); err == nil {
			return file, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", os.ErrNotExist
}

// getConfig reads config with filename from '--config' flag and applies
// environment overrides.
func getConfig(cmd *cobra.Command) (config.Config, error) {
	flagFilename, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	envFilename := os.Getenv("BOARD_CONFIG")
	resolved, err := resolveFile(flagFilename, envFilename)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.LoadFromFile(resolved)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv(config.NewEnv())
	return cfg, nil
}

func isServerError(err error) bool {
	return err != nil && err != http.ErrServerClosed
}

func newServer(logger *logs.Logger) *echo.Echo {
	srv := echo.New()
	srv.Logger = logger
	srv.HideBanner, srv.HidePort = true, true
	srv.Pre(middleware.RemoveTrailingSlash())
	srv.Use(middleware.Recover(), middleware.Gzip())
	return srv
}

// serverMain starts board server.
//
// Simply speaking this function does following things:
//  1. Setup Core instance (with all stores).
//  2. Setup Echo server instance (HTTP + unix socket).
//  3. Register API View to Echo server.
func serverMain(cmd *cobra.Command, _ []string) {
	cfg, err := getConfig(cmd)
	if err != nil {
		panic(err)
	}
	if cfg.Server == nil && cfg.SocketFile == "" {
		panic("section 'server' or 'socket_file' should be configured")
	}
	c, err := core.NewCore(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = c.Close() }()
	c.SetupAllStores()
	if err := c.Start(); err != nil {
		panic(err)
	}
	v := api.NewView(c)
	var waiter sync.WaitGroup
	defer waiter.Wait()
	ctx, cancel := signal.NotifyContext(
		testCtx, os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()
	if file := cfg.SocketFile; file != "" {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			panic(err)
		}
		srv := newServer(c.Logger())
		if srv.Listener, err = net.Listen("unix", file); err != nil {
			panic(err)
		}
		v.Register(srv)
		waiter.Add(1)
		go func() {
			defer waiter.Done()
			defer cancel()
			if err := srv.Start(""); isServerError(err) {
				c.Logger().Error(err)
			}
		}()
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				c.Logger().Error(err)
			}
		}()
	}
	if cfg.Server != nil {
		srv := newServer(c.Logger())
		v.Register(srv)
		waiter.Add(1)
		go func() {
			defer waiter.Done()
			defer cancel()
			c.Logger().Info("Starting server", logs.Any("address", cfg.Server.Address()))
			if err := srv.Start(cfg.Server.Address()); isServerError(err) {
				c.Logger().Error(err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(
				context.Background(), time.Minute,
			)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				c.Logger().Error(err)
			}
		}()
	}
	<-ctx.Done()
}

func migrateMain(cmd *cobra.Command, _ []string) {
	zero, err := cmd.Flags().GetBool("zero")
	if err != nil {
		panic(err)
	}
	cfg, err := getConfig(cmd)
	if err != nil {
		panic(err)
	}
	c, err := core.NewCore(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = c.Close() }()
	var options []db.MigrateOption
	if zero {
		options = append(options, db.WithZeroMigration)
	}
	if err := db.ApplyMigrations(
		context.Background(), c.DB, migrations.Schema, options...,
	); err != nil {
		panic(err)
	}
}

func versionMain(cmd *cobra.Command, _ []string) {
	fmt.Fprintln(cmd.OutOrStdout(), "board version:", config.Version)
}

// main is a main entry point.
//
// Board consists of posts API server and console that manages posts
// through that API. Server is started by 'server' command, console is
// started by 'console' command. Database schema is managed by 'migrate'.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := cobra.Command{Use: os.Args[0]}
	rootCmd.PersistentFlags().String("config", "config.json", "")
	rootCmd.AddCommand(&cobra.Command{
		Use:   "server",
		Run:   serverMain,
		Short: "Starts API server",
	})
	migrateCmd := cobra.Command{
		Use:   "migrate",
		Run:   migrateMain,
		Short: "Applies migrations to database",
	}
	migrateCmd.Flags().Bool("zero", false, "Reverse all applied migrations")
	rootCmd.AddCommand(&migrateCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Run:   versionMain,
		Short: "Prints information about version",
	})
	rootCmd.AddCommand(newConsoleCmd())
	rootCmd.AddCommand(newClientCmd())
	return &rootCmd
}
