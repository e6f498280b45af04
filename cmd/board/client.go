package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/udovin/board/client"
	"github.com/udovin/board/internal/config"
	"github.com/udovin/board/internal/console"
	"github.com/udovin/board/internal/pkg/locale"
	"github.com/udovin/board/internal/pkg/logs"
)

const defaultEndpoint = "http://localhost:5000"

func addClientFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("endpoint", "", "Base URL of posts API")
	cmd.PersistentFlags().String("socket", "", "Path to unix socket of server")
	cmd.PersistentFlags().String("lang", "", "Language of messages (en, ko)")
}

// getClientConfig reads optional config and applies environment and flag
// overrides.
//
// Flags have priority over environment variables.
func getClientConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	flagFilename, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	resolved, err := resolveFile(flagFilename, os.Getenv("BOARD_CONFIG"))
	if err == nil {
		if cfg, err = config.LoadFromFile(resolved); err != nil {
			return config.Config{}, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return config.Config{}, err
	}
	env := config.NewEnv()
	for key, name := range map[string]string{
		"endpoint":    "endpoint",
		"language":    "lang",
		"socket_file": "socket",
	} {
		if err := env.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return config.Config{}, err
		}
	}
	cfg.ApplyEnv(env)
	applySocketFile(&cfg, env)
	return cfg, nil
}

func applySocketFile(cfg *config.Config, env *viper.Viper) {
	if env.IsSet("socket_file") {
		cfg.SocketFile = env.GetString("socket_file")
	}
}

func newClient(cfg config.Config) *client.Client {
	endpoint := defaultEndpoint
	var options []client.ClientOption
	if cfg.Client != nil {
		if cfg.Client.Endpoint != "" {
			endpoint = cfg.Client.Endpoint
		}
		if cfg.Client.Timeout > 0 {
			options = append(options, client.WithTimeout(time.Duration(cfg.Client.Timeout)))
		}
	}
	if cfg.SocketFile != "" {
		options = append(options, client.WithUnixSocket(cfg.SocketFile))
	}
	return client.NewClient(endpoint, options...)
}

func newConsoleCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "console",
		RunE:  consoleMain,
		Short: "Starts interactive posts console",
	}
	addClientFlags(&cmd)
	return &cmd
}

func consoleMain(cmd *cobra.Command, _ []string) error {
	cfg, err := getClientConfig(cmd)
	if err != nil {
		return err
	}
	language := ""
	if cfg.Client != nil {
		language = cfg.Client.Language
	}
	printer := locale.NewPrinter(locale.Parse(language))
	level := log.Lvl(cfg.LogLevel)
	if level == 0 {
		level = log.ERROR
	}
	logger := logs.NewLogger(cmd.ErrOrStderr(), level)
	term := console.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), printer)
	c := console.NewConsole(newClient(cfg), term.Context(logger))
	return term.Run(cmd.Context(), c)
}

type clientContext struct {
	Cmd    *cobra.Command
	Args   []string
	Client *client.Client
}

func wrapClientMain(fn func(*clientContext) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := clientContext{
			Cmd:  cmd,
			Args: args,
		}
		cfg, err := getClientConfig(cmd)
		if err != nil {
			return err
		}
		ctx.Client = newClient(cfg)
		return fn(&ctx)
	}
}

func newClientCmd() *cobra.Command {
	clientCmd := cobra.Command{
		Use:   "client",
		Short: "Calls posts API",
	}
	addClientFlags(&clientCmd)
	listCmd := cobra.Command{
		Use:   "list",
		RunE:  wrapClientMain(listPostsMain),
		Short: "Prints all posts",
	}
	clientCmd.AddCommand(&listCmd)
	createCmd := cobra.Command{
		Use:   "create",
		RunE:  wrapClientMain(createPostMain),
		Short: "Creates post",
	}
	createCmd.Flags().String("title", "", "")
	createCmd.Flags().String("content", "", "")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("content")
	clientCmd.AddCommand(&createCmd)
	updateCmd := cobra.Command{
		Use:   "update",
		RunE:  wrapClientMain(updatePostMain),
		Short: "Updates post",
	}
	updateCmd.Flags().Int64("id", 0, "")
	updateCmd.Flags().String("title", "", "")
	updateCmd.Flags().String("content", "", "")
	_ = updateCmd.MarkFlagRequired("id")
	_ = updateCmd.MarkFlagRequired("title")
	_ = updateCmd.MarkFlagRequired("content")
	clientCmd.AddCommand(&updateCmd)
	deleteCmd := cobra.Command{
		Use:   "delete",
		RunE:  wrapClientMain(deletePostMain),
		Short: "Deletes post",
	}
	deleteCmd.Flags().Int64("id", 0, "")
	_ = deleteCmd.MarkFlagRequired("id")
	clientCmd.AddCommand(&deleteCmd)
	return &clientCmd
}

func listPostsMain(ctx *clientContext) error {
	posts, err := ctx.Client.ObservePosts(ctx.Cmd.Context())
	if err != nil {
		return fmt.Errorf("unable to list posts: %w", err)
	}
	encoder := json.NewEncoder(ctx.Cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(posts)
}

func createPostMain(ctx *clientContext) error {
	form := client.PostForm{
		Title:   must(ctx.Cmd.Flags().GetString("title")),
		Content: must(ctx.Cmd.Flags().GetString("content")),
	}
	if err := ctx.Client.CreatePost(ctx.Cmd.Context(), form); err != nil {
		return fmt.Errorf("unable to create post: %w", err)
	}
	return nil
}

func updatePostMain(ctx *clientContext) error {
	id := must(ctx.Cmd.Flags().GetInt64("id"))
	form := client.PostForm{
		Title:   must(ctx.Cmd.Flags().GetString("title")),
		Content: must(ctx.Cmd.Flags().GetString("content")),
	}
	if err := ctx.Client.UpdatePost(ctx.Cmd.Context(), id, form); err != nil {
		return fmt.Errorf("unable to update post %d: %w", id, err)
	}
	return nil
}

func deletePostMain(ctx *clientContext) error {
	id := must(ctx.Cmd.Flags().GetInt64("id"))
	if err := ctx.Client.DeletePost(ctx.Cmd.Context(), id); err != nil {
		return fmt.Errorf("unable to delete post %d: %w", id, err)
	}
	return nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
