package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/platform/postgres"
	"github.com/phrazzld/lingua-bot/internal/service/auth"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:           "lingua-bot",
		Short:         "Vocabulary trainer backend for the chat bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(serve, newMigrateCommand(opts), newTokenCommand(opts))
	return root
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and background workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, err := bootstrap(opts.configPath)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(ctx, cfg, log)
			if err != nil {
				return err
			}
			if err := postgres.Migrate(ctx, db, "up", log); err != nil {
				_ = db.Close()
				return err
			}

			app, err := newApplication(ctx, cfg, log, db)
			if err != nil {
				_ = db.Close()
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run(ctx)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(opts.configPath)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return postgres.Migrate(cmd.Context(), db, args[0], log)
		},
	}
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var (
		userID string
		chatID string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token binding a user to a chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(opts.configPath)
			if err != nil {
				return err
			}
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			tokens, err := auth.NewTokenService(cfg.Auth, log)
			if err != nil {
				return err
			}
			token, err := issueToken(cmd.Context(), tokens, uid, chatID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID")
	cmd.Flags().StringVar(&chatID, "chat", "", "chat ID the token is bound to")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("chat")
	return cmd
}

func issueToken(ctx context.Context, tokens auth.TokenService, userID uuid.UUID, chatID string) (string, error) {
	token, err := tokens.IssueToken(ctx, userID, chatID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	slog.Debug("token issued", slog.String("user_id", userID.String()), slog.String("chat_id", chatID))
	return token, nil
}
