package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blogosphere/internal/database"
	"blogosphere/internal/repository"
	"blogosphere/internal/seed"
	"blogosphere/internal/transport/http"
)

var (
	// Fabricate flags
	fabricatePosts int
	fabricateSeed  int64
)

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return http.Run()
	},
}

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

// fabricateCmd creates fake content for local development
var fabricateCmd = &cobra.Command{
	Use:   "fabricate",
	Short: "Create fake users, posts, comments, follows and favourites",
	Long: `Create fake content for local development.

The test account test@example.com (password "test") is created first if it
does not exist. Everything created here is removed by clear-fabricated.

Examples:
  blogctl fabricate --posts 50
  blogctl fabricate --posts 10 --seed 42   # reproducible content`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if fabricatePosts < 0 {
			return fmt.Errorf("--posts must not be negative")
		}

		ctx := cmd.Context()
		_, db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		summary, err := seed.NewFabricator(db, fabricateSeed).Fabricate(ctx, fabricatePosts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d users, %d posts, %d comments, %d follows, %d favourites\n",
			summary.Users, summary.Posts, summary.Comments, summary.Follows, summary.Favourites)
		return nil
	},
}

// clearFabricatedCmd removes fabricated content
var clearFabricatedCmd = &cobra.Command{
	Use:   "clear-fabricated",
	Short: "Delete every fabricated user and their content",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := seed.NewFabricator(db, 0).Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d fabricated users\n", n)
		return nil
	},
}

// flushTokensCmd prunes the Postgres token blacklist
var flushTokensCmd = &cobra.Command{
	Use:   "flush-expired-tokens",
	Short: "Delete blacklisted tokens that have expired",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := repository.NewTokenBlacklistRepository(db).DeleteExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired tokens\n", n)
		return nil
	},
}

func init() {
	fabricateCmd.Flags().IntVar(&fabricatePosts, "posts", 10, "Number of fake users, each with one post")
	fabricateCmd.Flags().Int64Var(&fabricateSeed, "seed", 0, "Random seed (0 picks one)")
}
