package main

import (
	"bufio"
	"fmt"
	"strings"

	"yatube/internal/cache"
	"yatube/internal/database"
	"yatube/internal/forms"
	"yatube/internal/repository"
	"yatube/internal/seed"
	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var (
	seedUsers int
	seedPosts int
	seedClean bool
	seedValue int64

	createFirstName string
	createLastName  string
	createEmail     string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load default groups and generate demo users and posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.Close(db)
		cache.InitRedis(cfg.RedisURL)

		s := seed.NewSeeder(db, seed.Options{Users: seedUsers, Posts: seedPosts, Seed: seedValue})
		if seedClean {
			if err := s.ClearAll(ctx); err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}
		}
		res, err := s.Run(ctx)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		cmd.Printf("groups: %d created, %d updated\n", res.Groups.Created, res.Groups.Updated)
		cmd.Printf("users: %d, posts: %d\n", len(res.Users), res.Posts)
		cmd.Printf("all generated users have the password %q\n", seed.DefaultPassword)
		return nil
	},
}

var loaddataCmd = &cobra.Command{
	Use:   "loaddata <file.yml>",
	Short: "Create or update groups from a YAML fixture file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fx, err := seed.ReadFixturesFile(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.Close(db)
		cache.InitRedis(cfg.RedisURL)

		res, err := seed.ApplyFixtures(ctx, repository.NewGroupRepository(db), fx)
		if err != nil {
			return err
		}
		cmd.Printf("groups: %d created, %d updated\n", res.Created, res.Updated)
		return nil
	},
}

var createuserCmd = &cobra.Command{
	Use:   "createuser <username>",
	Short: "Create a user, reading the password from stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Print("Password: ")
		password, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && password == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(password, "\r\n")

		ctx, cancel := commandContext(cmd)
		defer cancel()
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.Close(db)

		users := service.NewUserService(repository.NewUserRepository(db))
		user, err := users.Signup(ctx, forms.SignupInput{
			FirstName: createFirstName,
			LastName:  createLastName,
			Username:  args[0],
			Email:     createEmail,
			Password:  password,
		})
		if err != nil {
			return err
		}
		cmd.Printf("created user %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedUsers, "users", 10, "Number of users to create")
	seedCmd.Flags().IntVar(&seedPosts, "posts", 50, "Number of posts to create")
	seedCmd.Flags().BoolVar(&seedClean, "clean", false, "Delete all posts, users and groups first")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed for reproducible data")

	createuserCmd.Flags().StringVar(&createFirstName, "first-name", "", "First name")
	createuserCmd.Flags().StringVar(&createLastName, "last-name", "", "Last name")
	createuserCmd.Flags().StringVar(&createEmail, "email", "", "Email address")
}
