// Command seed fills a development database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"togather/internal/config"
	"togather/internal/database"
	"togather/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	postsPerUser := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	comments := flag.Int("comments", defaults.CommentsPerPost, "Comments per post with accepted participants")
	chats := flag.Int("chats", defaults.Chats, "Number of chats to open")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 uses the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	ctx := context.Background()
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	opts := defaults
	opts.Users = *numUsers
	opts.PostsPerUser = *postsPerUser
	opts.CommentsPerPost = *comments
	opts.Chats = *chats
	opts.RandSeed = *randSeed
	opts.HashCost = cfg.PasswordHashCost

	s := seed.NewSeeder(db, opts)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	summary, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d comments, %d chats", summary.Users, summary.Posts, summary.Comments, summary.Chats)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
