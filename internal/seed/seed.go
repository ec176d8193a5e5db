package seed

import (
	"context"
	"fmt"
	"log/slog"

	"togather/internal/middleware"
	"togather/internal/models"
	"togather/internal/security"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Users           int
	PostsPerUser    int
	ApplicantsPer   int
	CommentsPerPost int
	Chats           int
	MessagesPerChat int
	// HashCost is the bcrypt cost for DefaultPassword. Zero uses bcrypt.DefaultCost.
	HashCost int
	// RandSeed makes runs reproducible when non-zero.
	RandSeed int64
	MaxDays  int
}

// DefaultOptions is a small but connected data set.
func DefaultOptions() Options {
	return Options{
		Users:           20,
		PostsPerUser:    3,
		ApplicantsPer:   4,
		CommentsPerPost: 6,
		Chats:           10,
		MessagesPerChat: 8,
		MaxDays:         60,
	}
}

// Summary counts what a run created.
type Summary struct {
	Users        int
	Posts        int
	Participants int
	Comments     int
	Chats        int
	Messages     int
}

// Seeder populates a database with connected demo data.
type Seeder struct {
	db   *gorm.DB
	opts Options
}

// NewSeeder creates a Seeder for db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts}
}

// ClearAll removes every row the seeder can create, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []interface{}{
		&models.Message{},
		&models.Chat{},
		&models.Comment{},
		&models.Participant{},
		&models.Post{},
		&models.User{},
	}
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
	for _, table := range tables {
		if err := db.Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "seed data cleared")
	return nil
}

// Run creates users, their posts with applicants and comments, and chats
// between random pairs of users. Everything is written in one transaction.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	hash, err := security.NewPasswordHasher(s.opts.HashCost).Hash(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	summary := &Summary{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f := NewFactory(tx, s.opts.RandSeed, hash, s.opts.MaxDays)

		users, err := s.seedUsers(f, summary)
		if err != nil {
			return err
		}
		if err := s.seedPosts(f, users, summary); err != nil {
			return err
		}
		return s.seedChats(f, users, summary)
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "seeding completed",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("participants", summary.Participants),
		slog.Int("comments", summary.Comments),
		slog.Int("chats", summary.Chats),
		slog.Int("messages", summary.Messages),
	)
	return summary, nil
}

func (s *Seeder) seedUsers(f *Factory, summary *Summary) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	summary.Users = len(users)
	return users, nil
}

func (s *Seeder) seedPosts(f *Factory, users []*models.User, summary *Summary) error {
	if len(users) == 0 {
		return nil
	}
	posts := make([]*models.Post, 0, len(users)*s.opts.PostsPerUser)
	for _, author := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			posts = append(posts, f.BuildPost(author))
		}
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	summary.Posts = len(posts)

	for _, post := range posts {
		accepted := make([]*models.User, 0, s.opts.ApplicantsPer)
		for _, applicant := range f.pickOthers(users, post.UserID, s.opts.ApplicantsPer) {
			status := f.pickStatus()
			if _, err := f.CreateParticipant(applicant, post, status); err != nil {
				return fmt.Errorf("create participant: %w", err)
			}
			summary.Participants++
			if status == models.ParticipantAccepted {
				accepted = append(accepted, applicant)
			}
		}
		if len(accepted) == 0 {
			continue
		}
		for i := 0; i < s.opts.CommentsPerPost; i++ {
			author := accepted[f.fake.Number(0, len(accepted)-1)]
			if _, err := f.CreateComment(author, post); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
			summary.Comments++
		}
	}
	return nil
}

func (s *Seeder) seedChats(f *Factory, users []*models.User, summary *Summary) error {
	if len(users) < 2 {
		return nil
	}
	seen := make(map[[2]uint]bool)
	attempts := 0
	for summary.Chats < s.opts.Chats && attempts < s.opts.Chats*4 {
		attempts++
		a := users[f.fake.Number(0, len(users)-1)]
		b := users[f.fake.Number(0, len(users)-1)]
		if a.ID == b.ID {
			continue
		}
		first, second := models.OrderedPair(a.ID, b.ID)
		if seen[[2]uint{first, second}] {
			continue
		}
		seen[[2]uint{first, second}] = true

		chat, err := f.CreateChat(a, b)
		if err != nil {
			return fmt.Errorf("create chat: %w", err)
		}
		summary.Chats++

		for i := 0; i < s.opts.MessagesPerChat; i++ {
			sender := a
			if i%2 == 1 {
				sender = b
			}
			if _, err := f.CreateMessage(chat, sender); err != nil {
				return fmt.Errorf("create message: %w", err)
			}
			summary.Messages++
		}
	}
	return nil
}

// pickOthers returns up to n distinct users other than excludeID.
func (f *Factory) pickOthers(users []*models.User, excludeID uint, n int) []*models.User {
	candidates := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.ID != excludeID {
			candidates = append(candidates, u)
		}
	}
	f.fake.Rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// pickStatus favours accepted applications so most posts get a discussion.
func (f *Factory) pickStatus() models.ParticipantStatus {
	switch roll := f.fake.Number(1, 10); {
	case roll <= 6:
		return models.ParticipantAccepted
	case roll <= 8:
		return models.ParticipantPending
	default:
		return models.ParticipantRejected
	}
}
