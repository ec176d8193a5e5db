// Package seed provides helpers to create demo data for development
// databases and tests.
package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"togather/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the plain password of every seeded user.
const DefaultPassword = "password123"

// PostTypes are the categories seeded posts are drawn from.
var PostTypes = []string{"study", "project", "hobby", "meal", "sports"}

// Factory builds domain entities with fake content and persists them.
type Factory struct {
	db       *gorm.DB
	fake     *gofakeit.Faker
	password string
	maxDays  int
	seq      int
}

// NewFactory creates a Factory bound to db. passwordHash is stored on every
// user it creates. A zero seed draws from the clock.
func NewFactory(db *gorm.DB, seed int64, passwordHash string, maxDays int) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		db:       db,
		fake:     gofakeit.New(seed),
		password: passwordHash,
		maxDays:  maxDays,
	}
}

// pastTime returns a moment within the last maxDays days.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.fake.Number(0, f.maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// BuildUser returns an unsaved user. Emails carry a per-factory sequence
// number so they never collide within one run.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.seq++
	nickname := truncateRunes(f.fake.Username()+fmt.Sprintf("%d", f.fake.Number(100, 999)), 50)
	user := &models.User{
		Email:       strings.ToLower(fmt.Sprintf("%s.%d@%s", f.fake.FirstName(), f.seq, f.fake.DomainName())),
		Password:    f.password,
		Nickname:    nickname,
		Description: f.fake.Sentence(10),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser persists a user built by BuildUser.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post by author with a realistic created_at spread.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	createdAt := f.pastTime()
	post := &models.Post{
		UserID:    author.ID,
		Type:      f.fake.RandomString(PostTypes),
		Title:     truncateRunes(f.fake.Sentence(5), 200),
		Content:   f.fake.Paragraph(1, 3, 8, "\n"),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost persists a post built by BuildPost.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists posts in a single statement.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateParticipant records user's application to post with the given status.
func (f *Factory) CreateParticipant(user *models.User, post *models.Post, status models.ParticipantStatus) (*models.Participant, error) {
	participant := &models.Participant{
		UserID: user.ID,
		PostID: post.ID,
		Status: status,
	}
	if err := f.db.Create(participant).Error; err != nil {
		return nil, err
	}
	return participant, nil
}

// CreateComment persists a comment by user on post, dated after the post.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	createdAt := post.CreatedAt.Add(time.Duration(f.fake.Number(1, 72*60)) * time.Minute)
	if createdAt.After(time.Now()) {
		createdAt = time.Now()
	}
	comment := &models.Comment{
		UserID:    user.ID,
		PostID:    post.ID,
		Content:   truncateRunes(f.fake.Sentence(8), models.MaxCommentLength),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateChat persists the chat between a and b.
func (f *Factory) CreateChat(a, b *models.User) (*models.Chat, error) {
	first, second := models.OrderedPair(a.ID, b.ID)
	chat := &models.Chat{FirstID: first, SecondID: second}
	if err := f.db.Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

// CreateMessage persists a message from sender in chat.
func (f *Factory) CreateMessage(chat *models.Chat, sender *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	message := &models.Message{
		ChatID:  chat.ID,
		UserID:  sender.ID,
		Content: f.fake.Sentence(10),
	}
	for _, override := range overrides {
		override(message)
	}
	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}
