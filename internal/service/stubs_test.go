package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"togather/internal/models"
	"togather/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDriver = errors.New("driver failure")

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn          func(context.Context, *models.User) error
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	findWithDeletedFn func(context.Context, string) (*models.User, error)
	updateFn          func(context.Context, uint, map[string]interface{}) error
	softDeleteFn      func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) FindByEmailIncludingDeleted(ctx context.Context, email string) (*models.User, error) {
	return s.findWithDeletedFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return s.updateFn(ctx, id, updates)
}
func (s *userRepoStub) SoftDelete(ctx context.Context, id uint) error { return s.softDeleteFn(ctx, id) }

func noopUserRepo() *userRepoStub {
	missing := func(_ context.Context, _ string) (*models.User, error) {
		return nil, models.NewNotFoundError("missing")
	}
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Email: "user@example.com", Nickname: "user"}, nil
		},
		getByEmailFn:      missing,
		findWithDeletedFn: missing,
		updateFn:          func(_ context.Context, _ uint, _ map[string]interface{}) error { return nil },
		softDeleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
// withdrawnUserRepo answers every lookup as if the account had been soft deleted.
func withdrawnUserRepo() *userRepoStub {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return nil, models.NewNotFoundError("missing")
	}
	return repo
}

type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, repository.PostFilter) ([]models.Post, int64, error)
	updateFn  func(context.Context, uint, map[string]interface{}) error
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter) ([]models.Post, int64, error) {
	return s.listFn(ctx, f)
}
func (s *postRepoStub) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return s.updateFn(ctx, id, updates)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1}, nil
		},
		listFn: func(_ context.Context, _ repository.PostFilter) ([]models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ uint, _ map[string]interface{}) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// participantRepoStub is a stub for repository.ParticipantRepository.
type participantRepoStub struct {
	createFn           func(context.Context, *models.Participant) error
	getByIDFn          func(context.Context, uint) (*models.Participant, error)
	getByUserAndPostFn func(context.Context, uint, uint) (*models.Participant, error)
	listByPostFn       func(context.Context, uint) ([]models.Participant, error)
	updateStatusFn     func(context.Context, uint, models.ParticipantStatus) error
	deleteByPostFn     func(context.Context, uint) error
}

func (s *participantRepoStub) Create(ctx context.Context, p *models.Participant) error {
	return s.createFn(ctx, p)
}
func (s *participantRepoStub) GetByID(ctx context.Context, id uint) (*models.Participant, error) {
	return s.getByIDFn(ctx, id)
}
func (s *participantRepoStub) GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.Participant, error) {
	return s.getByUserAndPostFn(ctx, userID, postID)
}
func (s *participantRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Participant, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *participantRepoStub) UpdateStatus(ctx context.Context, id uint, status models.ParticipantStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *participantRepoStub) DeleteByPost(ctx context.Context, postID uint) error {
	return s.deleteByPostFn(ctx, postID)
}

func noopParticipantRepo() *participantRepoStub {
	return &participantRepoStub{
		createFn: func(_ context.Context, _ *models.Participant) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Participant, error) {
			return &models.Participant{ID: id, PostID: 1, Status: models.ParticipantPending}, nil
		},
		getByUserAndPostFn: func(_ context.Context, userID, postID uint) (*models.Participant, error) {
			return &models.Participant{UserID: userID, PostID: postID, Status: models.ParticipantAccepted}, nil
		},
		listByPostFn:   func(_ context.Context, _ uint) ([]models.Participant, error) { return nil, nil },
		updateStatusFn: func(_ context.Context, _ uint, _ models.ParticipantStatus) error { return nil },
		deleteByPostFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listPageFn      func(context.Context, uint, uint, int) ([]models.Comment, error)
	updateContentFn func(context.Context, uint, string) error
	deleteFn        func(context.Context, uint) error
	deleteByPostFn  func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListPage(ctx context.Context, postID, beforeID uint, limit int) ([]models.Comment, error) {
	return s.listPageFn(ctx, postID, beforeID, limit)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, id uint, content string) error {
	return s.updateContentFn(ctx, id, content)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *commentRepoStub) DeleteByPost(ctx context.Context, postID uint) error {
	return s.deleteByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, PostID: 1}, nil
		},
		listPageFn:      func(_ context.Context, _, _ uint, _ int) ([]models.Comment, error) { return nil, nil },
		updateContentFn: func(_ context.Context, _ uint, _ string) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		deleteByPostFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// chatRepoStub is a stub for repository.ChatRepository.
type chatRepoStub struct {
	createFn     func(context.Context, *models.Chat) error
	getByIDFn    func(context.Context, uint) (*models.Chat, error)
	findByPairFn func(context.Context, uint, uint) (*models.Chat, error)
	listByUserFn func(context.Context, uint) ([]models.Chat, error)
}

func (s *chatRepoStub) Create(ctx context.Context, c *models.Chat) error { return s.createFn(ctx, c) }
func (s *chatRepoStub) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	return s.getByIDFn(ctx, id)
}
func (s *chatRepoStub) FindByPair(ctx context.Context, a, b uint) (*models.Chat, error) {
	return s.findByPairFn(ctx, a, b)
}
func (s *chatRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	return s.listByUserFn(ctx, userID)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createFn: func(_ context.Context, c *models.Chat) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Chat, error) {
			return &models.Chat{ID: id, FirstID: 1, SecondID: 2}, nil
		},
		findByPairFn: func(_ context.Context, _, _ uint) (*models.Chat, error) {
			return nil, models.NewNotFoundError("missing")
		},
		listByUserFn: func(_ context.Context, _ uint) ([]models.Chat, error) { return nil, nil },
	}
}

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn     func(context.Context, *models.Message) error
	listByChatFn func(context.Context, uint) ([]models.Message, error)
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) ListByChat(ctx context.Context, chatID uint) ([]models.Message, error) {
	return s.listByChatFn(ctx, chatID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:     func(_ context.Context, _ *models.Message) error { return nil },
		listByChatFn: func(_ context.Context, _ uint) ([]models.Message, error) { return nil, nil },
	}
}

// txStub runs the callback inline and counts calls.
type txStub struct {
	calls int
}

func (s *txStub) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.calls++
	return fn(ctx)
}

// hasherStub "hashes" by prefixing the plain text.
type hasherStub struct {
	err error
}

func (h hasherStub) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h hasherStub) Verify(plain, hashed string) bool {
	return strings.TrimPrefix(hashed, "hashed:") == plain && strings.HasPrefix(hashed, "hashed:")
}

type tokenStub struct {
	err error
}

func (s tokenStub) Issue(userID uint, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-user", nil
}

func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}
