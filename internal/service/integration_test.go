package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"togather/internal/database"
	"togather/internal/models"
	"togather/internal/repository"
	"togather/internal/security"
	"togather/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stack struct {
	db           *gorm.DB
	tokens       *security.TokenIssuer
	users        *UserService
	posts        *PostService
	participants *ParticipantService
	comments     *CommentService
	chats        *ChatService
	messages     *MessageService
}

func newStack(t *testing.T, commentPageSize int) *stack {
	t.Helper()
	db := testutil.NewTestDB(t)
	tx := database.NewTransactor(db)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	tokens := security.NewTokenIssuer("integration-secret", time.Hour)

	return &stack{
		db:           db,
		tokens:       tokens,
		users:        NewUserService(userRepo, tx, security.NewPasswordHasher(bcrypt.MinCost), tokens),
		posts:        NewPostService(postRepo, userRepo, participantRepo, commentRepo, tx),
		participants: NewParticipantService(participantRepo, postRepo, userRepo, tx),
		comments:     NewCommentService(commentRepo, participantRepo, postRepo, userRepo, commentPageSize),
		chats:        NewChatService(chatRepo, userRepo, tx),
		messages:     NewMessageService(messageRepo, chatRepo, userRepo),
	}
}

func (s *stack) register(t *testing.T, email string) uint {
	t.Helper()
	res, err := s.users.CreateUser(context.Background(), CreateUserInput{
		Email:    email,
		Password: "password1",
		Nickname: email,
	})
	require.NoError(t, err)
	return res.UserID
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Unscoped().Model(model).Count(&n).Error)
	return n
}

func TestIntegration_AccountLifecycle(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()

	id := s.register(t, "member@example.com")

	_, err := s.users.CreateUser(ctx, CreateUserInput{Email: "member@example.com", Password: "password2", Nickname: "again"})
	assertAppError(t, err, models.CodeConflict, msgEmailInUse)
	assert.Equal(t, int64(1), countRows(t, s.db, &models.User{}))

	login, err := s.users.Authenticate(ctx, "member@example.com", "password1")
	require.NoError(t, err)
	claims, err := s.tokens.Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)

	_, err = s.users.Authenticate(ctx, "member@example.com", "wrong-password")
	assertAppError(t, err, models.CodeUnauthorized, msgPasswordInvalid)

	_, err = s.users.DeleteUser(ctx, id)
	require.NoError(t, err)
	_, err = s.users.DeleteUser(ctx, id)
	assertAppError(t, err, models.CodeConflict, msgUserMissing)

	_, err = s.users.Authenticate(ctx, "member@example.com", "password1")
	assertAppError(t, err, models.CodeBadRequest, msgWithdrawnUser)

	_, err = s.users.GetSessionUser(ctx, id)
	assertAppError(t, err, models.CodeConflict, msgSessionMissing)

	// The withdrawn row stays, and the address can be registered again.
	assert.Equal(t, int64(1), countRows(t, s.db, &models.User{}))
	newID := s.register(t, "member@example.com")
	assert.NotEqual(t, id, newID)

	login, err = s.users.Authenticate(ctx, "member@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, newID, login.UserID)
}

func TestIntegration_EmailsDifferingInCaseAreDistinctAccounts(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()

	lower := s.register(t, "alice@example.com")
	upper := s.register(t, "Alice@example.com")
	assert.NotEqual(t, lower, upper)
	assert.Equal(t, int64(2), countRows(t, s.db, &models.User{}))

	login, err := s.users.Authenticate(ctx, "Alice@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, upper, login.UserID)

	_, err = s.users.Authenticate(ctx, "ALICE@EXAMPLE.COM", "password1")
	assertAppError(t, err, models.CodeNotFound, msgUnknownEmail)

	// Surrounding blanks are not part of the address.
	login, err = s.users.Authenticate(ctx, "  alice@example.com ", "password1")
	require.NoError(t, err)
	assert.Equal(t, lower, login.UserID)
}

func TestIntegration_WithdrawnTokenHolderIsRefused(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()

	host := s.register(t, "host@example.com")
	member := s.register(t, "member@example.com")
	post, err := s.posts.CreatePost(ctx, host, CreatePostInput{Type: "study", Title: "t", Content: "c"})
	require.NoError(t, err)
	testutil.CreateParticipant(t, s.db, member, post.PostID, models.ParticipantAccepted)
	_, err = s.comments.CreateComment(ctx, member, post.PostID, "before leaving")
	require.NoError(t, err)
	chat, err := s.chats.OpenChat(ctx, member, host)
	require.NoError(t, err)

	_, err = s.users.DeleteUser(ctx, member)
	require.NoError(t, err)

	_, err = s.comments.CreateComment(ctx, member, post.PostID, "after leaving")
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)
	_, err = s.comments.ListComments(ctx, member, post.PostID, 0)
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)
	_, err = s.messages.CreateMessage(ctx, member, chat.Chat.ID, "hello")
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)
	_, err = s.messages.ListMessages(ctx, member, chat.Chat.ID)
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)
	_, err = s.chats.ListChats(ctx, member)
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)

	other, err := s.posts.CreatePost(ctx, host, CreatePostInput{Type: "meal", Title: "t", Content: "c"})
	require.NoError(t, err)
	_, err = s.participants.Apply(ctx, member, other.PostID)
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)

	assert.Equal(t, int64(1), countRows(t, s.db, &models.Comment{}))
	assert.Zero(t, countRows(t, s.db, &models.Message{}))
	assert.Equal(t, int64(1), countRows(t, s.db, &models.Participant{}))

	// A withdrawn author loses control of the post and its applications.
	applicant := s.register(t, "applicant@example.com")
	applied, err := s.participants.Apply(ctx, applicant, other.PostID)
	require.NoError(t, err)
	_, err = s.users.DeleteUser(ctx, host)
	require.NoError(t, err)

	_, err = s.participants.Decide(ctx, host, applied.Participant.ID, models.ParticipantAccepted)
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)
	_, err = s.participants.ListByPost(ctx, host, other.PostID)
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)
	_, err = s.posts.DeletePost(ctx, host, other.PostID)
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)
}

func TestIntegration_UpdateUserRehashesPassword(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()
	id := s.register(t, "rename@example.com")

	nickname := "renamed"
	password := "password-two"
	res, err := s.users.UpdateUser(ctx, id, UpdateUserInput{Nickname: &nickname, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "renamed", res.Nickname)

	_, err = s.users.Authenticate(ctx, "rename@example.com", "password1")
	assertAppError(t, err, models.CodeUnauthorized, msgPasswordInvalid)
	_, err = s.users.Authenticate(ctx, "rename@example.com", "password-two")
	require.NoError(t, err)
}

func TestIntegration_ListPostsPaging(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()
	author := s.register(t, "writer@example.com")

	for i := 0; i < 25; i++ {
		postType := "study"
		if i%5 == 0 {
			postType = "project"
		}
		_, err := s.posts.CreatePost(ctx, author, CreatePostInput{Type: postType, Title: fmt.Sprintf("post %d", i), Content: "body"})
		require.NoError(t, err)
	}

	page, err := s.posts.ListPosts(ctx, ListPostsInput{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Len(t, page.Posts, 10)
	assert.Equal(t, "writer@example.com", page.Posts[0].AuthorNickname)

	filtered, err := s.posts.ListPosts(ctx, ListPostsInput{Page: 1, PerPage: 10, Type: "project"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), filtered.Total)
	assert.Len(t, filtered.Posts, 5)

	_, err = s.posts.CreatePost(ctx, 999, CreatePostInput{Type: "study", Title: "t", Content: "c"})
	assertAppError(t, err, models.CodeUnauthorized, msgInvalidToken)
}

func TestIntegration_CommentAccessAndCursorWalk(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()

	author := s.register(t, "host@example.com")
	guest := s.register(t, "guest@example.com")
	post, err := s.posts.CreatePost(ctx, author, CreatePostInput{Type: "study", Title: "Go study", Content: "weekly"})
	require.NoError(t, err)

	_, err = s.comments.CreateComment(ctx, guest, post.PostID, "hello")
	assertAppError(t, err, models.CodeNotFound, msgApplicationMissing)

	applied, err := s.participants.Apply(ctx, guest, post.PostID)
	require.NoError(t, err)
	_, err = s.comments.CreateComment(ctx, guest, post.PostID, "hello")
	assertAppError(t, err, models.CodeUnauthorized, msgNotAccepted)

	_, err = s.participants.Decide(ctx, guest, applied.Participant.ID, models.ParticipantAccepted)
	assertAppError(t, err, models.CodeUnauthorized, msgNotPostOwner)
	_, err = s.participants.Decide(ctx, author, applied.Participant.ID, models.ParticipantAccepted)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		_, err := s.comments.CreateComment(ctx, guest, post.PostID, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
	}

	var (
		cursor int64
		seen   []uint
		pages  int
	)
	for {
		page, err := s.comments.ListComments(ctx, guest, post.PostID, cursor)
		require.NoError(t, err)
		if page.Status == models.PageStatusExhausted {
			assert.Equal(t, MsgCommentsExhausted, page.Message)
			break
		}
		pages++
		for _, c := range page.Comments {
			seen = append(seen, c.ID)
		}
		cursor = page.NextCursor
		require.Less(t, pages, 10, "cursor walk did not terminate")
	}

	assert.Equal(t, 3, pages)
	require.Len(t, seen, 25)
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i-1], seen[i], "comments must be newest first")
	}
}

func TestIntegration_DeletePostRemovesDiscussion(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()

	author := s.register(t, "owner@example.com")
	guest := s.register(t, "visitor@example.com")
	post, err := s.posts.CreatePost(ctx, author, CreatePostInput{Type: "study", Title: "t", Content: "c"})
	require.NoError(t, err)
	testutil.CreateParticipant(t, s.db, guest, post.PostID, models.ParticipantAccepted)
	_, err = s.comments.CreateComment(ctx, guest, post.PostID, "hi")
	require.NoError(t, err)

	_, err = s.posts.DeletePost(ctx, guest, post.PostID)
	assertAppError(t, err, models.CodeUnauthorized, msgNotPostAuthor)

	_, err = s.posts.DeletePost(ctx, author, post.PostID)
	require.NoError(t, err)
	assert.Zero(t, countRows(t, s.db, &models.Comment{}))
	assert.Zero(t, countRows(t, s.db, &models.Participant{}))

	_, err = s.posts.GetPost(ctx, post.PostID)
	assertAppError(t, err, models.CodeNotFound, "")
}

func TestIntegration_ChatMembership(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()

	a := s.register(t, "a@example.com")
	b := s.register(t, "b@example.com")
	outsider := s.register(t, "c@example.com")

	opened, err := s.chats.OpenChat(ctx, b, a)
	require.NoError(t, err)
	reopened, err := s.chats.OpenChat(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, opened.Chat.ID, reopened.Chat.ID)

	_, err = s.messages.ListMessages(ctx, a, opened.Chat.ID)
	assertAppError(t, err, models.CodeNotFound, msgChatEmpty)

	_, err = s.messages.CreateMessage(ctx, outsider, opened.Chat.ID, "let me in")
	assertAppError(t, err, models.CodeConflict, msgNotChatParty)
	assert.Zero(t, countRows(t, s.db, &models.Message{}))

	_, err = s.messages.CreateMessage(ctx, a, opened.Chat.ID, "first")
	require.NoError(t, err)
	_, err = s.messages.CreateMessage(ctx, b, opened.Chat.ID, "second")
	require.NoError(t, err)

	history, err := s.messages.ListMessages(ctx, b, opened.Chat.ID)
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "first", history.Messages[0].Content)

	_, err = s.messages.ListMessages(ctx, outsider, opened.Chat.ID)
	assertAppError(t, err, models.CodeConflict, msgNotChatParty)

	_, err = s.users.DeleteUser(ctx, outsider)
	require.NoError(t, err)
	_, err = s.chats.OpenChat(ctx, a, outsider)
	assertAppError(t, err, models.CodeNotFound, msgChatPartyMissing)
}

func TestIntegration_TransactionRollsBackOnFailure(t *testing.T) {
	s := newStack(t, 10)
	ctx := context.Background()
	tx := database.NewTransactor(s.db)
	userRepo := repository.NewUserRepository(s.db)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, userRepo.Create(ctx, &models.User{Email: "ghost@example.com", Password: "x", Nickname: "ghost"}))
		return errDriver
	})
	assert.ErrorIs(t, err, errDriver)

	_, err = userRepo.GetByEmail(ctx, "ghost@example.com")
	assert.True(t, models.IsKind(err, models.CodeNotFound))
}
