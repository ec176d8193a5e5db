package service

import (
	"context"
	"strings"

	"togather/internal/models"
	"togather/internal/repository"
)

const (
	msgNotChatParty   = "현재 채팅방에 속해있지 않습니다."
	msgChatEmpty      = "채팅 정보를 찾을 수 없습니다."
	msgMessageMissing = "메세지 내용을 입력해 주세요."
)

// MessageService appends to and reads chat histories. Only the two parties of
// a chat may do either.
type MessageService struct {
	messageRepo repository.MessageRepository
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
}

// MessageListResult carries the history of one chat, oldest first.
type MessageListResult struct {
	Message  string           `json:"message"`
	Messages []models.Message `json:"messages"`
}

// NewMessageService returns a new MessageService.
func NewMessageService(
	messageRepo repository.MessageRepository,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
	}
}

// partyChat checks that userID is active, then loads chatID and checks that
// userID is one of its parties.
func (s *MessageService) partyChat(ctx context.Context, userID, chatID uint) (*models.Chat, error) {
	if err := requireActiveCaller(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParty(userID) {
		return nil, models.NewConflictError(msgNotChatParty)
	}
	return chat, nil
}

// CreateMessage appends content to chatID on behalf of userID.
func (s *MessageService) CreateMessage(ctx context.Context, userID, chatID uint, content string) (res *MessageResult, err error) {
	ctx, done := track(ctx, "message", "create_message")
	defer func() { done(err) }()

	if _, err = s.partyChat(ctx, userID, chatID); err != nil {
		return nil, translate(ctx, "CreateMessage", err, internalFailure("새로운 메세지 생성에 실패했습니다."))
	}
	if strings.TrimSpace(content) == "" {
		err = models.NewBadRequestError(msgMessageMissing)
		return nil, err
	}

	message := &models.Message{ChatID: chatID, UserID: userID, Content: content}
	if err = s.messageRepo.Create(ctx, message); err != nil {
		return nil, translate(ctx, "CreateMessage", err, internalFailure("새로운 메세지 생성에 실패했습니다."))
	}
	return &MessageResult{Message: "새로운 메세지 생성에 성공했습니다."}, nil
}

// ListMessages returns the full history of chatID. An empty chat is reported
// as NotFound.
func (s *MessageService) ListMessages(ctx context.Context, userID, chatID uint) (res *MessageListResult, err error) {
	ctx, done := track(ctx, "message", "list_messages")
	defer func() { done(err) }()

	fail := func(err error) error {
		return translate(ctx, "ListMessages", err, internalFailure("유저의 메세지 불러오기에 실패 했습니다."))
	}

	if _, err = s.partyChat(ctx, userID, chatID); err != nil {
		return nil, fail(err)
	}
	messages, err := s.messageRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, fail(err)
	}
	if len(messages) == 0 {
		err = models.NewNotFoundError(msgChatEmpty)
		return nil, err
	}
	return &MessageListResult{Message: "유저의 메세지 불러오기에 성공했습니다.", Messages: messages}, nil
}
