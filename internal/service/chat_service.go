package service

import (
	"context"

	"togather/internal/database"
	"togather/internal/models"
	"togather/internal/repository"
)

const (
	msgSelfChat         = "자기 자신과는 채팅할 수 없습니다."
	msgChatPartyMissing = "상대방의 정보를 찾을 수 없습니다."
)

// ChatService opens and lists two-party chats.
type ChatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	tx       database.Transactor
}

// ChatResult carries a single chat.
type ChatResult struct {
	Message string       `json:"message"`
	Chat    *models.Chat `json:"chat"`
}

// ChatListResult carries the caller's chats.
type ChatListResult struct {
	Message string        `json:"message"`
	Chats   []models.Chat `json:"chats"`
}

// NewChatService returns a new ChatService.
func NewChatService(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	tx database.Transactor,
) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		tx:       tx,
	}
}

// OpenChat returns the chat between userID and otherUserID, creating it on
// first contact. Both users must be active.
func (s *ChatService) OpenChat(ctx context.Context, userID, otherUserID uint) (res *ChatResult, err error) {
	ctx, done := track(ctx, "chat", "open_chat")
	defer func() { done(err) }()

	if userID == otherUserID {
		err = models.NewBadRequestError(msgSelfChat)
		return nil, err
	}

	var chat *models.Chat
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, id := range []uint{userID, otherUserID} {
			if _, lookupErr := s.userRepo.GetByID(ctx, id); lookupErr != nil {
				return orNotFound(lookupErr, models.NewNotFoundError(msgChatPartyMissing))
			}
		}

		existing, lookupErr := s.chatRepo.FindByPair(ctx, userID, otherUserID)
		if lookupErr == nil {
			chat = existing
			return nil
		}
		if !models.IsKind(lookupErr, models.CodeNotFound) {
			return lookupErr
		}

		created := &models.Chat{FirstID: userID, SecondID: otherUserID}
		if createErr := s.chatRepo.Create(ctx, created); createErr != nil {
			return createErr
		}
		chat = created
		return nil
	})
	if err != nil {
		return nil, translate(ctx, "OpenChat", err, internalFailure("채팅방 생성에 실패했습니다."))
	}

	return &ChatResult{Message: "채팅방 불러오기에 성공했습니다.", Chat: chat}, nil
}

// ListChats returns every chat userID takes part in, newest first.
func (s *ChatService) ListChats(ctx context.Context, userID uint) (res *ChatListResult, err error) {
	ctx, done := track(ctx, "chat", "list_chats")
	defer func() { done(err) }()

	if err = requireActiveCaller(ctx, s.userRepo, userID); err != nil {
		return nil, translate(ctx, "ListChats", err, internalFailure("채팅방 목록 불러오기에 실패했습니다."))
	}
	chats, err := s.chatRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, translate(ctx, "ListChats", err, internalFailure("채팅방 목록 불러오기에 실패했습니다."))
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return &ChatListResult{Message: "채팅방 목록 불러오기에 성공했습니다.", Chats: chats}, nil
}
