package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"togather/internal/models"
	"togather/internal/repository"
)

// DefaultCommentPageSize is used when no positive page size is configured.
const DefaultCommentPageSize = 10

const (
	msgApplicationMissing = "해당 id의 신청 정보가 없습니다."
	msgNotAccepted        = "신청이 수락된 유저에게만 권한이 있습니다"
	msgCommentPostMissing = "요청한 게시물의 정보를 찾을 수 없습니다."
	msgCommentMissing     = "요청한 댓글의 정보를 찾을 수 없습니다."
	msgCommentDeleted     = "이미 삭제된 댓글입니다."
	msgNotCommentAuthor   = "작성한 유저에게 권한이 있습니다."
	msgCommentEmpty       = "댓글 내용을 입력해 주세요."
	msgCommentTooLong     = "댓글은 250자 이하로 입력해 주세요."
	msgInvalidCursor      = "잘못된 커서 값입니다."

	// MsgCommentsExhausted answers a page request made after the last page.
	MsgCommentsExhausted = "전체 댓글 조회가 끝났습니다."
)

// CommentService manages the discussion on a post. Only accepted participants
// may read or write comments.
type CommentService struct {
	commentRepo     repository.CommentRepository
	participantRepo repository.ParticipantRepository
	postRepo        repository.PostRepository
	userRepo        repository.UserRepository
	pageSize        int
}

// CommentPageResult is one page of comments.
type CommentPageResult struct {
	Message string `json:"message"`
	models.CommentPage
}

// NewCommentService returns a new CommentService. A pageSize below 1 falls
// back to DefaultCommentPageSize.
func NewCommentService(
	commentRepo repository.CommentRepository,
	participantRepo repository.ParticipantRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	pageSize int,
) *CommentService {
	if pageSize < 1 {
		pageSize = DefaultCommentPageSize
	}
	return &CommentService{
		commentRepo:     commentRepo,
		participantRepo: participantRepo,
		postRepo:        postRepo,
		userRepo:        userRepo,
		pageSize:        pageSize,
	}
}

func checkCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewBadRequestError(msgCommentEmpty)
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return models.NewBadRequestError(msgCommentTooLong)
	}
	return nil
}

// requireAccepted checks that userID is active and that its application to
// postID was accepted.
func (s *CommentService) requireAccepted(ctx context.Context, userID, postID uint) error {
	if err := requireActiveCaller(ctx, s.userRepo, userID); err != nil {
		return err
	}
	participant, err := s.participantRepo.GetByUserAndPost(ctx, userID, postID)
	if err != nil {
		return orNotFound(err, models.NewNotFoundError(msgApplicationMissing))
	}
	if !participant.IsAccepted() {
		return models.NewUnauthorizedError(msgNotAccepted)
	}
	return nil
}

// CreateComment appends a comment by an accepted participant.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint, content string) (res *MessageResult, err error) {
	ctx, done := track(ctx, "comment", "create_comment")
	defer func() { done(err) }()

	if err = s.requireAccepted(ctx, userID, postID); err != nil {
		return nil, translate(ctx, "CreateComment", err, internalFailure("댓글 작성하기에 실패했습니다."))
	}
	if err = checkCommentContent(content); err != nil {
		return nil, err
	}

	comment := &models.Comment{UserID: userID, PostID: postID, Content: content}
	if err = s.commentRepo.Create(ctx, comment); err != nil {
		return nil, translate(ctx, "CreateComment", err, internalFailure("댓글 작성하기에 실패했습니다."))
	}
	return &MessageResult{Message: "댓글 추가하기에 성공했습니다."}, nil
}

// UpdateComment replaces the content of a comment. The comment must exist on
// postID before its author is compared with userID.
func (s *CommentService) UpdateComment(ctx context.Context, userID, postID, commentID uint, content string) (res *MessageResult, err error) {
	ctx, done := track(ctx, "comment", "update_comment")
	defer func() { done(err) }()

	if err = requireActiveCaller(ctx, s.userRepo, userID); err != nil {
		return nil, translate(ctx, "UpdateComment", err, internalFailure("댓글 수정하기에 실패했습니다."))
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		err = orNotFound(err, models.NewNotFoundError(msgCommentMissing))
		return nil, translate(ctx, "UpdateComment", err, internalFailure("댓글 수정하기에 실패했습니다."))
	}
	if comment.PostID != postID {
		err = models.NewNotFoundError(msgCommentMissing)
		return nil, err
	}
	if comment.UserID != userID {
		err = models.NewUnauthorizedError(msgNotCommentAuthor)
		return nil, err
	}
	if err = checkCommentContent(content); err != nil {
		return nil, err
	}

	if err = s.commentRepo.UpdateContent(ctx, commentID, content); err != nil {
		err = orNotFound(err, models.NewNotFoundError(msgCommentMissing))
		return nil, translate(ctx, "UpdateComment", err, internalFailure("댓글 수정하기에 실패했습니다."))
	}
	return &MessageResult{Message: "댓글 수정하기에 성공하셨습니다."}, nil
}

// DeleteComment removes a comment written by userID.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) (res *MessageResult, err error) {
	ctx, done := track(ctx, "comment", "delete_comment")
	defer func() { done(err) }()

	if err = requireActiveCaller(ctx, s.userRepo, userID); err != nil {
		return nil, translate(ctx, "DeleteComment", err, internalFailure("댓글 삭제하기에 실패했습니다."))
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		err = orNotFound(err, models.NewNotFoundError(msgCommentDeleted))
		return nil, translate(ctx, "DeleteComment", err, internalFailure("댓글 삭제하기에 실패했습니다."))
	}
	if comment.UserID != userID {
		err = models.NewUnauthorizedError(msgNotCommentAuthor)
		return nil, err
	}

	if err = s.commentRepo.Delete(ctx, commentID); err != nil {
		err = orNotFound(err, models.NewNotFoundError(msgCommentDeleted))
		return nil, translate(ctx, "DeleteComment", err, internalFailure("댓글 삭제하기에 실패했습니다."))
	}
	return &MessageResult{Message: "댓글 삭제하기에 성공하셨습니다."}, nil
}

// ListComments returns one page of a post's comments, newest first.
//
// cursor 0 asks for the latest page and a positive cursor for the page older
// than the comment with that id. models.EndCursor, which the last page hands
// back, yields an exhausted page instead of an error.
func (s *CommentService) ListComments(ctx context.Context, userID, postID uint, cursor int64) (res *CommentPageResult, err error) {
	ctx, done := track(ctx, "comment", "list_comments")
	defer func() { done(err) }()

	fail := func(err error) error {
		return translate(ctx, "ListComments", err, internalFailure("게시글 댓글 불러오기에 실패했습니다."))
	}

	if err = s.requireAccepted(ctx, userID, postID); err != nil {
		return nil, fail(err)
	}
	if _, err = s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, fail(orNotFound(err, models.NewNotFoundError(msgCommentPostMissing)))
	}

	switch {
	case cursor == models.EndCursor:
		return &CommentPageResult{
			Message: MsgCommentsExhausted,
			CommentPage: models.CommentPage{
				Status:     models.PageStatusExhausted,
				Comments:   []models.Comment{},
				NextCursor: models.EndCursor,
			},
		}, nil
	case cursor < models.EndCursor:
		err = models.NewBadRequestError(msgInvalidCursor)
		return nil, err
	}

	// One extra row tells whether an older page exists.
	comments, err := s.commentRepo.ListPage(ctx, postID, uint(cursor), s.pageSize+1)
	if err != nil {
		return nil, fail(err)
	}

	page := models.CommentPage{Status: models.PageStatusLast, NextCursor: models.EndCursor}
	if len(comments) > s.pageSize {
		comments = comments[:s.pageSize]
		page.Status = models.PageStatusMore
		page.NextCursor = int64(comments[len(comments)-1].ID)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	page.Comments = comments

	return &CommentPageResult{Message: "게시글 댓글 불러오기에 성공하셨습니다.", CommentPage: page}, nil
}
