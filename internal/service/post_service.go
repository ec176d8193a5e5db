package service

import (
	"context"

	"togather/internal/database"
	"togather/internal/models"
	"togather/internal/repository"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100

	msgPostMissing   = "해당 게시물을 찾을 수 없습니다."
	msgNotPostAuthor = "게시물 작성자만 수정하거나 삭제할 수 있습니다."
)

// PostService manages recruiting posts.
type PostService struct {
	postRepo        repository.PostRepository
	userRepo        repository.UserRepository
	participantRepo repository.ParticipantRepository
	commentRepo     repository.CommentRepository
	tx              database.Transactor
}

// CreatePostInput is the payload for a new post.
type CreatePostInput struct {
	Type    string
	Title   string
	Content string
}

// UpdatePostInput holds the post fields to change. Nil fields are left as they are.
type UpdatePostInput struct {
	Type    *string
	Title   *string
	Content *string
}

// ListPostsInput selects one page of posts. Page is 1-based.
type ListPostsInput struct {
	Page    int
	PerPage int
	Type    string
}

// CreatePostResult is returned by CreatePost.
type CreatePostResult struct {
	Message string `json:"message"`
	PostID  uint   `json:"postId"`
}

// PostListResult is one page of posts and the total number of matches.
type PostListResult struct {
	Message string               `json:"message"`
	Total   int64                `json:"total"`
	Posts   []models.PostSummary `json:"posts"`
}

// PostResult carries a single post.
type PostResult struct {
	Message string             `json:"message"`
	Post    models.PostSummary `json:"post"`
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	participantRepo repository.ParticipantRepository,
	commentRepo repository.CommentRepository,
	tx database.Transactor,
) *PostService {
	return &PostService{
		postRepo:        postRepo,
		userRepo:        userRepo,
		participantRepo: participantRepo,
		commentRepo:     commentRepo,
		tx:              tx,
	}
}

// pageBounds turns a 1-based page request into offset and limit.
func pageBounds(page, perPage int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return (page - 1) * perPage, perPage
}

// CreatePost publishes a post authored by userID, who must be an active user.
func (s *PostService) CreatePost(ctx context.Context, userID uint, in CreatePostInput) (res *CreatePostResult, err error) {
	ctx, done := track(ctx, "post", "create_post")
	defer func() { done(err) }()

	post := &models.Post{
		UserID:  userID,
		Type:    in.Type,
		Title:   in.Title,
		Content: in.Content,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if authErr := requireActiveCaller(ctx, s.userRepo, userID); authErr != nil {
			return authErr
		}
		return s.postRepo.Create(ctx, post)
	})
	if err != nil {
		return nil, translate(ctx, "CreatePost", err, internalFailure("게시물 작성을 실패했습니다."))
	}

	return &CreatePostResult{Message: "게시물 작성을 성공했습니다.", PostID: post.ID}, nil
}

// ListPosts returns one page of posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (res *PostListResult, err error) {
	ctx, done := track(ctx, "post", "list_posts")
	defer func() { done(err) }()

	offset, limit := pageBounds(in.Page, in.PerPage)
	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		Type:   in.Type,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, translate(ctx, "ListPosts", err, internalFailure("게시물 전체 조회를 실패했습니다."))
	}

	summaries := make([]models.PostSummary, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, posts[i].Summary())
	}
	return &PostListResult{
		Message: "게시글 전체 조회를 성공했습니다.",
		Total:   total,
		Posts:   summaries,
	}, nil
}

// GetPost returns a single post.
func (s *PostService) GetPost(ctx context.Context, postID uint) (res *PostResult, err error) {
	ctx, done := track(ctx, "post", "get_post")
	defer func() { done(err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, translate(ctx, "GetPost", err, internalFailure("게시물 조회를 실패했습니다."))
	}
	return &PostResult{Message: "게시물 불러오기에 성공했습니다.", Post: post.Summary()}, nil
}

// authoredPost loads postID and checks that userID, an active user, wrote it.
func (s *PostService) authoredPost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if err := requireActiveCaller(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, orNotFound(err, models.NewNotFoundError(msgPostMissing))
	}
	if post.UserID != userID {
		return nil, models.NewUnauthorizedError(msgNotPostAuthor)
	}
	return post, nil
}

// UpdatePost changes the non-nil fields of a post owned by userID.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint, in UpdatePostInput) (res *PostResult, err error) {
	ctx, done := track(ctx, "post", "update_post")
	defer func() { done(err) }()

	var updated *models.Post
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, authErr := s.authoredPost(ctx, userID, postID); authErr != nil {
			return authErr
		}

		updates := map[string]interface{}{}
		if in.Type != nil {
			updates["type"] = *in.Type
		}
		if in.Title != nil {
			updates["title"] = *in.Title
		}
		if in.Content != nil {
			updates["content"] = *in.Content
		}
		if updateErr := s.postRepo.Update(ctx, postID, updates); updateErr != nil {
			return updateErr
		}

		reloaded, reloadErr := s.postRepo.GetByID(ctx, postID)
		if reloadErr != nil {
			return reloadErr
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, translate(ctx, "UpdatePost", err, internalFailure("게시물 수정을 실패했습니다."))
	}

	return &PostResult{Message: "게시물 수정에 성공했습니다.", Post: updated.Summary()}, nil
}

// DeletePost removes a post owned by userID together with its applications
// and comments.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) (res *MessageResult, err error) {
	ctx, done := track(ctx, "post", "delete_post")
	defer func() { done(err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, authErr := s.authoredPost(ctx, userID, postID); authErr != nil {
			return authErr
		}
		if delErr := s.commentRepo.DeleteByPost(ctx, postID); delErr != nil {
			return delErr
		}
		if delErr := s.participantRepo.DeleteByPost(ctx, postID); delErr != nil {
			return delErr
		}
		return s.postRepo.Delete(ctx, postID)
	})
	if err != nil {
		return nil, translate(ctx, "DeletePost", err, internalFailure("게시물 삭제를 실패했습니다."))
	}

	return &MessageResult{Message: "게시물 삭제에 성공했습니다."}, nil
}
