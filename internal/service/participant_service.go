package service

import (
	"context"

	"togather/internal/database"
	"togather/internal/models"
	"togather/internal/repository"
)

const (
	msgSelfApplication = "자신의 게시물에는 신청할 수 없습니다."
	msgInvalidDecision = "신청 상태는 accepted 또는 rejected 이어야 합니다."
	msgNotPostOwner    = "게시물 작성자에게만 권한이 있습니다."
	msgParticipantGone = "해당 id의 신청 정보가 없습니다."
)

// ParticipantService handles applications to posts and the author's decisions.
type ParticipantService struct {
	participantRepo repository.ParticipantRepository
	postRepo        repository.PostRepository
	userRepo        repository.UserRepository
	tx              database.Transactor
}

// ParticipantResult carries a single application.
type ParticipantResult struct {
	Message     string              `json:"message"`
	Participant *models.Participant `json:"participant"`
}

// ParticipantListResult carries the applications to one post.
type ParticipantListResult struct {
	Message      string               `json:"message"`
	Participants []models.Participant `json:"participants"`
}

// NewParticipantService returns a new ParticipantService.
func NewParticipantService(
	participantRepo repository.ParticipantRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	tx database.Transactor,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		postRepo:        postRepo,
		userRepo:        userRepo,
		tx:              tx,
	}
}

// Apply records a pending application by userID to postID.
func (s *ParticipantService) Apply(ctx context.Context, userID, postID uint) (res *ParticipantResult, err error) {
	ctx, done := track(ctx, "participant", "apply")
	defer func() { done(err) }()

	participant := &models.Participant{UserID: userID, PostID: postID, Status: models.ParticipantPending}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if authErr := requireActiveCaller(ctx, s.userRepo, userID); authErr != nil {
			return authErr
		}
		post, lookupErr := s.postRepo.GetByID(ctx, postID)
		if lookupErr != nil {
			return lookupErr
		}
		if post.UserID == userID {
			return models.NewConflictError(msgSelfApplication)
		}
		return s.participantRepo.Create(ctx, participant)
	})
	if err != nil {
		return nil, translate(ctx, "Apply", err, internalFailure("참여 신청에 실패했습니다."))
	}

	return &ParticipantResult{Message: "참여 신청에 성공했습니다.", Participant: participant}, nil
}

// Decide accepts or rejects an application. Only the post author may decide.
func (s *ParticipantService) Decide(ctx context.Context, authorID, participantID uint, status models.ParticipantStatus) (res *ParticipantResult, err error) {
	ctx, done := track(ctx, "participant", "decide")
	defer func() { done(err) }()

	if status != models.ParticipantAccepted && status != models.ParticipantRejected {
		err = models.NewBadRequestError(msgInvalidDecision)
		return nil, err
	}

	var decided *models.Participant
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if authErr := requireActiveCaller(ctx, s.userRepo, authorID); authErr != nil {
			return authErr
		}
		participant, lookupErr := s.participantRepo.GetByID(ctx, participantID)
		if lookupErr != nil {
			return orNotFound(lookupErr, models.NewNotFoundError(msgParticipantGone))
		}
		post, lookupErr := s.postRepo.GetByID(ctx, participant.PostID)
		if lookupErr != nil {
			return lookupErr
		}
		if post.UserID != authorID {
			return models.NewUnauthorizedError(msgNotPostOwner)
		}
		if updateErr := s.participantRepo.UpdateStatus(ctx, participantID, status); updateErr != nil {
			return updateErr
		}
		participant.Status = status
		decided = participant
		return nil
	})
	if err != nil {
		return nil, translate(ctx, "Decide", err, internalFailure("신청 상태 변경에 실패했습니다."))
	}

	return &ParticipantResult{Message: "신청 상태가 변경되었습니다.", Participant: decided}, nil
}

// ListByPost returns the applications to a post owned by authorID.
func (s *ParticipantService) ListByPost(ctx context.Context, authorID, postID uint) (res *ParticipantListResult, err error) {
	ctx, done := track(ctx, "participant", "list_by_post")
	defer func() { done(err) }()

	if err = requireActiveCaller(ctx, s.userRepo, authorID); err != nil {
		return nil, translate(ctx, "ListByPost", err, internalFailure("신청 목록 불러오기에 실패했습니다."))
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, translate(ctx, "ListByPost", err, internalFailure("신청 목록 불러오기에 실패했습니다."))
	}
	if post.UserID != authorID {
		err = models.NewUnauthorizedError(msgNotPostOwner)
		return nil, err
	}

	participants, err := s.participantRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, translate(ctx, "ListByPost", err, internalFailure("신청 목록 불러오기에 실패했습니다."))
	}
	return &ParticipantListResult{Message: "신청 목록 불러오기에 성공했습니다.", Participants: participants}, nil
}
