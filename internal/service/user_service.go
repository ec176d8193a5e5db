package service

import (
	"context"
	"strings"

	"togather/internal/database"
	"togather/internal/models"
	"togather/internal/repository"
)

const (
	msgEmailInUse      = "이 이메일은 현재 사용중입니다. 다른 이메일을 입력해 주세요."
	msgRegisterFailed  = "회원가입에 실패했습니다."
	msgUnknownEmail    = "가입 내역이 없는 이메일입니다. 다시 한 번 확인해 주세요"
	msgWithdrawnUser   = "이미 탈퇴한 회원입니다."
	msgPasswordInvalid = "비밀번호가 일치하지 않습니다. 다시 한 번 확인해주세요."
	msgSessionMissing  = "회원의 정보를 찾을 수 없습니다."
	msgUserMissing     = "사용자의 정보를 찾을 수 없습니다."
)

// UserService handles registration, login and account maintenance.
type UserService struct {
	userRepo repository.UserRepository
	tx       database.Transactor
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Email       string
	Password    string
	Nickname    string
	Description string
}

// UpdateUserInput holds the profile fields to change. Nil fields are left as they are.
type UpdateUserInput struct {
	Nickname    *string
	Password    *string
	Description *string
}

// MessageResult is returned by operations that carry no data besides the message.
type MessageResult struct {
	Message string `json:"message"`
}

// RegisterResult is returned by CreateUser.
type RegisterResult struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}

// LoginResult is returned by Authenticate.
type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  uint   `json:"userId"`
}

// ProfileResult carries the caller's profile.
type ProfileResult struct {
	Message string `json:"message"`
	models.PublicProfile
}

// SessionResult identifies the token holder.
type SessionResult struct {
	Message  string `json:"message"`
	UserID   uint   `json:"userId"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// NewUserService returns a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	tx database.Transactor,
	hasher PasswordHasher,
	tokens TokenIssuer,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		tx:       tx,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// normalizeEmail drops surrounding blanks only. Addresses are matched
// case-sensitively, so Alice@x and alice@x are separate accounts.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// CreateUser registers a new account. The email must not belong to an active user.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (res *RegisterResult, err error) {
	ctx, done := track(ctx, "user", "create_user")
	defer func() { done(err) }()

	user := &models.User{
		Email:       normalizeEmail(in.Email),
		Nickname:    strings.TrimSpace(in.Nickname),
		Description: in.Description,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, lookupErr := s.userRepo.GetByEmail(ctx, user.Email)
		switch {
		case lookupErr == nil:
			return models.NewConflictError(msgEmailInUse)
		case !models.IsKind(lookupErr, models.CodeNotFound):
			return lookupErr
		}

		hashed, hashErr := s.hasher.Hash(in.Password)
		if hashErr != nil {
			return hashErr
		}
		user.Password = hashed
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, translate(ctx, "CreateUser", err, models.NewBadRequestError(msgRegisterFailed))
	}

	return &RegisterResult{Message: "회원가입에 성공했습니다.", UserID: user.ID}, nil
}

// Authenticate checks the credentials and issues a session token. A withdrawn
// account is refused even when the password matches.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (res *LoginResult, err error) {
	ctx, done := track(ctx, "user", "authenticate")
	defer func() { done(err) }()

	var user *models.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		found, lookupErr := s.userRepo.FindByEmailIncludingDeleted(ctx, normalizeEmail(email))
		if lookupErr != nil {
			return orNotFound(lookupErr, models.NewNotFoundError(msgUnknownEmail))
		}
		if !found.State().IsActive() {
			return models.NewBadRequestError(msgWithdrawnUser)
		}
		if !s.hasher.Verify(password, found.Password) {
			return models.NewUnauthorizedError(msgPasswordInvalid)
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, translate(ctx, "Authenticate", err, internalFailure("로그인에 실패하였습니다."))
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Nickname)
	if err != nil {
		return nil, translate(ctx, "Authenticate", err, internalFailure("로그인에 실패하였습니다."))
	}

	return &LoginResult{Message: "로그인에 성공했습니다.", Token: token, UserID: user.ID}, nil
}

// GetSessionUser confirms that the token holder is still an active user.
func (s *UserService) GetSessionUser(ctx context.Context, userID uint) (res *SessionResult, err error) {
	ctx, done := track(ctx, "user", "get_session_user")
	defer func() { done(err) }()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		err = orNotFound(err, models.NewConflictError(msgSessionMissing))
		return nil, translate(ctx, "GetSessionUser", err, internalFailure("회원 정보 조회에 실패했습니다."))
	}

	return &SessionResult{
		Message:  "정상적인 유저입니다.",
		UserID:   user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
	}, nil
}

// UpdateUser applies the non-nil fields of in to the caller's account.
func (s *UserService) UpdateUser(ctx context.Context, userID uint, in UpdateUserInput) (res *ProfileResult, err error) {
	ctx, done := track(ctx, "user", "update_user")
	defer func() { done(err) }()

	var updated *models.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, lookupErr := s.userRepo.GetByID(ctx, userID); lookupErr != nil {
			return orNotFound(lookupErr, models.NewConflictError(msgUserMissing))
		}

		updates := map[string]interface{}{}
		if in.Nickname != nil {
			updates["nickname"] = strings.TrimSpace(*in.Nickname)
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.Password != nil {
			hashed, hashErr := s.hasher.Hash(*in.Password)
			if hashErr != nil {
				return hashErr
			}
			updates["password"] = hashed
		}
		if updateErr := s.userRepo.Update(ctx, userID, updates); updateErr != nil {
			return updateErr
		}

		reloaded, reloadErr := s.userRepo.GetByID(ctx, userID)
		if reloadErr != nil {
			return reloadErr
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, translate(ctx, "UpdateUser", err, internalFailure("회원 정보 수정에 실패했습니다."))
	}

	return &ProfileResult{Message: "회원 정보가 수정되었습니다.", PublicProfile: updated.Profile()}, nil
}

// DeleteUser withdraws the caller's account. The row is kept with deleted_at set.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) (res *MessageResult, err error) {
	ctx, done := track(ctx, "user", "delete_user")
	defer func() { done(err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, lookupErr := s.userRepo.GetByID(ctx, userID); lookupErr != nil {
			return orNotFound(lookupErr, models.NewConflictError(msgUserMissing))
		}
		return orNotFound(s.userRepo.SoftDelete(ctx, userID), models.NewConflictError(msgUserMissing))
	})
	if err != nil {
		return nil, translate(ctx, "DeleteUser", err, internalFailure("회원 탈퇴에 실패했습니다."))
	}

	return &MessageResult{Message: "회원 성공적으로 탈퇴하였습니다."}, nil
}
