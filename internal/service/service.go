// Package service provides the workflow layer: users, posts, participants,
// comments, chats and messages. Every operation returns a result carrying a
// user-facing message or an *models.AppError.
package service

import (
	"context"
	"log/slog"

	"togather/internal/middleware"
	"togather/internal/models"
	"togather/internal/observability"
	"togather/internal/repository"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uint, email, nickname string) (string, error)
}

// track opens a span for the operation. The returned func ends the span and
// counts the outcome.
func track(ctx context.Context, component, operation string) (context.Context, func(error)) {
	ctx, span := observability.StartOperation(ctx, component, operation)
	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = models.CodeInternal
			if appErr, ok := models.AsAppError(err); ok {
				outcome = appErr.Code
			}
		}
		observability.RecordOperation(component+"."+operation, outcome)
		observability.EndOperation(span, err)
	}
}

// translate passes an *AppError through unchanged. Any other error is logged
// and replaced by a copy of fallback that keeps the cause for logs only.
func translate(ctx context.Context, operation string, err error, fallback *models.AppError) error {
	if err == nil {
		return nil
	}
	if appErr, ok := models.AsAppError(err); ok {
		return appErr
	}
	middleware.Logger.ErrorContext(ctx, "service operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	return &models.AppError{Code: fallback.Code, Message: fallback.Message, Err: err}
}

func internalFailure(message string) *models.AppError {
	return models.NewInternalError(message, nil)
}

// orNotFound replaces a NotFound from the repository with err and passes
// every other failure through.
func orNotFound(got error, err *models.AppError) error {
	if models.IsKind(got, models.CodeNotFound) {
		return err
	}
	return got
}

// msgInvalidToken answers a token whose holder no longer exists or has withdrawn.
const msgInvalidToken = "잘못된 토큰입니다."

// requireActiveCaller resolves the token holder through the default-scoped
// lookup, so a withdrawn account is refused like an unknown one.
func requireActiveCaller(ctx context.Context, users repository.UserRepository, userID uint) error {
	if _, err := users.GetByID(ctx, userID); err != nil {
		return orNotFound(err, models.NewUnauthorizedError(msgInvalidToken))
	}
	return nil
}
