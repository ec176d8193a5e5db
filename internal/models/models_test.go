package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestUser_State(t *testing.T) {
	active := &User{ID: 1}
	assert.True(t, active.State().IsActive())

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	deleted := &User{ID: 2, DeletedAt: gorm.DeletedAt{Time: at, Valid: true}}
	state := deleted.State()
	assert.False(t, state.IsActive())
	assert.True(t, state.Deleted)
	assert.Equal(t, at, state.DeletedAt)
}

func TestChat_HasParty(t *testing.T) {
	chat := &Chat{FirstID: 3, SecondID: 7}
	assert.True(t, chat.HasParty(3))
	assert.True(t, chat.HasParty(7))
	assert.False(t, chat.HasParty(5))
}

func TestOrderedPair(t *testing.T) {
	a, b := OrderedPair(9, 2)
	assert.Equal(t, uint(2), a)
	assert.Equal(t, uint(9), b)

	a, b = OrderedPair(1, 4)
	assert.Equal(t, uint(1), a)
	assert.Equal(t, uint(4), b)
}

func TestParticipantStatus_Valid(t *testing.T) {
	assert.True(t, ParticipantAccepted.Valid())
	assert.True(t, ParticipantRejected.Valid())
	assert.True(t, ParticipantPending.Valid())
	assert.False(t, ParticipantStatus("maybe").Valid())
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewConflictError("dup"))
	assert.True(t, IsKind(err, CodeConflict))
	assert.False(t, IsKind(err, CodeNotFound))
	assert.False(t, IsKind(errors.New("plain"), CodeConflict))
}

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		CodeConflict:     http.StatusConflict,
		CodeNotFound:     http.StatusNotFound,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeBadRequest:   http.StatusBadRequest,
		CodeInternal:     http.StatusInternalServerError,
		"SOMETHING_ELSE": http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, StatusFor(code), code)
	}
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	cause := errors.New("db down")
	err := NewInternalError("서버 오류", cause)
	assert.Equal(t, "서버 오류: db down", err.Error())
	assert.ErrorIs(t, err, cause)
}
