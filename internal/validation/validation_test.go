package validation

import (
	"strings"
	"testing"

	"togather/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "password1", false},
		{"Exactly Min Length", "abcdefgh", false},
		{"Korean Counts Characters", "비밀번호비밀번호", false},
		{"Too Short", "short1", true},
		{"Exactly Max Bytes", strings.Repeat("a", 72), false},
		{"Too Long", strings.Repeat("a", 73), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNickname(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		nickname string
		wantErr  bool
	}{
		{"Valid", "고퍼", false},
		{"Blank", "   ", true},
		{"Max Length", strings.Repeat("가", 50), false},
		{"Too Long", strings.Repeat("가", 51), true},
		{"Control Character", "bad\x07name", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNickname(tt.nickname)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Content  string `json:"content" validate:"notblank,max=250"`
	Status   string `json:"status" validate:"omitempty,oneof=accepted rejected"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	valid := sampleRequest{Email: "a@example.com", Password: "password1", Content: "hi"}
	require.NoError(t, Struct(valid))

	tests := []struct {
		name    string
		mutate  func(r *sampleRequest)
		message string
	}{
		{"missing email", func(r *sampleRequest) { r.Email = "" }, "email 값을 입력해 주세요."},
		{"bad email", func(r *sampleRequest) { r.Email = "nope" }, "이메일 형식이 올바르지 않습니다."},
		{"short password", func(r *sampleRequest) { r.Password = "short" }, "비밀번호는 8자 이상 72바이트 이하로 입력해 주세요."},
		{"blank content", func(r *sampleRequest) { r.Content = "  " }, "content 값을 입력해 주세요."},
		{"long content", func(r *sampleRequest) { r.Content = strings.Repeat("가", 251) }, "content 값은 250자 이하로 입력해 주세요."},
		{"unknown status", func(r *sampleRequest) { r.Status = "pending" }, "status 값은 accepted rejected 중 하나여야 합니다."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := Struct(req)
			require.Error(t, err)
			appErr, ok := models.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, models.CodeBadRequest, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}

	assert.NoError(t, Struct(sampleRequest{
		Email:    "a@example.com",
		Password: "password1",
		Content:  strings.Repeat("가", 250),
	}))
}
