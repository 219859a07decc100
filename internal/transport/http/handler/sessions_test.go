package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/callme-api/internal/application/session"
	"github.com/callme-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Login(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*session.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLogin_Returns200WithToken(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Login", mock.Anything, session.LoginRequest{Password: "dev123"}).
		Return(&session.LoginResult{AccessToken: "signed-token", TokenType: "bearer"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"dev123"}`))
	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Login(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got session.LoginResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "signed-token", got.AccessToken)
	assert.Equal(t, "bearer", got.TokenType)
}

func TestLogin_WrongPassword_Returns401(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrUnauthorized)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"nope"}`))
	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Login(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_MalformedBody_Returns400(t *testing.T) {
	svc := &mockSessionSvc{}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Login(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}
