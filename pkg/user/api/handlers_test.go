package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gomock "github.com/golang/mock/gomock"

	"postboard/pkg/common"
	"postboard/pkg/user"
)

var (
	userId         = "1"
	username       = "pike"
	displayName    = "Rob Pike"
	salt           = "12345678"
	password       = "sdfsdfsdf"
	hashedPassword = common.HashPass(password, salt)
	testToken      = "test.jwt.token"
)

func TestLogIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existingUser := user.User{Id: userId, Username: username, Name: displayName, Password: hashedPassword}
	mockRepo := NewMockUserRepo(ctrl)
	mockSm := NewMockSessionManager(ctrl)
	handler := &UserHandler{
		Repo:           mockRepo,
		SessionManager: mockSm,
	}

	loginReq := func(un, pw string) *http.Request {
		body := strings.NewReader(`{"username": "` + un + `", "password": "` + pw + `"}`)
		return httptest.NewRequest("POST", "/api/login", body)
	}

	t.Run("login is OK", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsernameAndPass(username, password).Return(&existingUser, nil)
		mockSm.EXPECT().CleanupUserSessions(userId).Return(nil)
		mockSm.EXPECT().CreateToken(&existingUser).Return(testToken, nil)

		w := httptest.NewRecorder()
		handler.LogIn(w, loginReq(username, password))
		resp := w.Result()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Errorf("error reading login response body")
			return
		}
		if !bytes.Contains(body, []byte(testToken)) {
			t.Errorf("login response doesn't contain JWT token")
			return
		}
	})

	t.Run("user not found", func(t *testing.T) {
		badUsername, badPassword := "notexists", "nevermind"
		mockRepo.EXPECT().GetByUsernameAndPass(badUsername, badPassword).
			Return(nil, fmt.Errorf("user not found"))

		w := httptest.NewRecorder()
		handler.LogIn(w, loginReq(badUsername, badPassword))
		if w.Result().StatusCode != 404 {
			t.Errorf("expected 404, got %d", w.Result().StatusCode)
			return
		}
	})
}

func TestRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockUserRepo(ctrl)
	mockSm := NewMockSessionManager(ctrl)
	handler := &UserHandler{
		Repo:           mockRepo,
		SessionManager: mockSm,
	}

	registerReq := func(un, nm, pw string) *http.Request {
		body := strings.NewReader(`{"username": "` + un + `", "name": "` + nm + `", "password": "` + pw + `"}`)
		return httptest.NewRequest("POST", "/api/register", body)
	}

	t.Run("registers and sends a token", func(t *testing.T) {
		mockRepo.EXPECT().UserExists(username).Return(false)
		mockRepo.EXPECT().Add(gomock.Any()).DoAndReturn(func(u *user.User) (string, error) {
			if u.Username != username || u.Name != displayName {
				t.Errorf("unexpected user passed to repo: %+v", u)
			}
			return userId, nil
		})
		mockSm.EXPECT().CreateToken(gomock.Any()).Return(testToken, nil)

		w := httptest.NewRecorder()
		handler.Register(w, registerReq(username, displayName, password))
		if w.Result().StatusCode != http.StatusCreated {
			t.Errorf("expected 201, got %d", w.Result().StatusCode)
			return
		}
		if !bytes.Contains(w.Body.Bytes(), []byte(testToken)) {
			t.Errorf("register response doesn't contain JWT token")
			return
		}
	})

	t.Run("existing username is a conflict", func(t *testing.T) {
		mockRepo.EXPECT().UserExists(username).Return(true)

		w := httptest.NewRecorder()
		handler.Register(w, registerReq(username, displayName, password))
		if w.Result().StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", w.Result().StatusCode)
			return
		}
	})
}
