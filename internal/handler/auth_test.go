package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/piadas/piadas/internal/auth"
	"github.com/piadas/piadas/internal/model"
	"github.com/piadas/piadas/internal/repository"
	"github.com/piadas/piadas/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type brokenRepo struct{}

func (brokenRepo) CreateUser(ctx context.Context, user *model.User) error {
	return errors.New("connection refused")
}

func (brokenRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, errors.New("connection refused")
}

func newTestAuthHandler(t *testing.T, repo service.UserRepository) (*AuthHandler, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	store := service.NewCredentialStore(repo, nil, auth.SHA256Hasher{}, nil, discardLogger())
	svc := service.NewAuthService(store, tokens, time.Hour, discardLogger())
	return NewAuthHandler(svc, discardLogger()), tokens
}

func post(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["jwt"] == "" {
		t.Fatalf("expected jwt in response, got %v", body)
	}
	return body["jwt"]
}

func TestAuthHandler_Register(t *testing.T) {
	h, tokens := newTestAuthHandler(t, repository.NewMemoryUsers())

	rec := post(h.Register, "/registrar", `{"nome":"Ana","email":"ana@x.com","senha":"s3nha"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	authCtx, err := tokens.Parse(decodeToken(t, rec))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if authCtx.Subject != "ana@x.com" || authCtx.Name != "Ana" {
		t.Errorf("unexpected claims: %+v", authCtx)
	}
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	h, _ := newTestAuthHandler(t, repository.NewMemoryUsers())

	if rec := post(h.Register, "/registrar", `{"nome":"Ana","email":"ana@x.com","senha":"s3nha"}`); rec.Code != http.StatusOK {
		t.Fatalf("first registration: expected 200, got %d", rec.Code)
	}

	rec := post(h.Register, "/registrar", `{"nome":"Outra","email":"ana@x.com","senha":"x"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if got := decodeDetail(t, rec); got != MsgDuplicateEmail {
		t.Errorf("detail = %q, want %q", got, MsgDuplicateEmail)
	}
}

func TestAuthHandler_RegisterBadBodies(t *testing.T) {
	h, _ := newTestAuthHandler(t, repository.NewMemoryUsers())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"not json", `nope`, http.StatusUnprocessableEntity},
		{"missing senha", `{"nome":"Ana","email":"ana@x.com"}`, http.StatusUnprocessableEntity},
		{"null email", `{"nome":"Ana","email":null,"senha":"x"}`, http.StatusUnprocessableEntity},
		{"wrong type", `{"nome":1,"email":"ana@x.com","senha":"x"}`, http.StatusUnprocessableEntity},
		{"empty strings accepted", `{"nome":"","email":"","senha":""}`, http.StatusOK},
		{"trailing garbage", `{"nome":"Ana","email":"tail@x.com","senha":"x"}garbage`, http.StatusUnprocessableEntity},
		{"two objects", `{"nome":"Ana","email":"two@x.com","senha":"x"} {"nome":"Bo"}`, http.StatusUnprocessableEntity},
		{"trailing whitespace accepted", "{\"nome\":\"Ana\",\"email\":\"ws@x.com\",\"senha\":\"x\"}\n\t ", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.Register, "/registrar", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h, tokens := newTestAuthHandler(t, repository.NewMemoryUsers())

	if rec := post(h.Register, "/registrar", `{"nome":"Ana","email":"ana@x.com","senha":"s3nha"}`); rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", rec.Code)
	}

	t.Run("valid credentials", func(t *testing.T) {
		rec := post(h.Login, "/login", `{"email":"ana@x.com","senha":"s3nha"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		subject, err := tokens.Verify(decodeToken(t, rec))
		if err != nil || subject != "ana@x.com" {
			t.Errorf("Verify = %q, %v", subject, err)
		}
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDetail string
	}{
		{"unknown email", `{"email":"nobody@x.com","senha":"s3nha"}`, http.StatusUnauthorized, MsgEmailNotFound},
		{"wrong password", `{"email":"ana@x.com","senha":"errada"}`, http.StatusUnauthorized, MsgPasswordMismatch},
		{"email is case sensitive", `{"email":"ANA@x.com","senha":"s3nha"}`, http.StatusUnauthorized, MsgEmailNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.Login, "/login", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := decodeDetail(t, rec); got != tt.wantDetail {
				t.Errorf("detail = %q, want %q", got, tt.wantDetail)
			}
		})
	}

	t.Run("missing field", func(t *testing.T) {
		rec := post(h.Login, "/login", `{"email":"ana@x.com"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if got := decodeDetail(t, rec); !strings.Contains(got, "senha") {
			t.Errorf("expected missing field name in detail, got %q", got)
		}
	})
}

func TestAuthHandler_StoreFailure(t *testing.T) {
	h, _ := newTestAuthHandler(t, brokenRepo{})

	for _, tt := range []struct {
		name  string
		serve http.HandlerFunc
		body  string
	}{
		{"register", h.Register, `{"nome":"Ana","email":"ana@x.com","senha":"s3nha"}`},
		{"login", h.Login, `{"email":"ana@x.com","senha":"s3nha"}`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(tt.serve, "/", tt.body)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", rec.Code)
			}
			if got := decodeDetail(t, rec); got != MsgInternalError {
				t.Errorf("detail = %q, want %q", got, MsgInternalError)
			}
		})
	}
}

func TestAuthHandler_LoginRejectsTrailingData(t *testing.T) {
	repo := repository.NewMemoryUsers()
	h, _ := newTestAuthHandler(t, repo)

	if rec := post(h.Register, "/registrar", `{"nome":"Ana","email":"ana@x.com","senha":"s3nha"}`); rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", rec.Code)
	}

	rec := post(h.Login, "/login", `{"email":"ana@x.com","senha":"s3nha"}garbage`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeDetail(t, rec); got != MsgInvalidBody {
		t.Errorf("detail = %q, want %q", got, MsgInvalidBody)
	}
}
