// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task_backend/internal/api"
	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/feature/auth/usecase"
	"task_backend/internal/platform/http/respond"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/apperror"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、トークンを発行します。
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、トークンを発行します。
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.AuthResult, error)
	// GetProfile は認証済みユーザーのプロフィールを返します。
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup は POST /auth/signup を処理します。
// - 不正なJSONは400 "Invalid request body"
// - 入力不備・メール重複は400
// - 成功時は201でトークンとユーザーを返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidBody(c, err)
		return
	}
	res, err := h.auth.Signup(c.Request.Context(), usecase.SignupInput{
		Name:     deref(req.Name),
		Email:    deref(req.Email),
		Password: deref(req.Password),
	})
	if err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			slog.Warn("signup rejected", "error", err, "remote_addr", c.ClientIP())
		}
		respond.Error(c, err)
		return
	}
	slog.Info("user signup successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, toAuthResponse(res))
}

// Login は POST /auth/login を処理します。
// メールアドレス未登録とパスワード不一致は同じ401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidBody(c, err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:    deref(req.Email),
		Password: deref(req.Password),
	})
	if err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			slog.Warn("login rejected", "error", err, "remote_addr", c.ClientIP())
		}
		respond.Error(c, err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, toAuthResponse(res))
}

// Profile は GET /auth/profile を処理します。パスワードは返しません。
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		respond.Error(c, apperror.Auth("Invalid token"))
		return
	}
	user, err := h.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.UserProfile{
		Id:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func toAuthResponse(res *usecase.AuthResult) api.AuthResponse {
	return api.AuthResponse{
		Token: res.Token,
		User: api.UserSummary{
			Id:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
