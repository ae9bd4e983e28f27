package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task_backend/internal/api"
	"task_backend/internal/app/di"
	authentity "task_backend/internal/feature/auth/domain/entity"
	authusecase "task_backend/internal/feature/auth/usecase"
	taskentity "task_backend/internal/feature/tasks/domain/entity"
	taskusecase "task_backend/internal/feature/tasks/usecase"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/ratelimiter"
)

const secret = "router-test-secret"

// tickingClock は呼び出しごとに1秒進む時計です。作成順の並びを決定的にします。
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&authentity.User{}, &taskentity.Task{}))
	return db
}

func newTestRouter(t *testing.T, limiter ratelimiter.Limiter) *gin.Engine {
	t.Helper()
	return newTestRouterWith(t, func(d *Deps) { d.AuthLimiter = limiter })
}

func newTestRouterWith(t *testing.T, configure func(*Deps)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupDB(t)
	clock := &tickingClock{now: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	d := Deps{
		Auth:     di.NewAuthHandler(db, secret, time.Hour, authusecase.WithHashCost(bcrypt.MinCost)),
		Tasks:    di.NewTaskHandler(db, taskusecase.WithClock(clock.Now)),
		Verifier: jwtmw.NewVerifier(secret),
	}
	configure(&d)
	return NewRouter(d)
}

type client struct {
	t *testing.T
	r http.Handler
}

func (c client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(c.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:40000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (c client) signup(name, email string) api.AuthResponse {
	c.t.Helper()
	w := c.do(http.MethodPost, "/auth/signup", "", gin.H{"name": name, "email": email, "password": "secret1"})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[api.AuthResponse](c.t, w)
}

func (c client) createTask(token, title string) api.Task {
	c.t.Helper()
	w := c.do(http.MethodPost, "/tasks", token, gin.H{"title": title})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[api.Task](c.t, w)
}

// TestScenario はサインアップからタスク削除までの一連の流れを実際のルーターで検証します。
func TestScenario(t *testing.T) {
	c := client{t: t, r: newTestRouter(t, nil)}

	ann := c.signup("Ann", "Ann@X.com ")
	assert.NotEmpty(t, ann.Token)
	assert.Equal(t, "ann@x.com", ann.User.Email, "email is normalised")
	assert.Equal(t, "Ann", ann.User.Name)

	// 重複登録
	w := c.do(http.MethodPost, "/auth/signup", "", gin.H{"name": "Ann2", "email": "ann@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email already in use"}`, w.Body.String())

	// パスワード誤りと未登録メールは区別できない
	wrong := c.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ann@x.com", "password": "nope"})
	unknown := c.do(http.MethodPost, "/auth/login", "", gin.H{"email": "who@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, wrong.Body.String())

	w = c.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ann@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[api.AuthResponse](t, w).Token

	w = c.do(http.MethodGet, "/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[map[string]any](t, w)
	assert.Equal(t, ann.User.Id.String(), profile["id"])
	assert.Contains(t, profile, "createdAt")
	assert.NotContains(t, profile, "password")

	// 作成と一覧
	t1 := c.createTask(token, "T1")
	assert.Equal(t, 3, t1.Priority)
	assert.False(t, t1.Completed)
	assert.Nil(t, t1.DueDate)
	assert.Equal(t, ann.User.Id, t1.UserId)
	t2 := c.createTask(token, "T2")
	t3 := c.createTask(token, "T3")

	w = c.do(http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]api.Task](t, w)
	require.Len(t, list, 3)
	assert.Equal(t, []string{t3.Id.String(), t2.Id.String(), t1.Id.String()},
		[]string{list[0].Id.String(), list[1].Id.String(), list[2].Id.String()})

	// トグル2回で元に戻り、updatedAtは毎回更新される
	w = c.do(http.MethodPatch, "/tasks/"+t1.Id.String()+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	once := decode[api.Task](t, w)
	assert.True(t, once.Completed)
	assert.True(t, once.UpdatedAt.After(t1.UpdatedAt))
	assert.True(t, once.CreatedAt.Equal(t1.CreatedAt))

	w = c.do(http.MethodPatch, "/tasks/"+t1.Id.String()+"/toggle", token, nil)
	twice := decode[api.Task](t, w)
	assert.False(t, twice.Completed)
	assert.True(t, twice.UpdatedAt.After(once.UpdatedAt))

	// 全置換の更新
	w = c.do(http.MethodPut, "/tasks/"+t2.Id.String(), token,
		gin.H{"title": " T2b ", "priority": 1, "dueDate": "2026-07-01T09:00:00Z", "completed": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[api.Task](t, w)
	assert.Equal(t, "T2b", updated.Title)
	assert.Equal(t, 1, updated.Priority)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.DueDate)

	w = c.do(http.MethodGet, "/tasks/"+t2.Id.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[api.Task](t, w)
	assert.Equal(t, "T2b", got.Title)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)))

	w = c.do(http.MethodPut, "/tasks/"+t2.Id.String(), token, gin.H{"title": "T2c"})
	reset := decode[api.Task](t, w)
	assert.Equal(t, 3, reset.Priority, "omitted fields fall back to defaults")
	assert.False(t, reset.Completed)
	assert.Nil(t, reset.DueDate)

	w = c.do(http.MethodPut, "/tasks/"+t2.Id.String(), token, gin.H{"title": "x", "priority": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Priority must be one of 1, 2, 3"}`, w.Body.String())

	// 削除
	w = c.do(http.MethodDelete, "/tasks/"+t1.Id.String(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, w.Body.String())

	w = c.do(http.MethodDelete, "/tasks/"+t1.Id.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())

	w = c.do(http.MethodGet, "/tasks/"+t1.Id.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestOwnershipIsolation は他ユーザーのタスクが存在しないものとして扱われることを検証します。
func TestOwnershipIsolation(t *testing.T) {
	c := client{t: t, r: newTestRouter(t, nil)}

	ann := c.signup("Ann", "ann@x.com")
	bob := c.signup("Bob", "bob@x.com")
	task := c.createTask(ann.Token, "private")
	path := "/tasks/" + task.Id.String()

	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, path, nil},
		{http.MethodPut, path, gin.H{"title": "hijacked"}},
		{http.MethodPatch, path + "/toggle", nil},
		{http.MethodDelete, path, nil},
	} {
		w := c.do(tc.method, tc.path, bob.Token, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())
	}

	w := c.do(http.MethodGet, "/tasks", bob.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = c.do(http.MethodGet, path, ann.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[api.Task](t, w)
	assert.Equal(t, "private", got.Title)
	assert.False(t, got.Completed)
}

// TestAuthGate はトークンなし、不正なトークンの扱いを検証します。
func TestAuthGate(t *testing.T) {
	c := client{t: t, r: newTestRouter(t, nil)}

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", `{"error":"No token provided"}`},
		{"bare bearer", "Bearer", `{"error":"No token provided"}`},
		{"garbage", "Bearer not.a.jwt", `{"error":"Invalid token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/tasks", "/auth/profile"} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				if tt.header != "" {
					req.Header.Set("Authorization", tt.header)
				}
				w := httptest.NewRecorder()
				c.r.ServeHTTP(w, req)

				assert.Equal(t, http.StatusUnauthorized, w.Code, path)
				assert.JSONEq(t, tt.want, w.Body.String(), path)
			}
		})
	}

	t.Run("token without Bearer prefix is accepted", func(t *testing.T) {
		c := client{t: t, r: c.r}
		ann := c.signup("Ann", "ann@x.com")
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", ann.Token)
		w := httptest.NewRecorder()
		c.r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMalformedInput(t *testing.T) {
	c := client{t: t, r: newTestRouter(t, nil)}
	ann := c.signup("Ann", "ann@x.com")

	w := c.do(http.MethodPost, "/tasks", ann.Token, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())

	w = c.do(http.MethodPost, "/tasks", ann.Token, gin.H{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Title is required"}`, w.Body.String())

	w = c.do(http.MethodGet, "/tasks/not-a-uuid", ann.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodPost, "/auth/signup", "", gin.H{"name": "Ann", "email": "short@x.com", "password": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must be at least 6 characters"}`, w.Body.String())
}

func TestHealthRoute(t *testing.T) {
	c := client{t: t, r: newTestRouter(t, nil)}

	w := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = c.do(http.MethodHead, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestAuthRateLimit(t *testing.T) {
	c := client{t: t, r: newTestRouter(t, ratelimiter.NewRateLimiter(2, time.Minute))}

	for i := 0; i < 2; i++ {
		w := c.do(http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := c.do(http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "nope"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// ヘルスチェックは制限対象外
	w = c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// loginFrom は指定した接続元とX-Forwarded-Forでログインを試行します。
func loginFrom(r http.Handler, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"email":"a@x.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthRateLimit_ForwardedFor(t *testing.T) {
	t.Run("untrusted peer cannot rotate X-Forwarded-For", func(t *testing.T) {
		r := newTestRouter(t, ratelimiter.NewRateLimiter(2, time.Minute))

		var codes []int
		for i := 0; i < 5; i++ {
			codes = append(codes, loginFrom(r, "192.0.2.10:40000", fmt.Sprintf("203.0.113.%d", i)))
		}

		assert.Equal(t, []int{401, 401, 429, 429, 429}, codes)
	})

	t.Run("trusted proxy forwards the client address", func(t *testing.T) {
		r := newTestRouterWith(t, func(d *Deps) {
			d.AuthLimiter = ratelimiter.NewRateLimiter(1, time.Minute)
			d.TrustedProxies = []string{"192.0.2.10"}
		})

		assert.Equal(t, http.StatusUnauthorized, loginFrom(r, "192.0.2.10:40000", "203.0.113.1"))
		assert.Equal(t, http.StatusUnauthorized, loginFrom(r, "192.0.2.10:40000", "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, loginFrom(r, "192.0.2.10:40000", "203.0.113.1"))
	})

	t.Run("invalid proxy list trusts none", func(t *testing.T) {
		r := newTestRouterWith(t, func(d *Deps) {
			d.AuthLimiter = ratelimiter.NewRateLimiter(1, time.Minute)
			d.TrustedProxies = []string{"not-an-ip"}
		})

		assert.Equal(t, http.StatusUnauthorized, loginFrom(r, "192.0.2.10:40000", "203.0.113.1"))
		assert.Equal(t, http.StatusTooManyRequests, loginFrom(r, "192.0.2.10:40000", "203.0.113.2"))
	})
}

// TestSignupLoginTaskLifecycle はサインアップからタスク削除後の404までを順に検証します。
func TestSignupLoginTaskLifecycle(t *testing.T) {
	c := client{t: t, r: newTestRouter(t, nil)}

	signup := c.signup("Ann", "ann@x.com")
	claims, err := jwtmw.NewVerifier(secret).Verify(signup.Token)
	require.NoError(t, err)
	assert.Equal(t, signup.User.Id.String(), claims.Subject)
	assert.Equal(t, "ann@x.com", claims.Email)

	w := c.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ann@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())

	w = c.do(http.MethodPost, "/auth/login", "", gin.H{"email": "ann@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[api.AuthResponse](t, w).Token
	require.NotEmpty(t, token)

	task := c.createTask(token, "Buy milk")
	assert.Equal(t, 3, task.Priority)
	assert.Equal(t, "", task.Description)

	w = c.do(http.MethodPatch, "/tasks/"+task.Id.String()+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[api.Task](t, w).Completed)

	w = c.do(http.MethodDelete, "/tasks/"+task.Id.String(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/tasks/"+task.Id.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
