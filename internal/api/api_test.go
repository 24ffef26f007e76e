package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"phPortfolio/internal/auth"
	"phPortfolio/internal/config"
	"phPortfolio/internal/content"
	"phPortfolio/internal/database"
	"phPortfolio/internal/media"
)

const (
	testAdminEmail    = "owner@example.com"
	testAdminPassword = "correct-horse"
	testInitSecret    = "init-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUploader struct {
	mu    sync.Mutex
	files []media.File
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, f media.File) (*media.Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return nil, u.err
	}
	if len(f.Data) == 0 {
		return nil, media.ErrEmptyFile
	}
	u.files = append(u.files, f)
	return &media.Result{
		URL:          "https://media.example.invalid/" + f.Name,
		PublicID:     "portfolio/" + f.Name,
		Format:       "png",
		ResourceType: "image",
		FileName:     f.Name,
		FileType:     f.ContentType,
		Bytes:        int64(len(f.Data)),
	}, nil
}

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	authSvc  *auth.AuthService
	uploader *fakeUploader
	cfg      *config.Config
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestServer(t *testing.T, limiter LoginLimiter) *testServer {
	t.Helper()
	return newTestServerWith(t, limiter, nil)
}

// newTestServerWith 允许在注册路由前调整配置。
func newTestServerWith(t *testing.T, limiter LoginLimiter, configure func(*config.Config)) *testServer {
	t.Helper()
	db := newTestDB(t)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Secret:             "test-secret",
			SessionTTL:         time.Hour,
			LoginRateLimit:     10,
			LoginLockThreshold: 3,
			LoginLockTTL:       time.Minute,
		},
		Admin: config.AdminConfig{Email: testAdminEmail, Password: testAdminPassword, Name: "Owner"},
		Init:  config.InitConfig{Secret: testInitSecret},
	}
	if configure != nil {
		configure(cfg)
	}

	authSvc, err := auth.NewAuthService(db, cfg.Auth.Secret, cfg.Auth.SessionTTL)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	router, err := NewRouter(zap.NewNop())
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	uploader := &fakeUploader{}
	RegisterRoutes(router, Deps{
		Config:      cfg,
		Store:       content.NewStore(db),
		AuthService: authSvc,
		Uploader:    uploader,
		Limiter:     limiter,
	})

	return &testServer{router: router, db: db, authSvc: authSvc, uploader: uploader, cfg: cfg}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) request(method, target, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

// adminToken 创建管理员并登录，返回令牌。
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	if _, err := s.authSvc.EnsureAdmin(context.Background(), "Owner", testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	token, _, err := s.authSvc.SignIn(context.Background(), testAdminEmail, testAdminPassword, "", "")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

func newMultipartUpload(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename)}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}
