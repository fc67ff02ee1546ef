package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	iauth "github.com/devmonks/metrdotel/internal/auth"
	"github.com/devmonks/metrdotel/internal/models"
	"github.com/devmonks/metrdotel/internal/notify"
	"github.com/devmonks/metrdotel/internal/services"
)

type stubNotifier struct {
	events []notify.Event
}

func (n *stubNotifier) Notify(event notify.Event) {
	n.events = append(n.events, event)
}

type accountFixture struct {
	router   *gin.Engine
	notifier *stubNotifier
	db       *gorm.DB
}

func newAccountRouter(t *testing.T) *accountFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ActivationToken{}, &models.PasswordResetToken{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ledger, err := services.NewTokenLedger(db)
	require.NoError(t, err)
	notifier := &stubNotifier{}
	accounts, err := services.NewAccountService(db, ledger, notifier)
	require.NoError(t, err)
	tokens, err := iauth.NewTokenService(iauth.TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)
	authSvc, err := services.NewAuthService(db, tokens)
	require.NoError(t, err)

	registration := NewRegistrationHandler(accounts)
	login := NewAuthHandler(authSvc)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", login.Login)
	api.POST("/registration/signup", registration.Signup)
	api.POST("/registration/resend", registration.ResendActivation)
	api.GET("/registration/activate/:token", registration.Activate)
	api.POST("/registration/password-reset", registration.RequestPasswordReset)
	api.GET("/registration/password-reset/:token", registration.VerifyPasswordResetToken)
	api.POST("/registration/password-reset/:token", registration.ResetPassword)

	return &accountFixture{router: r, notifier: notifier, db: db}
}

func (f *accountFixture) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func (f *accountFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func TestSignupActivateLoginFlow(t *testing.T) {
	f := newAccountRouter(t)

	w := f.postJSON(t, "/api/registration/signup", gin.H{
		"first_name": "Jo",
		"last_name":  "Doe",
		"email":      "jo@b.com",
		"password":   "Secret#123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.notifier.events, 1)

	w = f.get(t, "/api/registration/activate/"+f.notifier.events[0].Token)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, f.db.Where("email = ?", "jo@b.com").First(&user).Error)
	require.True(t, user.Enabled)

	w = f.postJSON(t, "/api/auth/login", gin.H{"email": "jo@b.com", "password": "Secret#123"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Authorization"), "Bearer ")
	require.Contains(t, w.Body.String(), `"token"`)
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	f := newAccountRouter(t)

	w := f.postJSON(t, "/api/registration/signup", gin.H{
		"first_name": "Jo",
		"last_name":  "Doe",
		"email":      "jo@b.com",
		"password":   "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "password")
}

func TestDuplicateSignupConflicts(t *testing.T) {
	f := newAccountRouter(t)

	payload := gin.H{"first_name": "Jo", "last_name": "Doe", "email": "jo@b.com", "password": "Secret#123"}
	require.Equal(t, http.StatusCreated, f.postJSON(t, "/api/registration/signup", payload).Code)

	w := f.postJSON(t, "/api/registration/signup", payload)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "DUPLICATE_ACCOUNT")
}

func TestLoginWrongPasswordIs401(t *testing.T) {
	f := newAccountRouter(t)

	payload := gin.H{"first_name": "Jo", "last_name": "Doe", "email": "jo@b.com", "password": "Secret#123"}
	require.Equal(t, http.StatusCreated, f.postJSON(t, "/api/registration/signup", payload).Code)

	// Wrong password and unknown account produce the same response shape.
	w := f.postJSON(t, "/api/auth/login", gin.H{"email": "jo@b.com", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")

	w = f.postJSON(t, "/api/auth/login", gin.H{"email": "ghost@b.com", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestActivateUnknownTokenIs400(t *testing.T) {
	f := newAccountRouter(t)

	w := f.get(t, "/api/registration/activate/never-issued")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAccountRouter(t)

	payload := gin.H{"first_name": "Jo", "last_name": "Doe", "email": "jo@b.com", "password": "Secret#123"}
	require.Equal(t, http.StatusCreated, f.postJSON(t, "/api/registration/signup", payload).Code)

	w := f.postJSON(t, "/api/registration/password-reset", gin.H{"email": "jo@b.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.notifier.events, 2)
	token := f.notifier.events[1].Token

	require.Equal(t, http.StatusOK, f.get(t, "/api/registration/password-reset/"+token).Code)

	w = f.postJSON(t, "/api/registration/password-reset/"+token, gin.H{"password": "Fresh#456"})
	require.Equal(t, http.StatusOK, w.Code)

	// Token is single-use.
	w = f.postJSON(t, "/api/registration/password-reset/"+token, gin.H{"password": "Other#789"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.postJSON(t, "/api/auth/login", gin.H{"email": "jo@b.com", "password": "Fresh#456"})
	require.Equal(t, http.StatusOK, w.Code)
}
