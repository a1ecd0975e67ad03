package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"impulsa-web/internal/app/http/middleware"
	"impulsa-web/internal/domain/session"
	"impulsa-web/internal/domain/users"
	"impulsa-web/internal/infra/authprovider"
	"impulsa-web/internal/infra/mailer"
	"impulsa-web/internal/logger"
	"impulsa-web/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	afterLoginPath  = "/courses"
	verifyTokenTTL  = 24 * time.Hour
	msgBadLogin     = "Correo o contraseña incorrectos"
	msgUnverified   = "Verifica tu correo antes de iniciar sesión"
	msgGoogleOnly   = "Esta cuenta usa el inicio de sesión con Google"
	msgRegistered   = "Te enviamos un enlace para verificar tu cuenta"
	msgVerified     = "Cuenta verificada. Ya puedes iniciar sesión"
	msgBadVerify    = "El enlace de verificación no es válido o expiró"
	msgEmailTaken   = "Ya existe una cuenta con ese correo"
	msgWeakPassword = "La contraseña debe tener al menos 8 caracteres, con letras y números"
	msgBadEmail     = "Correo inválido"
	msgMissing      = "Completa todos los campos"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Sessions issues and ends sessions.
type Sessions interface {
	SignIn(ctx context.Context, u session.User) (*session.Session, error)
	SignOut(ctx context.Context, token string, scope session.Scope) error
}

type Handler struct {
	db       *gorm.DB
	sessions Sessions
	mail     mailer.Sender
	google   *Google
	layout   web.Layout
	appURL   string
	secure   bool
	ttl      time.Duration
	now      func() time.Time
}

type Config struct {
	AppURL string
	// Secure marks the session cookie HTTPS-only.
	Secure bool
	TTL    time.Duration
	// Google is nil when Google sign-in is not configured.
	Google *Google
}

func NewHandler(db *gorm.DB, sessions Sessions, mail mailer.Sender, layout web.Layout, cfg Config) *Handler {
	return &Handler{
		db:       db,
		sessions: sessions,
		mail:     mail,
		google:   cfg.Google,
		layout:   layout,
		appURL:   strings.TrimRight(cfg.AppURL, "/"),
		secure:   cfg.Secure,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

func generateVerificationToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON || strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}

type authPage struct {
	Email   string
	Error   string
	Message string
	Google  bool
}

func (h *Handler) renderPage(c *gin.Context, code int, data authPage) {
	data.Google = h.google != nil
	c.HTML(code, "auth.html", h.layout.Page(c, "Ingresar", data))
}

// fail answers JSON clients with {"error"} and browsers with the auth page.
func (h *Handler) fail(c *gin.Context, code int, msg, email string) {
	if wantsJSON(c) {
		c.JSON(code, gin.H{"error": msg})
		return
	}
	h.renderPage(c, code, authPage{Email: email, Error: msg})
}

// GET /auth
func (h *Handler) Page(c *gin.Context) {
	if middleware.SessionFrom(c) != nil {
		c.Redirect(http.StatusSeeOther, afterLoginPath)
		return
	}

	data := authPage{}
	if c.Query("verified") != "" {
		data.Message = msgVerified
	}
	h.renderPage(c, http.StatusOK, data)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		h.fail(c, http.StatusBadRequest, msgMissing, input.Email)
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user users.User
	if err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		h.fail(c, http.StatusUnauthorized, msgBadLogin, email)
		return
	}

	if !user.IsVerified {
		h.fail(c, http.StatusForbidden, msgUnverified, email)
		return
	}
	if user.Password == nil || *user.Password == "" {
		h.fail(c, http.StatusUnauthorized, msgGoogleOnly, email)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		h.fail(c, http.StatusUnauthorized, msgBadLogin, email)
		return
	}

	h.startSession(c, user)
}

// startSession signs user in, sets the cookie and answers with the token
// (JSON) or a redirect to the catalog.
func (h *Handler) startSession(c *gin.Context, user users.User) {
	sess, err := h.sessions.SignIn(c.Request.Context(), session.User{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		logger.FromGin(c).Error("sign in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, sess.AccessToken, int(h.ttl.Seconds()), "/", "", h.secure, true)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"token": sess.AccessToken, "expires_at": sess.ExpiresAt})
		return
	}
	c.Redirect(http.StatusSeeOther, afterLoginPath)
}

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" form:"name" binding:"required"`
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		h.fail(c, http.StatusBadRequest, msgMissing, input.Email)
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !isEmailValid(email) {
		h.fail(c, http.StatusBadRequest, msgBadEmail, email)
		return
	}
	if !isPasswordStrong(input.Password) {
		h.fail(c, http.StatusBadRequest, msgWeakPassword, email)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	pw := string(hashed)

	user := users.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Password:     &pw,
		AuthProvider: users.ProviderLocal,
		Role:         users.RoleStudent,
	}

	ctx := c.Request.Context()
	var token string
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		var err error
		token, err = h.issueVerification(tx, user.ID)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		h.fail(c, http.StatusConflict, msgEmailTaken, email)
		return
	}
	if err != nil {
		logger.FromGin(c).Error("register", zap.Error(err))
		h.fail(c, http.StatusInternalServerError, "No se pudo crear la cuenta", email)
		return
	}

	if err := h.sendVerification(user, token); err != nil {
		logger.FromGin(c).Error("send verification email", zap.String("user_id", user.ID), zap.Error(err))
		h.fail(c, http.StatusInternalServerError, "No se pudo enviar el correo de verificación", email)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, gin.H{"message": msgRegistered})
		return
	}
	h.renderPage(c, http.StatusCreated, authPage{Email: email, Message: msgRegistered})
}

// issueVerification replaces any pending token of userID.
func (h *Handler) issueVerification(tx *gorm.DB, userID string) (string, error) {
	token, err := generateVerificationToken()
	if err != nil {
		return "", err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&users.VerificationToken{}).Error; err != nil {
		return "", err
	}
	err = tx.Create(&users.VerificationToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: h.now().Add(verifyTokenTTL),
	}).Error
	return token, err
}

// GET /auth/verify?token=
func (h *Handler) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Query("token")
	if token == "" {
		h.fail(c, http.StatusBadRequest, msgBadVerify, "")
		return
	}

	var vt users.VerificationToken
	if err := h.db.WithContext(ctx).Where("token = ?", token).First(&vt).Error; err != nil || vt.Expired(h.now()) {
		h.fail(c, http.StatusBadRequest, msgBadVerify, "")
		return
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&users.User{}).Where("id = ?", vt.UserID).Update("is_verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&vt).Error
	})
	if err != nil {
		logger.FromGin(c).Error("verify email", zap.Error(err))
		h.fail(c, http.StatusInternalServerError, "No se pudo verificar la cuenta", "")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": msgVerified})
		return
	}
	c.Redirect(http.StatusSeeOther, "/auth?verified=1")
}

// POST /auth/resend-verification
//
// Always answers the same way so the endpoint does not reveal accounts.
func (h *Handler) ResendVerification(c *gin.Context) {
	var body struct {
		Email string `json:"email" form:"email" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil {
		h.fail(c, http.StatusBadRequest, msgMissing, "")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))

	var user users.User
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error
	if err == nil && !user.IsVerified {
		token, err := h.issueVerification(h.db.WithContext(c.Request.Context()), user.ID)
		if err == nil {
			err = h.sendVerification(user, token)
		}
		if err != nil {
			logger.FromGin(c).Error("resend verification", zap.Error(err))
		}
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": msgRegistered})
		return
	}
	h.renderPage(c, http.StatusOK, authPage{Email: email, Message: msgRegistered})
}

// POST /auth/signout
//
// scope is "global" (every session of the user, the default) or "local".
func (h *Handler) SignOut(c *gin.Context) {
	scope := session.ParseScope(c.DefaultPostForm("scope", c.Query("scope")))
	token := middleware.TokenFrom(c)

	if token != "" {
		err := h.sessions.SignOut(c.Request.Context(), token, scope)
		switch {
		case errors.Is(err, authprovider.ErrInvalidToken):
			// stale or foreign token: nothing left to revoke
			logger.FromGin(c).Info("sign out with unreadable token")
		case err != nil:
			logger.FromGin(c).Error("sign out", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not sign out"})
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/auth")
}

// GET /api/session
func (h *Handler) Session(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"user":       sess.User,
		"expires_at": sess.ExpiresAt,
	})
}
