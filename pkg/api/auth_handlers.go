package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/setara/authcore/pkg/auth"
	"github.com/setara/authcore/pkg/contextkeys"
	"github.com/setara/authcore/pkg/httputil"
	"github.com/setara/authcore/pkg/middleware"
	"github.com/setara/authcore/pkg/observability"
	"github.com/setara/authcore/pkg/validation"
)

// Success messages
const (
	MsgLoginSuccess  = "Login berhasil"
	MsgLogoutSuccess = "Logout berhasil"
)

// LoginResponse is the body of a successful login
type LoginResponse struct {
	Error       bool    `json:"error"`
	Message     string  `json:"message"`
	Role        string  `json:"role"`
	RoleID      *string `json:"role_id"`
	AccessToken string  `json:"access_token"`
}

// AuthHandlers handles login and logout
type AuthHandlers struct {
	service       *auth.Service
	maxFormMemory int64
}

// NewAuthHandlers creates a new auth handlers instance
// Errors are logged through the request-scoped logger.
func NewAuthHandlers(service *auth.Service, maxFormMemory int64) *AuthHandlers {
	return &AuthHandlers{
		service:       service,
		maxFormMemory: maxFormMemory,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.Handle("/auth/login", h.withLoginForm(middleware.Public(http.HandlerFunc(h.login)))).Methods(http.MethodPost)
	router.Handle("/auth/logout", middleware.Private()(http.HandlerFunc(h.logout))).Methods(http.MethodGet)
}

// withLoginForm parses and validates the login form before next runs
func (h *AuthHandlers) withLoginForm(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values, ok := httputil.ParseFormOrError(w, r, h.maxFormMemory)
		if !ok {
			return
		}

		form, errs := validation.ValidateLogin(values)
		if errs.HasErrors() {
			httputil.WriteValidationError(w, errs)
			return
		}

		next.ServeHTTP(w, r.WithContext(contextkeys.WithLoginForm(r.Context(), form)))
	})
}

// login handles POST /auth/login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	form, _ := r.Context().Value(contextkeys.LoginFormKey).(*validation.LoginForm)
	if form == nil {
		httputil.WriteInternalError(w)
		return
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP == "" {
		realIP = contextkeys.GetClientAddress(r.Context())
	}

	result, err := h.service.Login(r.Context(), auth.LoginRequest{
		Method:            form.Method,
		Identifier:        form.Identifier,
		Password:          form.Password,
		NotificationToken: form.NotificationToken,
		RealIP:            realIP,
		UserAgent:         r.UserAgent(),
	})
	if err != nil {
		if auth.KindOf(err) == auth.KindInternal {
			observability.FromContext(r.Context()).WithError(err).Error("login failed")
		}
		httputil.WriteAuthError(w, err)
		return
	}

	_ = httputil.WriteCreated(w, LoginResponse{
		Message:     MsgLoginSuccess,
		Role:        result.Role,
		AccessToken: result.Token,
	})
}

// logout handles GET /auth/logout
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.GetIdentity(r)); err != nil {
		if auth.KindOf(err) == auth.KindInternal {
			observability.FromContext(r.Context()).WithError(err).Error("logout failed")
		}
		httputil.WriteAuthError(w, err)
		return
	}

	_ = httputil.WriteMessage(w, http.StatusOK, MsgLogoutSuccess)
}
