package mockbackend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rajgupta764/legal-saarthi/internal/common"
)

const minPasswordLength = 6

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
	IsActive  bool   `json:"is_active"`
}

func (a *account) response() userResponse {
	return userResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt.UTC().Format("2006-01-02T15:04:05"),
		IsActive:  a.Active,
	}
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type tokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Seed registers an account directly, bypassing the signup route.
func (s *Server) Seed(name, email, phone, password string) error {
	_, err := s.register(name, email, phone, password)
	return err
}

func (s *Server) register(name, email, phone, password string) (*account, error) {
	if len(password) < minPasswordLength {
		return nil, errPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	key := normalizeEmail(email)
	a := &account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        key,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hash,
		CreatedAt:    s.now(),
		Active:       true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[key]; exists {
		return nil, common.ErrorAlreadyExists
	}
	s.accounts[key] = a
	return a, nil
}

var errPasswordTooShort = errors.New("password too short")

func (s *Server) authenticate(email, password string) (*account, error) {
	s.mu.RLock()
	a, ok := s.accounts[normalizeEmail(email)]
	s.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	return a, nil
}

// IssueToken signs a token for the given account the same way login does.
func (s *Server) IssueToken(email string) (string, error) {
	s.mu.RLock()
	a, ok := s.accounts[normalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return "", common.ErrorNotFound
	}
	return s.issueToken(a)
}

func (s *Server) issueToken(a *account) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Email: a.Email,
		Name:  a.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	s.mu.RLock()
	secret := s.secret
	s.mu.RUnlock()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Server) verifyToken(token string) (*tokenClaims, error) {
	s.mu.RLock()
	secret := s.secret
	s.mu.RUnlock()

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	case err != nil:
		return nil, common.ErrInvalidToken
	}
	return &claims, nil
}

// bearer extracts and verifies the request token. On failure it has already
// written the 401 response.
func (s *Server) bearer(w http.ResponseWriter, r *http.Request, rejectMsg string) (*tokenClaims, bool) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		writeFailure(w, http.StatusUnauthorized, "Missing token", "प्रमाणीकरण टोकन आवश्यक है")
		return nil, false
	}
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || token == "" {
		writeFailure(w, http.StatusUnauthorized, "Invalid token format", "अमान्य टोकन प्रारूप")
		return nil, false
	}

	claims, err := s.verifyToken(token)
	if err != nil {
		code := "Invalid token"
		if errors.Is(err, common.ErrTokenExpired) {
			code = "Token expired"
		}
		s.log.Info(r.Context(), "token rejected", "reason", code)
		writeFailure(w, http.StatusUnauthorized, code, rejectMsg)
		return nil, false
	}
	return claims, true
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON", "अमान्य अनुरोध")
		return
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"email", req.Email}, {"name", req.Name}, {"phone", req.Phone}, {"password", req.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		writeFailure(w, http.StatusBadRequest, "Missing required fields", "आवश्यक फ़ील्ड गुम हैं: "+strings.Join(missing, ", "))
		return
	}

	a, err := s.register(req.Name, req.Email, req.Phone, req.Password)
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		writeFailure(w, http.StatusBadRequest, "Email already exists", "यह ईमेल पहले से पंजीकृत है")
		return
	case errors.Is(err, errPasswordTooShort):
		writeFailure(w, http.StatusBadRequest, "Password too short", "पासवर्ड कम से कम 6 अक्षर का होना चाहिए")
		return
	case err != nil:
		s.log.Error(r.Context(), "signup failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, err.Error(), "पंजीकरण में विफल")
		return
	}

	s.respondWithSession(r.Context(), w, http.StatusCreated, a, "User registered successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeFailure(w, http.StatusBadRequest, "Missing credentials", "ईमेल और पासवर्ड आवश्यक हैं")
		return
	}

	a, err := s.authenticate(req.Email, req.Password)
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "Invalid credentials", "गलत ईमेल या पासवर्ड")
		return
	}
	if !a.Active {
		writeFailure(w, http.StatusUnauthorized, "Account disabled", "आपका खाता अक्षम है")
		return
	}

	s.respondWithSession(r.Context(), w, http.StatusOK, a, "Login successful")
}

func (s *Server) respondWithSession(ctx context.Context, w http.ResponseWriter, status int, a *account, msg string) {
	token, err := s.issueToken(a)
	if err != nil {
		s.log.Error(ctx, "failed to sign token", "error", err)
		writeFailure(w, http.StatusInternalServerError, err.Error(), "टोकन बनाने में विफल")
		return
	}
	writeJSON(w, status, envelope{
		Success: true,
		Message: msg,
		Data:    authResponse{User: a.response(), Token: token},
	})
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.bearer(w, r, "टोकन अमान्य या समाप्त हो गया")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Token is valid",
		Data: map[string]any{
			"email": claims.Email,
			"name":  claims.Name,
			"exp":   claims.ExpiresAt.Unix(),
		},
	})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.bearer(w, r, "अनधिकृत पहुंच")
	if !ok {
		return
	}

	s.mu.RLock()
	a, found := s.accounts[normalizeEmail(claims.Email)]
	s.mu.RUnlock()
	if !found {
		writeJSON(w, http.StatusOK, envelope{Success: true})
		return
	}
	writeData(w, http.StatusOK, a.response())
}
