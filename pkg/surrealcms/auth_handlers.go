package surrealcms

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/surrealdb/surrealcms/pkg/client"
	"github.com/surrealdb/surrealcms/pkg/models"
)

// Bearer-token sessions. Tokens are opaque 64-character hex strings kept in
// the in-memory map on App; they never expire on their own, so signout and
// refresh are the only ways one leaves the map. All map access goes through
// issueSession, sessionUser, and dropSession, which own the mutex
// discipline.

// generateToken mints a session token from 32 bytes of crypto/rand.
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// issueSession mints a fresh token and registers it for user.
func (a *App) issueSession(user *models.User) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	a.sessionMu.Lock()
	a.sessions[token] = user
	a.sessionMu.Unlock()
	return token, nil
}

// sessionUser resolves a token to its signed-in user. The empty token never
// resolves, so callers can feed it the raw header value.
func (a *App) sessionUser(token string) (*models.User, bool) {
	a.sessionMu.RLock()
	user, ok := a.sessions[token]
	a.sessionMu.RUnlock()
	return user, ok
}

// dropSession forgets a token. Unknown tokens are a no-op.
func (a *App) dropSession(token string) {
	a.sessionMu.Lock()
	delete(a.sessions, token)
	a.sessionMu.Unlock()
}

// respondAuth issues a session for user and answers with the token and user
// pair every auth endpoint returns.
func (a *App) respondAuth(w http.ResponseWriter, user *models.User) {
	token, err := a.issueSession(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, client.AuthResponse{Token: token, User: user})
}

// getTokenFromHeader extracts the bearer token from the Authorization
// header, tolerating a missing "Bearer " prefix.
func getTokenFromHeader(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const bearerPrefix = "Bearer "
	if len(auth) > len(bearerPrefix) && auth[:len(bearerPrefix)] == bearerPrefix {
		return auth[len(bearerPrefix):]
	}
	return auth
}

// handleSignUp registers a new account and signs it in immediately, so
// clients go straight from signup to authenticated calls.
//
// Passwords are accepted but not yet verified or stored; credential
// handling lives with the identity provider this service fronts.
func (a *App) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req client.SignUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	now := time.Now()
	user := &models.User{
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.CreateUser(r.Context(), user); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.respondAuth(w, user)
}

// handleSignIn authenticates an existing user by email.
func (a *App) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req client.SignInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	a.respondAuth(w, user)
}

// handleSignOut invalidates the presented token. Signing out an unknown or
// absent token still reports success.
func (a *App) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if token := getTokenFromHeader(r); token != "" {
		a.dropSession(token)
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleGetCurrentUser returns the user the presented token belongs to.
func (a *App) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := a.sessionUser(getTokenFromHeader(r))
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleRefreshToken exchanges a valid token for a fresh one. The new token
// is issued before the old one is dropped, so a failed mint leaves the
// session usable.
func (a *App) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	oldToken := getTokenFromHeader(r)
	user, ok := a.sessionUser(oldToken)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := a.issueSession(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.dropSession(oldToken)

	respondJSON(w, http.StatusOK, client.AuthResponse{Token: token, User: user})
}
