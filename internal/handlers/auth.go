// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"lexcms/internal/auth"
	"lexcms/internal/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otpCode"`
}

// Login handles POST /api/auth/login.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeValidationError(w, "email and password are required")
		return
	}

	res, err := a.auth.Login(req.Email, req.Password, req.OTPCode,
		middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"token":       res.Token,
		"role":        res.Role,
		"permissions": res.Permissions,
	})
}

type tokenRequest struct {
	Token string `json:"token"`
}

// requestToken resolves the session token for logout/verify: a `{token}`
// body takes precedence, with the bearer header as fallback.
func requestToken(r *http.Request) string {
	var req tokenRequest
	if err := decodeBody(r, &req); err == nil && req.Token != "" {
		return req.Token
	}
	return middleware.BearerToken(r)
}

// Logout handles POST /api/auth/logout. The token comes from the request
// body or the bearer header; unknown tokens succeed.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.auth.Logout(requestToken(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Verify handles POST /api/auth/verify: reports whether a `{token}` body
// still resolves to a live session.
func (a *API) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.Verify(requestToken(r))
	if errors.Is(err, auth.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":       true,
		"role":        user.Role,
		"permissions": user.Permissions,
	})
}

// Session handles GET /api/auth/session: resolves the bearer token to its
// user, or 401.
func (a *API) Session(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.Verify(middleware.BearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"email":       user.Email,
		"role":        user.Role,
		"permissions": user.Permissions,
	})
}
