// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/samber/oops"

	"github.com/calcuzon/accounts/internal/auth"
	"github.com/calcuzon/accounts/internal/result"
)

const maxBodyBytes = 64 << 10

// createUserRequest is the registration payload.
type createUserRequest struct {
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Password  string `json:"password"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, result.Failure[int](badRequest(err)))
		return
	}

	user := &auth.User{
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
	}
	res := h.svc.AddUser(r.Context(), user, req.Password)
	writeJSON(w, statusFor(res.Err()), res)
}

func (h *Handler) getUserByUserID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, result.Failure[auth.UserView](badRequest(err)))
		return
	}
	res := h.svc.GetUserByUserID(r.Context(), id)
	writeJSON(w, statusFor(res.Err()), res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := h.svc.Login(r.Context(), q.Get("email"), q.Get("password"))
	writeJSON(w, statusFor(res.Err()), res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, result.Failure[bool](unauthorized()))
		return
	}
	res := h.svc.Logout(r.Context(), id)
	writeJSON(w, statusFor(res.Err()), res)
}

// statusFor maps a service outcome to an HTTP status. Only malformed input
// changes the status; domain failures travel in the envelope.
func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == auth.CodeValidation {
		return http.StatusBadRequest
	}
	return http.StatusOK
}

func badRequest(err error) error {
	return oops.Code(auth.CodeValidation).Public(result.MessageInvalidRequest).Wrap(err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // write error is acceptable, client may disconnect
	json.NewEncoder(w).Encode(body)
}
