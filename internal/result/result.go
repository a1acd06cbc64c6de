// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Package result defines the response envelope returned by every account
// operation.
package result

import (
	"errors"

	"github.com/samber/oops"
)

// Status messages carried in Result.Messages and Result.Errors.
const (
	MessageAdded            = "Added"
	MessageSuccess          = "Success"
	MessageCheckPassword    = "Please check your password."
	MessageSomethingWrong   = "Something went wrong."
	MessageEmailExists      = "Email already exist"
	MessageLoggedOut        = "Logged out"
	MessageUnauthorized     = "Unauthorized"
	MessageInvalidRequest   = "Invalid request"
	MessageUserNotFound     = "User not found"
	MessageEmailRequired    = "Email is required"
	MessagePasswordRequired = "Password is required"
)

// Result is the envelope returned by account operations. Callers branch on
// Succeeded; Errors and Messages hold human-readable text.
type Result[T any] struct {
	Succeeded bool     `json:"succeeded"`
	Errors    []string `json:"errors"`
	Messages  []string `json:"messages"`
	IsExist   bool     `json:"isExist"`
	ReturnID  int      `json:"returnId"`
	Data      T        `json:"data"`

	err error
}

// Success returns a successful envelope carrying data.
func Success[T any](data T, messages ...string) Result[T] {
	if len(messages) == 0 {
		messages = []string{MessageSuccess}
	}
	return Result[T]{
		Succeeded: true,
		Errors:    []string{},
		Messages:  messages,
		Data:      data,
	}
}

// Failure returns a failed envelope for err. The envelope's error text is the
// public message attached to err, or MessageSomethingWrong when there is none,
// so internal details never leak to callers.
func Failure[T any](err error) Result[T] {
	return Result[T]{
		Errors:   []string{PublicMessage(err)},
		Messages: []string{},
		err:      err,
	}
}

// WithReturnID sets ReturnID on r.
func (r Result[T]) WithReturnID(id int) Result[T] {
	r.ReturnID = id
	return r
}

// WithExists marks r as describing an entity that already exists.
func (r Result[T]) WithExists() Result[T] {
	r.IsExist = true
	return r
}

// Err returns the error that caused a failed result, or nil.
func (r Result[T]) Err() error {
	if r.Succeeded {
		return nil
	}
	if r.err == nil {
		return errors.New(MessageSomethingWrong)
	}
	return r.err
}

// PublicMessage returns the caller-safe message for err.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	return oops.GetPublic(err, MessageSomethingWrong)
}
