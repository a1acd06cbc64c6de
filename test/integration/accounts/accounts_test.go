// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

//go:build integration

package accounts_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/calcuzon/accounts/internal/auth"
	"github.com/calcuzon/accounts/internal/result"
)

type envelope[T any] struct {
	result.Result[T]
	status int
}

func call[T any](req *http.Request) envelope[T] {
	GinkgoHelper()
	resp, err := env.server.Client().Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	var out envelope[T]
	out.status = resp.StatusCode
	Expect(json.NewDecoder(resp.Body).Decode(&out.Result)).To(Succeed())
	return out
}

func register(email, password string) envelope[int] {
	GinkgoHelper()
	body, err := json.Marshal(map[string]string{
		"userName":  "alice",
		"firstName": "Alice",
		"lastName":  "Liddell",
		"email":     email,
		"phone":     "555-0100",
		"company":   "Calcuzon",
		"password":  password,
	})
	Expect(err).NotTo(HaveOccurred())
	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/User/CreateUser", bytes.NewReader(body))
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	return call[int](req)
}

func login(email, password string) envelope[auth.UserView] {
	GinkgoHelper()
	q := url.Values{"email": {email}, "password": {password}}
	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/User/Login?"+q.Encode(), nil)
	Expect(err).NotTo(HaveOccurred())
	return call[auth.UserView](req)
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

var _ = Describe("Accounts API", func() {
	BeforeEach(resetState)

	Describe("registration", func() {
		It("stores the user and returns its id", func() {
			res := register("a@b.com", "Secret123!")
			Expect(res.status).To(Equal(http.StatusOK))
			Expect(res.Succeeded).To(BeTrue())
			Expect(res.Messages).To(ConsistOf(result.MessageAdded))
			Expect(res.ReturnID).To(BeNumerically(">", 0))
			Expect(res.Data).To(Equal(res.ReturnID))
		})

		It("flags a duplicate email", func() {
			Expect(register("a@b.com", "Secret123!").Succeeded).To(BeTrue())

			res := register("a@b.com", "Other456!")
			Expect(res.Succeeded).To(BeFalse())
			Expect(res.IsExist).To(BeTrue())
			Expect(res.Errors).To(ConsistOf(result.MessageEmailExists))
		})

		It("rejects a missing email with 400", func() {
			res := register("", "Secret123!")
			Expect(res.status).To(Equal(http.StatusBadRequest))
			Expect(res.Errors).To(ConsistOf(result.MessageEmailRequired))
		})
	})

	Describe("login", func() {
		var userID int

		BeforeEach(func() {
			res := register("a@b.com", "Secret123!")
			Expect(res.Succeeded).To(BeTrue())
			userID = res.ReturnID
		})

		It("issues a token that expires in the future", func() {
			res := login("a@b.com", "Secret123!")
			Expect(res.Succeeded).To(BeTrue())
			Expect(res.Data.UserID).To(Equal(userID))
			Expect(res.Data.Email).To(Equal("a@b.com"))
			Expect(res.Data.Token).NotTo(BeEmpty())
			Expect(res.Data.TokenExpire).To(BeTemporally(">", time.Now().Add(11*time.Hour)))
		})

		It("reuses the cached token on the next login", func() {
			first := login("a@b.com", "Secret123!")
			Expect(first.Succeeded).To(BeTrue())
			Expect(env.redis.Exists(fmt.Sprintf("token:%d", userID))).To(BeTrue())

			before := testutil.ToFloat64(env.metrics.TokensIssued.WithLabelValues(auth.SourceCache))
			second := login("a@b.com", "Secret123!")
			Expect(second.Data.Token).To(Equal(first.Data.Token))
			Expect(second.Data.TokenExpire).To(BeTemporally("==", first.Data.TokenExpire))
			Expect(testutil.ToFloat64(env.metrics.TokensIssued.WithLabelValues(auth.SourceCache))).
				To(Equal(before + 1))
		})

		It("mints a new token after the cached one expires", func() {
			first := login("a@b.com", "Secret123!")
			env.redis.FastForward(13 * time.Hour)
			Expect(env.redis.Exists(fmt.Sprintf("token:%d", userID))).To(BeFalse())

			second := login("a@b.com", "Secret123!")
			Expect(second.Succeeded).To(BeTrue())
			Expect(second.Data.Token).NotTo(Equal(first.Data.Token))
		})

		It("refuses a wrong password", func() {
			res := login("a@b.com", "wrong")
			Expect(res.status).To(Equal(http.StatusOK))
			Expect(res.Succeeded).To(BeFalse())
			Expect(res.Errors).To(ConsistOf(result.MessageCheckPassword))
			Expect(res.Data.Token).To(BeEmpty())
		})

		It("reports an unknown email", func() {
			res := login("ghost@b.com", "Secret123!")
			Expect(res.Succeeded).To(BeFalse())
			Expect(res.Errors).To(ConsistOf(result.MessageUserNotFound))
		})
	})

	Describe("authorized endpoints", func() {
		var (
			userID int
			token  string
		)

		BeforeEach(func() {
			userID = register("a@b.com", "Secret123!").ReturnID
			res := login("a@b.com", "Secret123!")
			Expect(res.Succeeded).To(BeTrue())
			token = res.Data.Token
		})

		It("returns the user for a valid bearer token", func() {
			req, err := http.NewRequest(http.MethodGet,
				fmt.Sprintf("%s/api/User/GetUserByUserId?userId=%d", env.server.URL, userID), nil)
			Expect(err).NotTo(HaveOccurred())

			res := call[auth.UserView](withBearer(req, token))
			Expect(res.status).To(Equal(http.StatusOK))
			Expect(res.Succeeded).To(BeTrue())
			Expect(res.Data.UserName).To(Equal("alice"))
			Expect(res.Data.Company).To(Equal("Calcuzon"))
			Expect(res.Data.Token).To(BeEmpty())
		})

		It("rejects a request without a token", func() {
			req, err := http.NewRequest(http.MethodGet,
				fmt.Sprintf("%s/api/User/GetUserByUserId?userId=%d", env.server.URL, userID), nil)
			Expect(err).NotTo(HaveOccurred())

			res := call[auth.UserView](req)
			Expect(res.status).To(Equal(http.StatusUnauthorized))
			Expect(res.Errors).To(ConsistOf(result.MessageUnauthorized))
		})

		It("drops the cached token on logout", func() {
			req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/User/Logout", nil)
			Expect(err).NotTo(HaveOccurred())

			res := call[bool](withBearer(req, token))
			Expect(res.Succeeded).To(BeTrue())
			Expect(res.Messages).To(ConsistOf(result.MessageLoggedOut))
			Expect(env.redis.Exists(fmt.Sprintf("token:%d", userID))).To(BeFalse())

			again := login("a@b.com", "Secret123!")
			Expect(again.Succeeded).To(BeTrue())
			Expect(again.Data.Token).NotTo(Equal(token))
		})
	})
})
