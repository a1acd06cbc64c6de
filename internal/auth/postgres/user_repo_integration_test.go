// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

//go:build integration

package postgres_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/calcuzon/accounts/internal/auth"
	"github.com/calcuzon/accounts/internal/auth/postgres"
)

var _ = Describe("UserRepository", func() {
	var (
		ctx  context.Context
		repo *postgres.UserRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = postgres.NewUserRepository(testPool)
		_, err := testPool.Exec(ctx, `TRUNCATE users RESTART IDENTITY`)
		Expect(err).NotTo(HaveOccurred())
	})

	It("round-trips a user through the stored procedures", func() {
		hash, salt, err := auth.NewHMACHasher().CreateHash("Secret123!")
		Expect(err).NotTo(HaveOccurred())

		id, err := repo.InsertUser(ctx, &auth.User{
			UserName: "ada", FirstName: "Ada", LastName: "Lovelace",
			Email: "a@b.com", Phone: "555", Company: "Calcuzon",
		}, hash, salt)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeNumerically(">", 0))

		byID, err := repo.GetUserByUserID(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(byID.Email).To(Equal("a@b.com"))
		Expect(byID.PasswordHash).To(Equal(hash))
		Expect(byID.PasswordSalt).To(Equal(salt))

		byEmail, err := repo.GetUserByEmail(ctx, "a@b.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(byEmail).To(Equal(byID))

		ok, err := auth.NewHMACHasher().VerifyHash("Secret123!", byEmail.PasswordHash, byEmail.PasswordSalt)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("rejects a duplicate email", func() {
		hash, salt, err := auth.NewHMACHasher().CreateHash("pw")
		Expect(err).NotTo(HaveOccurred())

		_, err = repo.InsertUser(ctx, &auth.User{Email: "dup@b.com"}, hash, salt)
		Expect(err).NotTo(HaveOccurred())

		_, err = repo.InsertUser(ctx, &auth.User{Email: "dup@b.com"}, hash, salt)
		Expect(err).To(MatchError(auth.ErrAlreadyExists))
	})

	It("matches email case-sensitively", func() {
		hash, salt, err := auth.NewHMACHasher().CreateHash("pw")
		Expect(err).NotTo(HaveOccurred())
		_, err = repo.InsertUser(ctx, &auth.User{Email: "Case@b.com"}, hash, salt)
		Expect(err).NotTo(HaveOccurred())

		_, err = repo.GetUserByEmail(ctx, "case@b.com")
		Expect(err).To(MatchError(auth.ErrNotFound))
	})

	It("reports missing users as not found", func() {
		_, err := repo.GetUserByUserID(ctx, 404)
		Expect(err).To(MatchError(auth.ErrNotFound))
	})
})
