// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

//go:build integration

package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/calcuzon/accounts/internal/store"
)

var _ = Describe("Migrator", Ordered, func() {
	var migrator *store.Migrator

	BeforeAll(func() {
		var err error
		migrator, err = store.NewMigrator(databaseURL)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(migrator.Close)
	})

	It("starts at version zero", func() {
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())

		pending, err := migrator.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{1, 2}))
	})

	It("applies every migration", func() {
		Expect(migrator.Up()).To(Succeed())

		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
		Expect(dirty).To(BeFalse())
	})

	It("creates the stored procedures", func() {
		ctx := context.Background()
		pool, err := store.Connect(ctx, databaseURL, store.DefaultConnectOptions())
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		var count int
		err = pool.QueryRow(ctx, `
			SELECT count(*) FROM pg_proc
			WHERE proname IN ('usp_insert_user', 'usp_get_user_by_id', 'usp_get_user_by_email')
		`).Scan(&count)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(3))
	})

	It("steps down and back up", func() {
		Expect(migrator.Steps(-1)).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(1)))

		Expect(migrator.Steps(1)).To(Succeed())
		version, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
	})

	It("rolls everything back", func() {
		Expect(migrator.Down()).To(Succeed())
		applied, err := migrator.AppliedMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(applied).To(BeEmpty())
	})
})
