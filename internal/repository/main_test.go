package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/raqtkosh/backend/internal/db"
	"github.com/raqtkosh/backend/internal/model"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"gorm.io/gorm"
)

// One MySQL container serves the whole package; the reaper removes it when
// the test binary exits.
var shared struct {
	once sync.Once
	db   *gorm.DB
	err  error
}

var tables = []string{
	"user_rewards", "point_events", "notifications", "blood_inventories",
	"referrals", "donations", "requests", "addresses", "rewards", "donation_centers", "users",
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	shared.once.Do(func() {
		ctx := context.Background()
		ctr, err := mysql.Run(ctx, "mysql:8.0.36",
			mysql.WithDatabase("raqtkosh"),
			mysql.WithUsername("root"),
			mysql.WithPassword("secret"),
		)
		if err != nil {
			shared.err = err
			return
		}
		dsn, err := ctr.ConnectionString(ctx, "charset=utf8mb4", "parseTime=true", "loc=UTC")
		if err != nil {
			shared.err = err
			return
		}
		gdb, err := db.Open(dsn)
		if err != nil {
			shared.err = err
			return
		}
		shared.err = db.Migrate(gdb)
		shared.db = gdb
	})
	require.NoError(t, shared.err)

	err := shared.db.Connection(func(tx *gorm.DB) error {
		if err := tx.Exec("SET FOREIGN_KEY_CHECKS = 0").Error; err != nil {
			return err
		}
		for _, name := range tables {
			if err := tx.Exec("TRUNCATE TABLE " + name).Error; err != nil {
				return err
			}
		}
		return tx.Exec("SET FOREIGN_KEY_CHECKS = 1").Error
	})
	require.NoError(t, err)
	return shared.db
}

func seedUser(t *testing.T, gdb *gorm.DB, uid string, mutate func(u *model.User)) *model.User {
	t.Helper()
	u := &model.User{UID: uid, Email: uid + "@example.com", Role: model.RoleUser, RewardTier: "BRONZE"}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func seedPoints(t *testing.T, gdb *gorm.DB, userID uint64, points int64) {
	t.Helper()
	require.NoError(t, gdb.Create(&model.PointEvent{
		UserID: userID,
		Kind:   model.PointEventReferralCompleted,
		Points: points,
		RefKey: "seed:" + time.Now().Format(time.RFC3339Nano),
	}).Error)
}
