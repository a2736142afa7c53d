package repository

import (
	"context"
	"errors"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/rewards"
	"gorm.io/gorm"
)

type UserRepository interface {
	// UpsertByEmail reports whether the row was inserted.
	UpsertByEmail(ctx context.Context, u *model.User) (*model.User, bool, error)
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	DeleteByExternalID(ctx context.Context, externalID string) (int64, error)
	UpdateProfile(ctx context.Context, id uint64, fields map[string]interface{}) (*model.User, error)
	FindDonors(ctx context.Context, bloodType model.BloodType, cutoff time.Time) ([]model.User, error)
	ListFeedback(ctx context.Context, limit int) ([]model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int64, error)
	Count(ctx context.Context) (int64, error)
	SetDB(db *gorm.DB)
}

type userRepository struct {
	base
}

func NewUserRepository(db *gorm.DB) UserRepository {
	r := &userRepository{}
	r.SetDB(db)
	return r
}

// UpsertByEmail creates the user or refreshes its identity fields.
//
// uid is the Firebase uid and is only written when u carries one; the
// webhook provider's id lives in external_id. Empty names and phones never
// overwrite stored values, and an existing role is kept.
func (r *userRepository) UpsertByEmail(ctx context.Context, u *model.User) (*model.User, bool, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, false, err
	}
	var (
		out      model.User
		inserted bool
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", u.Email).First(&out).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			out = *u
			if out.Role == "" {
				out.Role = model.RoleUser
			}
			if out.UID == "" && out.ExternalID != nil {
				out.UID = model.PendingUID(*out.ExternalID)
			}
			inserted = true
			return tx.Create(&out).Error
		}
		if err != nil {
			return err
		}
		fields := map[string]interface{}{}
		if u.UID != "" {
			fields["uid"] = u.UID
		}
		if u.ExternalID != nil && *u.ExternalID != "" {
			fields["external_id"] = *u.ExternalID
		}
		if u.FirstName != "" {
			fields["first_name"] = u.FirstName
		}
		if u.LastName != "" {
			fields["last_name"] = u.LastName
		}
		if u.PhoneNumber != "" {
			fields["phone_number"] = u.PhoneNumber
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&out).Updates(fields).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &out, inserted, nil
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := db.Where("uid = ?", uid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) DeleteByExternalID(ctx context.Context, externalID string) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	res := db.Where("external_id = ?", externalID).Delete(&model.User{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint64, fields map[string]interface{}) (*model.User, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		res := db.Model(&model.User{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return r.FindByID(ctx, id)
}

// DonationMark moves a donor's last donation forward. It is applied in the
// same transaction as the status change that caused it.
type DonationMark struct {
	UserID uint64
	At     time.Time
}

// markDonated never lets an older timestamp replace a newer one.
func markDonated(tx *gorm.DB, m DonationMark) error {
	return tx.Model(&model.User{}).
		Where("id = ? AND (last_donation IS NULL OR last_donation < ?)", m.UserID, m.At).
		Updates(map[string]interface{}{
			"last_donation": m.At,
			"next_donation": rewards.NextEligibleDate(m.At),
		}).Error
}

// FindDonors returns USER-role accounts of the blood type that are out of the
// donation cooldown at cutoff.
func (r *userRepository) FindDonors(ctx context.Context, bloodType model.BloodType, cutoff time.Time) ([]model.User, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.User
	if err := db.
		Where("blood_type = ? AND role = ?", bloodType, model.RoleUser).
		Where("last_donation IS NULL OR last_donation <= ?", cutoff).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListFeedback returns the most recently updated users with non-empty
// feedback.
func (r *userRepository) ListFeedback(ctx context.Context, limit int) ([]model.User, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.User
	if err := db.
		Where("feedback IS NOT NULL AND TRIM(feedback) <> ''").
		Order("updated_at DESC").Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, 0, err
	}
	limit, offset = clampPage(limit, offset, 50, 200)
	var (
		list  []model.User
		total int64
	)
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var cnt int64
	err = db.Model(&model.User{}).Count(&cnt).Error
	return cnt, err
}
