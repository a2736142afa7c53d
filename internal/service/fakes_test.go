package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/raqtkosh/backend/internal/model"
	"github.com/raqtkosh/backend/internal/repository"
	"gorm.io/gorm"
)

// Fakes embed the repository interface so only the methods a test touches
// need bodies; anything else panics on the nil embedded value.

type fakeUsers struct {
	repository.UserRepository
	byUID    map[string]*model.User
	donors   []model.User
	cutoff   time.Time
	upserted []*model.User
	updated  map[uint64]map[string]interface{}
	feedback []model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{byUID: map[string]*model.User{}, updated: map[uint64]map[string]interface{}{}}
	for _, u := range users {
		f.byUID[u.UID] = u
	}
	return f
}

func (f *fakeUsers) FindByUID(_ context.Context, uid string) (*model.User, error) {
	if u, ok := f.byUID[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) FindDonors(_ context.Context, bt model.BloodType, cutoff time.Time) ([]model.User, error) {
	f.cutoff = cutoff
	var out []model.User
	for _, d := range f.donors {
		if d.BloodType != nil && *d.BloodType == bt {
			out = append(out, d)
		}
	}
	return out, nil
}

// UpsertByEmail reports an insert for emails none of byUID carries.
func (f *fakeUsers) UpsertByEmail(_ context.Context, u *model.User) (*model.User, bool, error) {
	f.upserted = append(f.upserted, u)
	for _, known := range f.byUID {
		if known.Email == u.Email {
			out := *known
			return &out, false, nil
		}
	}
	out := *u
	out.Role = model.RoleUser
	if out.UID == "" && out.ExternalID != nil {
		out.UID = model.PendingUID(*out.ExternalID)
	}
	f.byUID[out.UID] = &out
	return &out, true, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uint64, fields map[string]interface{}) (*model.User, error) {
	f.updated[id] = fields
	for _, u := range f.byUID {
		if u.ID == id {
			out := *u
			if p, ok := fields["phone_number"].(string); ok {
				out.PhoneNumber = p
			}
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) List(_ context.Context, limit, offset int) ([]model.User, int64, error) {
	all := make([]model.User, 0, len(f.byUID))
	for _, u := range f.byUID {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeUsers) ListFeedback(_ context.Context, limit int) ([]model.User, error) {
	if len(f.feedback) > limit {
		return f.feedback[:limit], nil
	}
	return f.feedback, nil
}

type fakeNotifications struct {
	repository.NotificationRepository
	mu      sync.Mutex
	batches [][]model.Notification
	created []model.Notification
	readFor []uint64
	err     error
}

func (f *fakeNotifications) CreateBatch(_ context.Context, list []model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(list) > 0 {
		f.batches = append(f.batches, list)
	}
	return nil
}

func (f *fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.created {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotifications) CountUnread(_ context.Context, userID uint64) (int64, error) {
	var n int64
	for _, c := range f.created {
		if c.UserID == userID && !c.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID uint64) (int64, error) {
	f.readFor = append(f.readFor, userID)
	var n int64
	for i := range f.created {
		if f.created[i].UserID == userID && !f.created[i].IsRead {
			f.created[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) total() int {
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

type fakeRequests struct {
	repository.RequestRepository
	byID    map[uint64]*model.Request
	created []*model.Request
	updates int
	marks   []repository.DonationMark
}

func (f *fakeRequests) Create(_ context.Context, r *model.Request) error {
	r.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, r)
	return nil
}

func (f *fakeRequests) FindByID(_ context.Context, id uint64) (*model.Request, error) {
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequests) UpdateStatus(_ context.Context, id uint64, from, to model.RequestStatus, assignedTo *string, fulfilledAt *time.Time, mark *repository.DonationMark) (int64, error) {
	r, ok := f.byID[id]
	if !ok || r.Status != from {
		return 0, nil
	}
	r.Status = to
	r.AssignedTo = assignedTo
	r.FulfilledAt = fulfilledAt
	f.updates++
	if mark != nil {
		f.marks = append(f.marks, *mark)
	}
	return 1, nil
}

type fakeInventory struct {
	repository.InventoryRepository
	rows []model.BloodInventory
}

func (f *fakeInventory) FindSufficient(_ context.Context, bt model.BloodType, qty int) (*model.BloodInventory, error) {
	for i := range f.rows {
		if f.rows[i].BloodType == bt && f.rows[i].Quantity >= qty {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

type fakeLedger struct {
	mu         sync.Mutex
	reconciled []uint64
	err        error
}

func (f *fakeLedger) Reconcile(_ context.Context, userID uint64) (*Achievements, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconciled = append(f.reconciled, userID)
	if f.err != nil {
		return nil, f.err
	}
	return &Achievements{}, nil
}

func (f *fakeLedger) Achievements(context.Context, string) (*Achievements, error) {
	return &Achievements{}, nil
}

func (f *fakeLedger) History(context.Context, string, int) ([]model.PointEvent, error) {
	return nil, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, userID uint64, typ, title, message string, relatedID *uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, model.Notification{UserID: userID, Type: typ, Title: title, Message: message, RelatedID: relatedID})
}

func (r *recordingNotifier) List(context.Context, string, bool, int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (r *recordingNotifier) MarkAllRead(context.Context, string) (int64, error) {
	return 0, nil
}

type capturePublisher struct {
	keys   []string
	events []any
	err    error
}

func (p *capturePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.keys = append(p.keys, key)
	p.events = append(p.events, v)
	return p.err
}

func bt(b model.BloodType) *model.BloodType {
	return &b
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeRewards struct {
	repository.RewardRepository
	token   string
	lines   []repository.RedeemLine
	res     *repository.RedeemResult
	err     error
	catalog []model.Reward
	owned   []model.UserReward
}

func (f *fakeRewards) ListCatalog(context.Context) ([]model.Reward, error) {
	return f.catalog, nil
}

func (f *fakeRewards) ListUserRewards(_ context.Context, userID uint64) ([]model.UserReward, error) {
	var out []model.UserReward
	for _, r := range f.owned {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRewards) Redeem(_ context.Context, _ uint64, token string, lines []repository.RedeemLine) (*repository.RedeemResult, error) {
	f.token = token
	f.lines = lines
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

type fakeReferrals struct {
	repository.ReferralRepository
	rows   []*model.Referral
	nextID uint64
}

func (f *fakeReferrals) Create(_ context.Context, ref *model.Referral) error {
	f.nextID++
	ref.ID = f.nextID
	cp := *ref
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeReferrals) FindByID(_ context.Context, id uint64) (*model.Referral, error) {
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReferrals) FindByReferrerAndPhone(_ context.Context, referrerID uint64, phone string) (*model.Referral, error) {
	for _, r := range f.rows {
		if r.ReferrerID == referrerID && r.PhoneNumber == phone {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReferrals) ListPendingByPhone(_ context.Context, phone string) ([]model.Referral, error) {
	var out []model.Referral
	for _, r := range f.rows {
		if r.PhoneNumber == phone && r.Status == model.ReferralStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReferrals) MarkCompleted(_ context.Context, id uint64, at time.Time) (int64, error) {
	for _, r := range f.rows {
		if r.ID == id && r.Status == model.ReferralStatusPending {
			r.Status = model.ReferralStatusCompleted
			r.CompletedAt = &at
			return 1, nil
		}
	}
	return 0, nil
}

type fakeDonations struct {
	repository.DonationRepository
	byID    map[uint64]*model.Donation
	created []*model.Donation
	marks   []repository.DonationMark
}

func (f *fakeDonations) Create(_ context.Context, d *model.Donation) error {
	d.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, d)
	return nil
}

func (f *fakeDonations) FindByID(_ context.Context, id uint64) (*model.Donation, error) {
	if d, ok := f.byID[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDonations) UpdateStatusIfPending(_ context.Context, id uint64, status model.DonationStatus, mark *repository.DonationMark) (int64, error) {
	d, ok := f.byID[id]
	if !ok || d.Status != model.DonationStatusPending {
		return 0, nil
	}
	d.Status = status
	if mark != nil {
		f.marks = append(f.marks, *mark)
	}
	return 1, nil
}

type fakeCenters struct {
	repository.CenterRepository
	byID map[uint64]*model.DonationCenter
}

func (f *fakeCenters) FindByID(_ context.Context, id uint64) (*model.DonationCenter, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAddresses struct {
	repository.AddressRepository
	rows []*model.Address
}

func (f *fakeAddresses) Create(_ context.Context, a *model.Address) error {
	if a.IsPrimary {
		for _, r := range f.rows {
			if r.UserID == a.UserID {
				r.IsPrimary = false
			}
		}
	}
	a.ID = uint64(len(f.rows) + 1)
	f.rows = append(f.rows, a)
	return nil
}

func (f *fakeAddresses) ListByUser(_ context.Context, userID uint64) ([]model.Address, error) {
	var out []model.Address
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeAddresses) FindPrimary(_ context.Context, userID uint64) (*model.Address, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.IsPrimary {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}
