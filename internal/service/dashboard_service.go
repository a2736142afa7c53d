package service

import (
	"context"
	"time"

	"github.com/raqtkosh/backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	Users     int64 `json:"users"`
	Donations int64 `json:"donations"`
	Requests  int64 `json:"requests"`
}

type Activity struct {
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

type Dashboard struct {
	Stats            DashboardStats `json:"stats"`
	RecentActivities []Activity     `json:"recentActivities"`
}

type DashboardService interface {
	Get(ctx context.Context) (*Dashboard, error)
}

type dashboardService struct {
	users         repository.UserRepository
	donations     repository.DonationRepository
	requests      repository.RequestRepository
	notifications repository.NotificationRepository
}

func NewDashboardService(
	users repository.UserRepository,
	donations repository.DonationRepository,
	requests repository.RequestRepository,
	notifications repository.NotificationRepository,
) DashboardService {
	return &dashboardService{users: users, donations: donations, requests: requests, notifications: notifications}
}

func (s *dashboardService) Get(ctx context.Context) (*Dashboard, error) {
	out := &Dashboard{RecentActivities: []Activity{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats.Users, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.Donations, err = s.donations.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.Requests, err = s.requests.Count(gctx)
		return err
	})
	g.Go(func() error {
		recent, err := s.notifications.Recent(gctx, 3)
		if err != nil {
			return err
		}
		for _, n := range recent {
			out.RecentActivities = append(out.RecentActivities, Activity{Text: n.Title, Time: n.CreatedAt})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
