package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nexus/internal/dependencies/mocks"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/storage/memory"
	"github.com/mcoot/nexus/internal/testutil"
)

var now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(now)
	s.service = New(s.storage, s.clock, identity.NewAllowList("creator@nexus.ia"), Config{
		DefaultOfficialURL: "https://nexus.example",
	}, testutil.NopLogger())
	s.ctx = context.Background()
}

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func (s *ServiceSuite) seedDirectory() {
	s.Require().NoError(s.storage.Update(s.ctx, func(st *model.State) error {
		st.Users = []model.User{
			{ID: "user_1", Username: "the_creator", Email: "creator@nexus.ia", Tier: model.TierElite, LastActive: ago(time.Minute)},
			{ID: "user_2", Username: "alice", Email: "alice@x.com", Tier: model.TierBasic, LastActive: ago(5 * time.Minute)},
			{ID: "user_3", Username: "bob", Email: "bob@example.org", Tier: model.TierBasic, LastActive: ago(4 * time.Minute)},
			{ID: "user_4", Username: "Carol", Email: "carol@x.com", Tier: model.TierElite},
		}
		st.TotalVisits = 17
		return nil
	}))
}

func (s *ServiceSuite) loginAs(email string) {
	s.Require().NoError(s.storage.Update(s.ctx, func(st *model.State) error {
		st.Session = &model.User{Email: email}
		return nil
	}))
}

// Stats tests

func (s *ServiceSuite) TestStats() {
	s.seedDirectory()

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.Stats{
		TotalVisits:  17,
		TotalUsers:   4,
		OnlineUsers:  2,
		OfflineUsers: 2,
		EliteUsers:   2,
	}, stats)
}

func (s *ServiceSuite) TestStatsEmptyDirectory() {
	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.Stats{}, stats)
}

func (s *ServiceSuite) TestStatsIsPureFunctionOfNow() {
	s.seedDirectory()
	st, _ := s.storage.Load(s.ctx)

	first := ComputeStats(st, now, 5*time.Minute)
	second := ComputeStats(st, now, 5*time.Minute)
	s.Equal(first, second)

	later := ComputeStats(st, now.Add(2*time.Minute), 5*time.Minute)
	s.Equal(1, later.OnlineUsers)
	s.Equal(first.TotalUsers, later.OnlineUsers+later.OfflineUsers)
}

// Visit tests

func (s *ServiceSuite) TestRecordVisitRequiresSession() {
	counted, err := s.service.RecordVisit(s.ctx)
	s.Require().NoError(err)
	s.False(counted)

	s.loginAs("alice@x.com")
	counted, err = s.service.RecordVisit(s.ctx)
	s.Require().NoError(err)
	s.True(counted)

	stats, _ := s.service.Stats(s.ctx)
	s.Equal(1, stats.TotalVisits)
}

// Search tests

func (s *ServiceSuite) TestSearchEmptyQueryReturnsAllInOrder() {
	s.seedDirectory()

	users, err := s.service.Users(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(users, 4)
	s.Equal(model.UserID("user_1"), users[0].ID)
	s.Equal(model.UserID("user_4"), users[3].ID)
}

func (s *ServiceSuite) TestSearchMatchesUsernameOrEmailCaseInsensitive() {
	s.seedDirectory()

	users, _ := s.service.Users(s.ctx, "CAROL")
	s.Require().Len(users, 1)
	s.Equal("Carol", users[0].Username)

	users, _ = s.service.Users(s.ctx, "x.com")
	s.Require().Len(users, 2)
	s.Equal("alice", users[0].Username)
	s.Equal("Carol", users[1].Username)
}

func (s *ServiceSuite) TestSearchNoMatch() {
	s.seedDirectory()

	users, err := s.service.Users(s.ctx, "zzz")
	s.Require().NoError(err)
	s.Empty(users)
}

// Authorize tests

func (s *ServiceSuite) TestAuthorizeWithoutSession() {
	_, err := s.service.Authorize(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *ServiceSuite) TestAuthorizeStandardUserRefused() {
	s.loginAs("alice@x.com")
	_, err := s.service.Authorize(s.ctx)
	s.ErrorIs(err, model.ErrNotCreator)
}

func (s *ServiceSuite) TestAuthorizeCreator() {
	s.loginAs("Creator@Nexus.ia")
	user, err := s.service.Authorize(s.ctx)
	s.Require().NoError(err)
	s.Equal("Creator@Nexus.ia", user.Email)
}

func (s *ServiceSuite) TestAuthorizeIsReevaluated() {
	s.loginAs("creator@nexus.ia")
	_, err := s.service.Authorize(s.ctx)
	s.Require().NoError(err)

	s.loginAs("alice@x.com")
	_, err = s.service.Authorize(s.ctx)
	s.ErrorIs(err, model.ErrNotCreator)
}

// Official URL tests

func (s *ServiceSuite) TestOfficialURLDefaultsAndUpdates() {
	url, err := s.service.OfficialURL(s.ctx)
	s.Require().NoError(err)
	s.Equal("https://nexus.example", url)

	s.Require().NoError(s.service.SetOfficialURL(s.ctx, " https://nexus.app "))
	url, _ = s.service.OfficialURL(s.ctx)
	s.Equal("https://nexus.app", url)

	s.Require().NoError(s.service.SetOfficialURL(s.ctx, ""))
	url, _ = s.service.OfficialURL(s.ctx)
	s.Equal("https://nexus.example", url)
}

// Watch tests

func (s *ServiceSuite) TestWatchEmitsOnEveryRefresh() {
	s.seedDirectory()
	s.loginAs("creator@nexus.ia")

	var mu sync.Mutex
	var got []model.Stats
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(got)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() {
		done <- s.service.Watch(ctx, func(st model.Stats) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, st)
			return nil
		})
	}()

	s.Eventually(func() bool { return count() == 1 }, time.Second, 5*time.Millisecond)
	s.Eventually(func() bool { return s.clock.ActiveTickers() == 1 }, time.Second, 5*time.Millisecond)

	s.clock.Advance(10 * time.Second)
	s.Eventually(func() bool { return count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	s.ErrorIs(<-done, context.Canceled)
	s.Equal(0, s.clock.ActiveTickers())
}

func (s *ServiceSuite) TestWatchStopsWhenAccessRevoked() {
	s.loginAs("alice@x.com")

	err := s.service.Watch(s.ctx, func(model.Stats) error { return nil })
	s.ErrorIs(err, model.ErrNotCreator)
}

func (s *ServiceSuite) TestWatchStopsOnEmitError() {
	s.loginAs("creator@nexus.ia")
	boom := errors.New("client gone")

	err := s.service.Watch(s.ctx, func(model.Stats) error { return boom })
	s.ErrorIs(err, boom)
}
