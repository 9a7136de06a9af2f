package heartbeat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nexus/internal/dependencies/mocks"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/ledger"
	"github.com/mcoot/nexus/internal/storage/memory"
	"github.com/mcoot/nexus/internal/testutil"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

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
	s.clock = mocks.NewMockClock(start)
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TearDownTest() {
	s.service.Stop()
}

func (s *ServiceSuite) seedSession() {
	s.Require().NoError(s.storage.Update(s.ctx, func(st *model.State) error {
		u := model.User{ID: "user_1", Email: "alice@x.com", Tier: model.TierBasic, Credits: 10}
		st.Users = append(st.Users, u, model.User{ID: "user_2", Email: "bob@x.com"})
		st.Session = u.Clone()
		return nil
	}))
}

func (s *ServiceSuite) state() *model.State {
	st, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)
	return st
}

func (s *ServiceSuite) sessionLastActive() time.Time {
	st := s.state()
	if st.Session == nil || st.Session.LastActive == nil {
		return time.Time{}
	}
	return *st.Session.LastActive
}

// IsOnline tests

func (s *ServiceSuite) TestIsOnline() {
	now := start
	window := 5 * time.Minute
	at := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	s.False(IsOnline(nil, now, window))
	s.True(IsOnline(at(0), now, window))
	s.True(IsOnline(at(window-time.Millisecond), now, window))
	s.False(IsOnline(at(window), now, window), "boundary is excluded")
	s.False(IsOnline(at(window+time.Second), now, window))
}

// Beat tests

func (s *ServiceSuite) TestBeatStampsSessionAndDirectory() {
	s.seedSession()

	s.Require().NoError(s.service.Beat(s.ctx))

	st := s.state()
	s.Equal(start, *st.Session.LastActive)
	s.Equal(start, *st.Users[0].LastActive)
	s.Nil(st.Users[1].LastActive)
}

func (s *ServiceSuite) TestBeatTouchesOnlyLastActive() {
	s.seedSession()
	_ = s.storage.Update(s.ctx, func(st *model.State) error {
		st.Users[0].Credits = 3
		return nil
	})

	s.Require().NoError(s.service.Beat(s.ctx))

	st := s.state()
	s.Equal(3, st.Users[0].Credits, "directory credits are not overwritten from the session")
	s.Equal(10, st.Session.Credits)
}

func (s *ServiceSuite) TestBeatWithoutSessionIsNoop() {
	s.Require().NoError(s.service.Beat(s.ctx))
	s.Nil(s.state().Session)
}

func (s *ServiceSuite) TestTwoBeatsThenDebitKeepsBothMutations() {
	s.seedSession()
	l := ledger.New(s.storage, testutil.NopLogger())

	s.Require().NoError(s.service.Beat(s.ctx))
	s.clock.Advance(30 * time.Second)
	s.Require().NoError(s.service.Beat(s.ctx))
	_, err := l.Debit(s.ctx, model.CostLens)
	s.Require().NoError(err)

	st := s.state()
	later := start.Add(30 * time.Second)
	s.Equal(later, *st.Session.LastActive)
	s.Equal(later, *st.Users[0].LastActive)
	s.Equal(7, st.Session.Credits)
	s.Equal(7, st.Users[0].Credits)
}

// Scheduler tests

func (s *ServiceSuite) TestStartBeatsImmediatelyAndOnEveryTick() {
	s.seedSession()

	s.service.Start(s.ctx)
	s.Equal(start, s.sessionLastActive())
	s.True(s.service.Running())

	s.clock.Advance(30 * time.Second)
	s.Eventually(func() bool {
		return s.sessionLastActive().Equal(start.Add(30 * time.Second))
	}, time.Second, 5*time.Millisecond)

	s.clock.Advance(30 * time.Second)
	s.Eventually(func() bool {
		return s.sessionLastActive().Equal(start.Add(60 * time.Second))
	}, time.Second, 5*time.Millisecond)
}

func (s *ServiceSuite) TestNoBeatBeforeInterval() {
	s.seedSession()
	s.service.Start(s.ctx)

	s.clock.Advance(29 * time.Second)
	time.Sleep(20 * time.Millisecond)
	s.Equal(start, s.sessionLastActive())
}

func (s *ServiceSuite) TestStopEndsLoop() {
	s.seedSession()
	s.service.Start(s.ctx)
	s.Equal(1, s.clock.ActiveTickers())

	s.service.Stop()
	s.False(s.service.Running())
	s.Equal(0, s.clock.ActiveTickers())

	s.clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	s.Equal(start, s.sessionLastActive())
}

func (s *ServiceSuite) TestRestartReplacesLoop() {
	s.seedSession()
	s.service.Start(s.ctx)
	s.service.Start(s.ctx)

	s.Equal(1, s.clock.ActiveTickers())
}

func (s *ServiceSuite) TestConcurrentStartsLeaveOneLoop() {
	s.seedSession()

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.service.Start(s.ctx)
		}()
	}
	wg.Wait()

	s.Equal(1, s.clock.ActiveTickers())
	s.service.Stop()
	s.Equal(0, s.clock.ActiveTickers())
}

func (s *ServiceSuite) TestLoopOutlivesCallerContext() {
	s.seedSession()
	ctx, cancel := context.WithCancel(s.ctx)
	s.service.SessionStarted(ctx, model.User{})
	cancel()

	s.clock.Advance(30 * time.Second)
	s.Eventually(func() bool {
		return s.sessionLastActive().Equal(start.Add(30 * time.Second))
	}, time.Second, 5*time.Millisecond)

	s.service.SessionEnded(s.ctx)
	s.False(s.service.Running())
}
