package factory

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/storage/sqlite"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	_ = s.app.Close()
}

func (s *IntegrationSuite) state() *model.State {
	st, err := s.app.Storage.Load(s.ctx)
	s.Require().NoError(err)
	return st
}

// Test: racing login and logout never leave the heartbeat out of step with the session
func (s *IntegrationSuite) TestHeartbeatFollowsSessionUnderConcurrency() {
	_, err := s.app.Identity.Register(s.ctx, "alice", "alice@x.com", "pw")
	s.Require().NoError(err)

	for range 200 {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.app.Identity.Login(s.ctx, "alice@x.com", "")
		}()
		go func() {
			defer wg.Done()
			_ = s.app.Identity.Logout(s.ctx)
		}()
		wg.Wait()

		s.Require().Equal(s.state().Session != nil, s.app.Heartbeat.Running())
	}
	s.LessOrEqual(s.app.MockClock.ActiveTickers(), 1)
}

// Test: register, spend credits, heartbeat and admin view all agree
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	_, err := s.app.Identity.Register(s.ctx, "alice", "alice@x.com", "pw")
	s.Require().NoError(err)
	s.True(s.app.Heartbeat.Running(), "session start begins heartbeat")

	_, err = s.app.Studio.Chat(s.ctx, "hello")
	s.Require().NoError(err)
	_, err = s.app.Studio.Paint(s.ctx, "a robot")
	s.Require().NoError(err)

	st := s.state()
	s.Equal(identity.StartingCredits-model.CostChat-model.CostCanvas, st.Session.Credits)
	s.Equal(st.Session.Credits, st.Users[0].Credits)

	s.app.MockClock.Advance(30 * time.Second)
	want := s.app.MockClock.Now()
	s.Eventually(func() bool {
		la := s.state().Users[0].LastActive
		return la != nil && la.Equal(want)
	}, time.Second, 5*time.Millisecond)

	// Creator sees alice online
	s.Require().NoError(s.app.Identity.Logout(s.ctx))
	s.False(s.app.Heartbeat.Running())
	_, err = s.app.Identity.Register(s.ctx, "boss", "creator@nexus.ia", "pw")
	s.Require().NoError(err)

	_, err = s.app.Admin.Authorize(s.ctx)
	s.Require().NoError(err)
	stats, err := s.app.Admin.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.TotalUsers)
	s.Equal(2, stats.OnlineUsers)
	s.Equal(1, stats.EliteUsers)

	s.app.MockClock.Set(want.Add(10 * time.Minute))
	stats, _ = s.app.Admin.Stats(s.ctx)
	s.Equal(0, stats.OnlineUsers)
	s.Equal(2, stats.OfflineUsers)
}

func (s *IntegrationSuite) TestFailedGenerationLeavesNoTrace() {
	_, _ = s.app.Identity.Register(s.ctx, "alice", "alice@x.com", "pw")
	s.app.MockGenerator.Fail(errors.New("quota"))

	_, err := s.app.Studio.Chat(s.ctx, "hello")
	s.ErrorIs(err, model.ErrGenerationFailed)

	st := s.state()
	s.Equal(identity.StartingCredits, st.Session.Credits)
	s.Equal(identity.StartingCredits, st.Users[0].Credits)
	s.Empty(st.ChatHistory)
}

func (s *IntegrationSuite) TestBootCountsVisitOnlyWithSession() {
	s.Require().NoError(s.app.Boot(s.ctx))
	s.Equal(0, s.state().TotalVisits)
	s.False(s.app.Heartbeat.Running())

	_, _ = s.app.Identity.EnterDemo(s.ctx)
	s.app.Heartbeat.Stop()

	s.Require().NoError(s.app.Boot(s.ctx))
	s.Require().NoError(s.app.Boot(s.ctx))
	s.Equal(2, s.state().TotalVisits)
	s.True(s.app.Heartbeat.Running())
}

func (s *IntegrationSuite) TestCustomCreatorAllowList() {
	app := NewTestAppWithConfig(Config{CreatorEmails: []string{"owner@corp.io"}})
	defer app.Close()

	user, err := app.Identity.Register(s.ctx, "x", "owner@corp.io", "pw")
	s.Require().NoError(err)
	s.Equal(model.TierElite, user.Tier)

	_ = app.Identity.Logout(s.ctx)
	user, err = app.Identity.Register(s.ctx, "y", "creator@nexus.ia", "pw")
	s.Require().NoError(err)
	s.Equal(model.TierBasic, user.Tier)
}

func (s *IntegrationSuite) TestShareUsesAdminConfiguredURL() {
	s.Require().NoError(s.app.Admin.SetOfficialURL(s.ctx, "https://nexus.app"))

	payload, err := s.app.Billing.Share(s.ctx)
	s.Require().NoError(err)
	s.Equal("https://nexus.app", payload.URL)
}

func (s *IntegrationSuite) TestNewWithSQLiteStorage() {
	path := filepath.Join(s.T().TempDir(), "nexus.db")
	app, err := New(s.ctx, Config{
		StorageType:  "sqlite",
		SQLiteConfig: &sqlite.Config{Path: path},
	})
	s.Require().NoError(err)
	defer app.Close()

	_, err = app.Identity.Register(s.ctx, "alice", "alice@x.com", "pw")
	s.Require().NoError(err)

	// No generator configured: the debit is refunded
	_, err = app.Studio.Chat(s.ctx, "hi")
	s.ErrorIs(err, model.ErrGenerationFailed)
	st, _ := app.Storage.Load(s.ctx)
	s.Equal(identity.StartingCredits, st.Session.Credits)
}

func (s *IntegrationSuite) TestNewRejectsUnknownStorage() {
	_, err := New(s.ctx, Config{StorageType: "mongo"})
	s.Error(err)
}
