package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/storage/memory"
	"github.com/mcoot/nexus/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) seed(tier model.Tier, credits int) {
	s.Require().NoError(s.storage.Update(s.ctx, func(st *model.State) error {
		u := model.User{ID: "user_1", Username: "alice", Email: "alice@x.com", Tier: tier, Credits: credits}
		st.Users = append(st.Users, u, model.User{ID: "user_2", Email: "bob@x.com", Tier: model.TierBasic, Credits: 40})
		st.Session = u.Clone()
		return nil
	}))
}

func (s *ServiceSuite) state() *model.State {
	st, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)
	return st
}

func (s *ServiceSuite) TestDebitWithoutSession() {
	_, err := s.service.Debit(s.ctx, model.CostChat)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *ServiceSuite) TestDebitDecrementsSessionAndDirectory() {
	s.seed(model.TierBasic, 10)

	receipt, err := s.service.Debit(s.ctx, model.CostLens)
	s.Require().NoError(err)
	s.True(receipt.Metered)

	st := s.state()
	s.Equal(7, st.Session.Credits)
	s.Equal(7, st.Users[0].Credits)
	s.Equal(40, st.Users[1].Credits)
}

func (s *ServiceSuite) TestDebitMatchesDirectoryByEmailCaseInsensitive() {
	s.seed(model.TierBasic, 10)
	_ = s.storage.Update(s.ctx, func(st *model.State) error {
		st.Session.Email = "ALICE@x.com"
		return nil
	})

	_, err := s.service.Debit(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(9, s.state().Users[0].Credits)
}

func (s *ServiceSuite) TestDebitDecrementsDivergedDirectoryEntryByAmount() {
	s.seed(model.TierBasic, 10)
	_ = s.storage.Update(s.ctx, func(st *model.State) error {
		st.Users[0].Credits = 3
		return nil
	})

	_, err := s.service.Debit(s.ctx, model.CostChat)
	s.Require().NoError(err)

	st := s.state()
	s.Equal(9, st.Session.Credits)
	s.Equal(2, st.Users[0].Credits)

	_, err = s.service.Debit(s.ctx, model.CostCanvas)
	s.Require().NoError(err)
	s.Equal(0, s.state().Users[0].Credits, "directory balance never goes negative")
}

func (s *ServiceSuite) TestDebitExactBalanceReachesZero() {
	s.seed(model.TierBasic, model.CostCanvas)

	_, err := s.service.Debit(s.ctx, model.CostCanvas)
	s.Require().NoError(err)
	s.Equal(0, s.state().Session.Credits)
}

func (s *ServiceSuite) TestInsufficientCreditsChangesNothing() {
	s.seed(model.TierBasic, 4)

	_, err := s.service.Debit(s.ctx, model.CostCanvas)
	s.ErrorIs(err, model.ErrInsufficientCredits)

	st := s.state()
	s.Equal(4, st.Session.Credits)
	s.Equal(4, st.Users[0].Credits)
}

func (s *ServiceSuite) TestEliteIsNeverCharged() {
	s.seed(model.TierElite, model.UnlimitedCredits)

	for range 10 {
		receipt, err := s.service.Debit(s.ctx, model.CostCanvas)
		s.Require().NoError(err)
		s.False(receipt.Metered)
	}

	st := s.state()
	s.Equal(model.UnlimitedCredits, st.Session.Credits)
	s.Equal(model.UnlimitedCredits, st.Users[0].Credits)
}

func (s *ServiceSuite) TestEliteWithLowBalanceStillPasses() {
	s.seed(model.TierElite, 0)

	_, err := s.service.Debit(s.ctx, model.CostCanvas)
	s.NoError(err)
	s.Equal(0, s.state().Session.Credits)
}

func (s *ServiceSuite) TestDemoSessionDebitsWithoutDirectoryEntry() {
	_ = s.storage.Update(s.ctx, func(st *model.State) error {
		st.Session = &model.User{ID: "demo_123", Email: "demo@nexus.ia", Tier: model.TierBasic, Credits: 99}
		return nil
	})

	_, err := s.service.Debit(s.ctx, 2)
	s.Require().NoError(err)

	st := s.state()
	s.Equal(97, st.Session.Credits)
	s.Empty(st.Users)
}

func (s *ServiceSuite) TestRefundRestoresBalance() {
	s.seed(model.TierBasic, 10)

	receipt, _ := s.service.Debit(s.ctx, model.CostCanvas)
	s.Require().NoError(s.service.Refund(s.ctx, receipt))

	st := s.state()
	s.Equal(10, st.Session.Credits)
	s.Equal(10, st.Users[0].Credits)
}

func (s *ServiceSuite) TestRefundAfterLogoutCreditsDirectoryOnly() {
	s.seed(model.TierBasic, 10)
	receipt, _ := s.service.Debit(s.ctx, model.CostVoice)
	_ = s.storage.Update(s.ctx, func(st *model.State) error {
		st.Session = &model.User{ID: "user_2", Email: "bob@x.com", Credits: 40}
		return nil
	})

	s.Require().NoError(s.service.Refund(s.ctx, receipt))

	st := s.state()
	s.Equal(10, st.Users[0].Credits)
	s.Equal(40, st.Session.Credits)
}

func (s *ServiceSuite) TestRefundOfUnmeteredReceiptIsNoop() {
	s.seed(model.TierElite, model.UnlimitedCredits)
	receipt, _ := s.service.Debit(s.ctx, model.CostCanvas)

	s.Require().NoError(s.service.Refund(s.ctx, receipt))
	s.Equal(model.UnlimitedCredits, s.state().Session.Credits)
}

func (s *ServiceSuite) TestCanAfford() {
	s.seed(model.TierBasic, 3)

	ok, err := s.service.CanAfford(s.ctx, model.CostLens)
	s.Require().NoError(err)
	s.True(ok)

	ok, _ = s.service.CanAfford(s.ctx, model.CostCanvas)
	s.False(ok)
}

func (s *ServiceSuite) TestRejectsNegativeAmount() {
	s.seed(model.TierBasic, 3)

	_, err := s.service.Debit(s.ctx, -1)
	s.Error(err)
	s.Equal(3, s.state().Session.Credits)
}

func (s *ServiceSuite) TestConcurrentDebitsNeverOverdraw() {
	s.seed(model.TierBasic, 20)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.service.Debit(s.ctx, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(20, succeeded)
	st := s.state()
	s.Equal(0, st.Session.Credits)
	s.Equal(0, st.Users[0].Credits)
}
