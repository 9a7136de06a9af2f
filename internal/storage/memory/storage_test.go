package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nexus/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestLoadEmptyReturnsFreshProfile() {
	state, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)

	s.Nil(state.Session)
	s.Empty(state.Users)
	s.Equal(model.DefaultPreferences(), state.Preferences)
}

func (s *StorageSuite) TestUpdatePersists() {
	now := time.Now()
	err := s.storage.Update(s.ctx, func(st *model.State) error {
		st.Users = append(st.Users, model.User{ID: "user_1", Email: "a@x.com", LastActive: &now})
		return nil
	})
	s.Require().NoError(err)

	state, _ := s.storage.Load(s.ctx)
	s.Len(state.Users, 1)
	s.Equal(model.UserID("user_1"), state.Users[0].ID)
}

func (s *StorageSuite) TestLoadReturnsIsolatedCopy() {
	now := time.Now()
	_ = s.storage.Update(s.ctx, func(st *model.State) error {
		st.Users = append(st.Users, model.User{ID: "user_1", Credits: 10, LastActive: &now})
		return nil
	})

	state, _ := s.storage.Load(s.ctx)
	state.Users[0].Credits = 0
	*state.Users[0].LastActive = now.Add(time.Hour)

	fresh, _ := s.storage.Load(s.ctx)
	s.Equal(10, fresh.Users[0].Credits)
	s.True(fresh.Users[0].LastActive.Equal(now))
}

func (s *StorageSuite) TestUpdateErrorWritesNothing() {
	boom := errors.New("boom")
	err := s.storage.Update(s.ctx, func(st *model.State) error {
		st.TotalVisits = 7
		st.Users = append(st.Users, model.User{ID: "user_1"})
		return boom
	})
	s.ErrorIs(err, boom)

	state, _ := s.storage.Load(s.ctx)
	s.Equal(0, state.TotalVisits)
	s.Empty(state.Users)
}

func (s *StorageSuite) TestConcurrentUpdatesDoNotLoseWrites() {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.storage.Update(s.ctx, func(st *model.State) error {
				st.TotalVisits++
				return nil
			})
		}()
	}
	wg.Wait()

	state, _ := s.storage.Load(s.ctx)
	s.Equal(50, state.TotalVisits)
}
