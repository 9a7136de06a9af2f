package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nexus/internal/model"
)

type CodecSuite struct {
	suite.Suite
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) TestEncodeWritesEveryKey() {
	values, err := Encode(model.NewState())
	s.Require().NoError(err)

	for _, key := range Keys() {
		s.Contains(values, key)
	}
	s.Equal("", values[KeySession])
	s.Equal("[]", values[KeyUsers])
	s.Equal("0", values[KeyTotalVisits])
}

func (s *CodecSuite) TestDecodeMissingKeysGivesFreshState() {
	state, err := Decode(map[string]string{})
	s.Require().NoError(err)
	s.Equal(model.NewState(), state)
}

func (s *CodecSuite) TestDecodeRoundTripsSessionAndDirectory() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	in := model.NewState()
	in.Session = &model.User{ID: "user_1", Email: "a@x.com", Tier: model.TierBasic, Credits: 7, LastActive: &now}
	in.Users = []model.User{*in.Session}
	in.TotalVisits = 3
	in.OfficialURL = "https://nexus.example"

	values, err := Encode(in)
	s.Require().NoError(err)
	out, err := Decode(values)
	s.Require().NoError(err)

	s.Require().NotNil(out.Session)
	s.Equal(7, out.Session.Credits)
	s.True(out.Session.LastActive.Equal(now))
	s.Len(out.Users, 1)
	s.Equal(3, out.TotalVisits)
	s.Equal("https://nexus.example", out.OfficialURL)
}

func (s *CodecSuite) TestDecodeUnparseableVisitsReadsZero() {
	state, err := Decode(map[string]string{KeyTotalVisits: "lots"})
	s.Require().NoError(err)
	s.Equal(0, state.TotalVisits)
}

func (s *CodecSuite) TestDecodeCorruptDirectoryFails() {
	_, err := Decode(map[string]string{KeyUsers: "{not json"})
	s.Error(err)
}
