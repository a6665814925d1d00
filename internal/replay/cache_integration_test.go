//go:build integration

package replay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"formdesk/internal/replay"
	"formdesk/pkg/domain"
	"formdesk/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *replay.Cache
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = replay.NewCache(s.redis.Client, time.Hour)
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CacheSuite) TestRoundTrip() {
	ctx := context.Background()
	id := domain.NewResponseID()

	out := &replay.Outcome{Model: &replay.Model{
		Title: "Survey",
		Pages: []replay.PageView{{
			Name:  "page1",
			Index: 0,
			Questions: []replay.QuestionView{
				{Name: "q1", Type: "boolean", DisplayValue: "Yes", Value: true},
			},
		}},
	}}
	s.Require().NoError(s.cache.Set(ctx, id, out))

	got, err := s.cache.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Require().NotNil(got.Model)
	s.Nil(got.Notice)
	s.Equal("Survey", got.Model.Title)
	s.Require().Len(got.Model.Pages, 1)
	s.Equal("Yes", got.Model.Pages[0].Questions[0].DisplayValue)
}

func (s *CacheSuite) TestDegradedOutcomeRoundTrip() {
	ctx := context.Background()
	id := domain.NewResponseID()

	out := &replay.Outcome{Notice: &replay.DegradeNotice{
		Reason:  replay.ReasonNoSchema,
		Message: "unable to reconstruct structured view",
		Values:  map[string]any{"q1": "kept"},
	}}
	s.Require().NoError(s.cache.Set(ctx, id, out))

	got, err := s.cache.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Nil(got.Model)
	s.Require().NotNil(got.Notice)
	s.Equal(replay.ReasonNoSchema, got.Notice.Reason)
	s.Equal("kept", got.Notice.Values["q1"])
}

func (s *CacheSuite) TestMiss() {
	got, err := s.cache.Get(context.Background(), domain.NewResponseID())
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *CacheSuite) TestNilCacheIsNoOp() {
	var c *replay.Cache
	ctx := context.Background()
	id := domain.NewResponseID()

	s.NoError(c.Set(ctx, id, &replay.Outcome{}))
	got, err := c.Get(ctx, id)
	s.NoError(err)
	s.Nil(got)
}
