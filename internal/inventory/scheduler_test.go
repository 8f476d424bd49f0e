package inventory

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	r := NewRefresher(RefresherConfig{Source: &stubSource{}, Provider: NewProvider()})
	_, err := NewScheduler(r, "not a cron spec", time.UTC, time.Minute, nil)
	assert.Error(t, err)
}

func TestScheduler_NextRunInLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	r := NewRefresher(RefresherConfig{Source: &stubSource{}, Provider: NewProvider()})
	s, err := NewScheduler(r, DefaultSchedule, loc, time.Minute, nil)
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return !s.Next().IsZero() }, time.Second, 10*time.Millisecond)

	next := s.Next().In(loc)
	assert.Equal(t, 5, next.Minute())
	assert.Contains(t, []int{0, 12}, next.Hour())
	assert.True(t, next.After(time.Now()))
}
