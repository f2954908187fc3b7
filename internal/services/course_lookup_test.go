package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/cache"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T) cache.CacheService {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, discardLogger())
}

func TestCourseTitleLookup_CachesInRedis(t *testing.T) {
	courses := &MockCourseRepository{}
	courses.On("GetTitle", mock.Anything, "c1").Return("Distributed Systems", nil).Once()

	lookup := NewCourseTitleLookup(courses, newMiniredisCache(t), time.Minute, discardLogger())
	ctx := context.Background()

	assert.Equal(t, "Distributed Systems", lookup.Title(ctx, "c1"))
	assert.Equal(t, "Distributed Systems", lookup.Title(ctx, "c1"))
	courses.AssertExpectations(t)
}

func TestCourseTitleLookup_FallsBack(t *testing.T) {
	courses := &MockCourseRepository{}
	courses.On("GetTitle", mock.Anything, "gone").Return("", errors.New("not found"))
	courses.On("GetTitle", mock.Anything, "blank").Return("", nil)

	lookup := NewCourseTitleLookup(courses, nil, time.Minute, discardLogger())
	ctx := context.Background()

	assert.Equal(t, UnknownCourseTitle, lookup.Title(ctx, "gone"))
	assert.Equal(t, UnknownCourseTitle, lookup.Title(ctx, "blank"))
	assert.Equal(t, UnknownCourseTitle, lookup.Title(ctx, ""))
}

func TestCourseTitleLookup_DeduplicatesConcurrentCalls(t *testing.T) {
	courses := &MockCourseRepository{}
	courses.On("GetTitle", mock.Anything, "c1").After(50*time.Millisecond).Return("Algorithms", nil)

	lookup := NewCourseTitleLookup(courses, nil, time.Minute, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "Algorithms", lookup.Title(context.Background(), "c1"))
		}()
	}
	wg.Wait()

	assert.Less(t, len(courses.Calls), 8)
}

func TestCourseTitleLookup_ZeroTTLSkipsCache(t *testing.T) {
	courses := &MockCourseRepository{}
	courses.On("GetTitle", mock.Anything, "c1").Return("Compilers", nil).Twice()

	lookup := NewCourseTitleLookup(courses, newMiniredisCache(t), 0, discardLogger())
	ctx := context.Background()

	assert.Equal(t, "Compilers", lookup.Title(ctx, "c1"))
	assert.Equal(t, "Compilers", lookup.Title(ctx, "c1"))
	courses.AssertExpectations(t)
}
