package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/cache"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"golang.org/x/sync/singleflight"
)

// UnknownCourseTitle replaces a course title that could not be resolved
const UnknownCourseTitle = "Unknown Course"

// CourseTitleLookup never fails; lookup problems degrade to UnknownCourseTitle
type CourseTitleLookup interface {
	Title(ctx context.Context, courseID string) string
}

type courseTitleLookup struct {
	repo   repositories.CourseRepository
	cache  cache.CacheService
	ttl    time.Duration
	sf     singleflight.Group
	logger *slog.Logger
}

func NewCourseTitleLookup(repo repositories.CourseRepository, cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) CourseTitleLookup {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &courseTitleLookup{
		repo:   repo,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger.With("component", "course_lookup"),
	}
}

func (l *courseTitleLookup) Title(ctx context.Context, courseID string) string {
	if courseID == "" {
		return UnknownCourseTitle
	}

	key := courseTitlePrefix + courseID
	var title string
	if err := l.cache.Get(ctx, key, &title); err == nil && title != "" {
		return title
	} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		l.logger.DebugContext(ctx, "Course title cache unavailable", "course_id", courseID, "error", err)
	}

	// Concurrent summary workers often ask for the same course
	result, err, _ := l.sf.Do(courseID, func() (interface{}, error) {
		title, err := l.repo.GetTitle(ctx, courseID)
		if err != nil {
			return "", err
		}
		if l.ttl <= 0 {
			return title, nil
		}
		if err := l.cache.Set(ctx, key, title, l.ttl); err != nil {
			l.logger.DebugContext(ctx, "Failed to cache course title", "course_id", courseID, "error", err)
		}
		return title, nil
	})
	if err != nil {
		l.logger.WarnContext(ctx, "Course title lookup failed, using placeholder", "course_id", courseID, "error", err)
		return UnknownCourseTitle
	}
	if title = result.(string); title == "" {
		return UnknownCourseTitle
	}
	return title
}
