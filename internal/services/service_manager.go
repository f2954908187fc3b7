package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/cache"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/events"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
)

// ServiceManager hands out the services the HTTP layer depends on
type ServiceManager interface {
	Analytics() AnalyticsService
	Grading() GradingService
	Summary() SummaryService
	Export() ExportService
}

// Dependencies collects everything the services are built from. Narrator may be nil.
// Cache only backs course title lookups.
type Dependencies struct {
	Repo               repositories.Repository
	Cache              cache.CacheService
	Publisher          events.EventPublisher
	Narrator           NarrativeGenerator
	Validator          *validator.Validator
	Logger             *slog.Logger
	CourseTitleTTL     time.Duration
	SummaryConcurrency int
}

type serviceManager struct {
	analytics AnalyticsService
	grading   GradingService
	summary   SummaryService
	export    ExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopCache()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}

	opts := []AnalyticsOption{}
	if deps.Narrator != nil {
		opts = append(opts, WithNarrativeGenerator(deps.Narrator))
	}
	if deps.Publisher != nil {
		opts = append(opts, WithEventPublisher(deps.Publisher))
	}

	courses := NewCourseTitleLookup(deps.Repo.Course(), deps.Cache, deps.CourseTitleTTL, deps.Logger)
	return &serviceManager{
		analytics: NewAnalyticsService(deps.Repo, deps.Validator, deps.Logger, opts...),
		grading:   NewGradingService(deps.Repo, deps.Publisher, deps.Logger, deps.Validator),
		summary:   NewSummaryService(deps.Repo, courses, deps.SummaryConcurrency, deps.Logger),
		export:    NewExportService(deps.Repo, deps.Logger),
	}
}

func (m *serviceManager) Analytics() AnalyticsService { return m.analytics }
func (m *serviceManager) Grading() GradingService     { return m.grading }
func (m *serviceManager) Summary() SummaryService     { return m.summary }
func (m *serviceManager) Export() ExportService       { return m.export }
