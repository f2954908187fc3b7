package postgres

import (
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type repositoryManager struct {
	quiz       repositories.QuizRepository
	submission repositories.SubmissionRepository
	course     repositories.CourseRepository
}

// NewRepository wires every gorm-backed store around a single connection pool
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repositoryManager{
		quiz:       NewQuizPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
		course:     NewCoursePostgreSQL(db),
	}
}

func (r *repositoryManager) Quiz() repositories.QuizRepository             { return r.quiz }
func (r *repositoryManager) Submission() repositories.SubmissionRepository { return r.submission }
func (r *repositoryManager) Course() repositories.CourseRepository         { return r.course }
