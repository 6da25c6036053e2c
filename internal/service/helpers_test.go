package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studyforge/internal/model"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema. The database name is derived from the test name so parallel tests
// never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&model.Document{},
		&model.DocumentChunk{},
		&model.Exam{},
		&model.Question{},
		&model.ExamAttempt{},
		&model.Answer{},
		&model.AnswerExplanation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }
