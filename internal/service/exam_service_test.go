package service

import (
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"studyforge/internal/dto"
	"studyforge/internal/model"
	"studyforge/internal/repository"
)

func newExamFixture(t *testing.T) (ExamService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewExamService(repository.NewExamRepository(db), nil), db
}

func TestGetExamWithQuestions(t *testing.T) {
	s, db := newExamFixture(t)
	exam := seedExam(t, db)

	resp, err := s.GetExam(exam.ID)
	if err != nil {
		t.Fatalf("GetExam returned error: %v", err)
	}
	if len(resp.Questions) != 3 {
		t.Fatalf("exam has %d questions, want 3", len(resp.Questions))
	}
	if resp.Questions[0].Prompt != "Pick B." {
		t.Errorf("first question = %q, want creation order preserved", resp.Questions[0].Prompt)
	}
	if len(resp.Questions[0].Options) != 3 {
		t.Errorf("question options = %v, want 3 options", resp.Questions[0].Options)
	}
}

func TestGetExamNotFound(t *testing.T) {
	s, _ := newExamFixture(t)
	if _, err := s.GetExam(404); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("GetExam error = %v, want ErrExamNotFound", err)
	}
}

func TestUpdateExamPartialFields(t *testing.T) {
	s, db := newExamFixture(t)
	exam := seedExam(t, db)

	duration := 45
	published := true
	resp, err := s.UpdateExam(exam.ID, dto.UpdateExamRequest{
		Title:           strPtr("Renamed"),
		DurationMinutes: &duration,
		IsPublished:     &published,
	})
	if err != nil {
		t.Fatalf("UpdateExam returned error: %v", err)
	}
	if resp.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", resp.Title)
	}
	if resp.DurationMinutes == nil || *resp.DurationMinutes != 45 {
		t.Error("duration not updated")
	}
	if !resp.IsPublished {
		t.Error("publication flag not updated")
	}

	var stored model.Exam
	db.First(&stored, exam.ID)
	if stored.Title != "Renamed" {
		t.Error("update not persisted")
	}
	// Untouched fields keep their values.
	if stored.Description != exam.Description {
		t.Error("description changed by a partial update")
	}
}

func TestDeleteExamCascades(t *testing.T) {
	s, db := newExamFixture(t)
	exam := seedExam(t, db)

	attempt := &model.ExamAttempt{
		ExamID:  exam.ID,
		OwnerID: 1,
		Answers: []model.Answer{
			{QuestionID: exam.Questions[0].ID, Response: "A"},
		},
	}
	if err := db.Create(attempt).Error; err != nil {
		t.Fatalf("failed to seed attempt: %v", err)
	}
	explanation := &model.AnswerExplanation{
		AnswerID:        attempt.Answers[0].ID,
		Explanation:     "e",
		KeyTakeaway:     "k",
		SuggestedReview: "r",
	}
	if err := db.Create(explanation).Error; err != nil {
		t.Fatalf("failed to seed explanation: %v", err)
	}

	if err := s.DeleteExam(exam.ID); err != nil {
		t.Fatalf("DeleteExam returned error: %v", err)
	}

	counts := map[string]int64{}
	for name, m := range map[string]interface{}{
		"exams":        &model.Exam{},
		"questions":    &model.Question{},
		"attempts":     &model.ExamAttempt{},
		"answers":      &model.Answer{},
		"explanations": &model.AnswerExplanation{},
	} {
		var count int64
		db.Model(m).Count(&count)
		counts[name] = count
	}
	for name, count := range counts {
		if count != 0 {
			t.Errorf("%s remaining after delete: %d, want 0", name, count)
		}
	}
}

func TestDeleteExamNotFound(t *testing.T) {
	s, _ := newExamFixture(t)
	if err := s.DeleteExam(404); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("DeleteExam error = %v, want ErrExamNotFound", err)
	}
}

func TestListExamsScopedToOwner(t *testing.T) {
	s, db := newExamFixture(t)
	seedExam(t, db)

	other := &model.Exam{OwnerID: 2, Title: "Someone else's", SourceDocumentIDs: datatypes.NewJSONSlice([]uint{})}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("failed to seed exam: %v", err)
	}

	resp, err := s.ListExams(1, 0, 100)
	if err != nil {
		t.Fatalf("ListExams returned error: %v", err)
	}
	if resp.Total != 1 || len(resp.Exams) != 1 {
		t.Fatalf("ListExams returned %d/%d exams, want 1", len(resp.Exams), resp.Total)
	}
	if resp.Exams[0].OwnerID != 1 {
		t.Errorf("listed exam owner = %d, want 1", resp.Exams[0].OwnerID)
	}
}
