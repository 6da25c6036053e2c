package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"studyforge/internal/dto"
	"studyforge/internal/model"
	"studyforge/internal/repository"
)

type fakeExplanationService struct {
	calls []uint
	err   error
}

func (f *fakeExplanationService) ExplainAnswer(ctx context.Context, exam *model.Exam, question *model.Question, response string) (*model.AnswerExplanation, error) {
	f.calls = append(f.calls, question.ID)
	if f.err != nil {
		return nil, f.err
	}
	return &model.AnswerExplanation{
		Explanation:     "You mixed up the two concepts.",
		KeyTakeaway:     "Remember the definition.",
		SuggestedReview: "Re-read the first section.",
	}, nil
}

func newAttemptFixture(t *testing.T) (AttemptService, *gorm.DB, *fakeExplanationService) {
	t.Helper()
	db := newTestDB(t)
	explainer := &fakeExplanationService{}
	s := NewAttemptService(
		db,
		repository.NewExamRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewAnswerRepository(db),
		explainer,
	)
	return s, db, explainer
}

// seedExam creates an exam with three questions: a graded multiple choice, a
// graded true/false and one without any grading key.
func seedExam(t *testing.T, db *gorm.DB) *model.Exam {
	t.Helper()
	exam := &model.Exam{
		OwnerID:           1,
		Title:             "Fixture Exam",
		SourceDocumentIDs: datatypes.NewJSONSlice([]uint{}),
		Questions: []model.Question{
			{
				Prompt:        "Pick B.",
				Type:          model.QuestionTypeMultipleChoice,
				Options:       datatypes.NewJSONSlice([]string{"A", "B", "C"}),
				CorrectAnswer: strPtr("B"),
			},
			{
				Prompt:        "Water is wet.",
				Type:          model.QuestionTypeTrueFalse,
				Options:       datatypes.NewJSONSlice([]string{"True", "False"}),
				CorrectAnswer: strPtr("True"),
			},
			{
				Prompt:  "Ungraded survey question.",
				Type:    model.QuestionTypeMultipleChoice,
				Options: datatypes.NewJSONSlice([]string{"A", "B", "C"}),
			},
		},
	}
	if err := db.Create(exam).Error; err != nil {
		t.Fatalf("failed to seed exam: %v", err)
	}
	return exam
}

func TestCreateAttemptPreCreatesAnswers(t *testing.T) {
	s, db, _ := newAttemptFixture(t)
	exam := seedExam(t, db)

	attempt, err := s.CreateAttempt(context.Background(), 7, dto.CreateAttemptRequest{ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateAttempt returned error: %v", err)
	}
	if attempt.IsComplete {
		t.Error("new attempt is marked complete")
	}
	if attempt.OwnerID != 7 {
		t.Errorf("attempt owner = %d, want 7", attempt.OwnerID)
	}
	if len(attempt.Answers) != len(exam.Questions) {
		t.Fatalf("attempt has %d answers, want %d", len(attempt.Answers), len(exam.Questions))
	}
	for _, answer := range attempt.Answers {
		if answer.Response != "" {
			t.Errorf("answer %d pre-created with response %q, want empty", answer.ID, answer.Response)
		}
		if answer.IsCorrect != nil {
			t.Errorf("answer %d pre-created with is_correct set", answer.ID)
		}
	}
}

func TestCreateAttemptExamNotFound(t *testing.T) {
	s, _, _ := newAttemptFixture(t)
	_, err := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: 999})
	if !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("CreateAttempt error = %v, want ErrExamNotFound", err)
	}
}

func TestUpdateAttemptAnswerByQuestionID(t *testing.T) {
	s, db, _ := newAttemptFixture(t)
	exam := seedExam(t, db)
	attempt, _ := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: exam.ID})

	questionID := attempt.Answers[0].QuestionID
	updated, err := s.UpdateAttempt(context.Background(), attempt.ID, dto.UpdateAttemptRequest{
		Answers: []dto.AnswerUpdate{{QuestionID: &questionID, Response: "B"}},
	})
	if err != nil {
		t.Fatalf("UpdateAttempt returned error: %v", err)
	}
	if updated.Answers[0].Response != "B" {
		t.Errorf("answer response = %q, want B", updated.Answers[0].Response)
	}
}

func TestUpdateAttemptAnswerByID(t *testing.T) {
	s, db, _ := newAttemptFixture(t)
	exam := seedExam(t, db)
	attempt, _ := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: exam.ID})

	answerID := attempt.Answers[1].ID
	updated, err := s.UpdateAttempt(context.Background(), attempt.ID, dto.UpdateAttemptRequest{
		Answers: []dto.AnswerUpdate{{ID: &answerID, Response: "False"}},
	})
	if err != nil {
		t.Fatalf("UpdateAttempt returned error: %v", err)
	}
	if updated.Answers[1].Response != "False" {
		t.Errorf("answer response = %q, want False", updated.Answers[1].Response)
	}
}

func TestUpdateAttemptRejectsForeignAnswer(t *testing.T) {
	s, db, _ := newAttemptFixture(t)
	exam := seedExam(t, db)
	first, _ := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: exam.ID})
	second, _ := s.CreateAttempt(context.Background(), 2, dto.CreateAttemptRequest{ExamID: exam.ID})

	foreignID := first.Answers[0].ID
	_, err := s.UpdateAttempt(context.Background(), second.ID, dto.UpdateAttemptRequest{
		Answers: []dto.AnswerUpdate{{ID: &foreignID, Response: "A"}},
	})
	if !errors.Is(err, ErrAnswerMismatch) {
		t.Fatalf("UpdateAttempt error = %v, want ErrAnswerMismatch", err)
	}
}

func TestUpdateAttemptAnswerNotFound(t *testing.T) {
	s, db, _ := newAttemptFixture(t)
	exam := seedExam(t, db)
	attempt, _ := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: exam.ID})

	missing := uint(9999)
	_, err := s.UpdateAttempt(context.Background(), attempt.ID, dto.UpdateAttemptRequest{
		Answers: []dto.AnswerUpdate{{QuestionID: &missing, Response: "A"}},
	})
	if !errors.Is(err, ErrAnswerNotFound) {
		t.Fatalf("UpdateAttempt error = %v, want ErrAnswerNotFound", err)
	}
}

func TestUpdateAttemptAfterCompletion(t *testing.T) {
	s, db, _ := newAttemptFixture(t)
	exam := seedExam(t, db)
	attempt, _ := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: exam.ID})

	if _, err := s.UpdateAttempt(context.Background(), attempt.ID, dto.UpdateAttemptRequest{IsComplete: true}); err != nil {
		t.Fatalf("finalizing UpdateAttempt returned error: %v", err)
	}

	questionID := attempt.Answers[0].QuestionID
	_, err := s.UpdateAttempt(context.Background(), attempt.ID, dto.UpdateAttemptRequest{
		Answers: []dto.AnswerUpdate{{QuestionID: &questionID, Response: "B"}},
	})
	if !errors.Is(err, ErrAttemptAlreadyComplete) {
		t.Fatalf("UpdateAttempt error = %v, want ErrAttemptAlreadyComplete", err)
	}
}

func TestScoreAnswers(t *testing.T) {
	q := func(correct *string) model.Question {
		return model.Question{CorrectAnswer: correct}
	}
	tests := []struct {
		name        string
		answers     []*model.Answer
		wantCorrect int
		wantTotal   int
	}{
		{
			name: "exact match",
			answers: []*model.Answer{
				{Question: q(strPtr("B")), Response: "B"},
			},
			wantCorrect: 1,
			wantTotal:   1,
		},
		{
			name: "case and whitespace insensitive",
			answers: []*model.Answer{
				{Question: q(strPtr("True")), Response: "  true "},
			},
			wantCorrect: 1,
			wantTotal:   1,
		},
		{
			name: "wrong answer",
			answers: []*model.Answer{
				{Question: q(strPtr("B")), Response: "A"},
			},
			wantCorrect: 0,
			wantTotal:   1,
		},
		{
			name: "unanswered counts toward total",
			answers: []*model.Answer{
				{Question: q(strPtr("B")), Response: ""},
				{Question: q(strPtr("B")), Response: "B"},
			},
			wantCorrect: 1,
			wantTotal:   2,
		},
		{
			name: "no grading key counts as incorrect",
			answers: []*model.Answer{
				{Question: q(nil), Response: "anything"},
			},
			wantCorrect: 0,
			wantTotal:   1,
		},
		{
			name:        "empty set",
			answers:     nil,
			wantCorrect: 0,
			wantTotal:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, total := ScoreAnswers(tt.answers)
			if correct != tt.wantCorrect || total != tt.wantTotal {
				t.Errorf("ScoreAnswers = (%d, %d), want (%d, %d)", correct, total, tt.wantCorrect, tt.wantTotal)
			}
			for i, answer := range tt.answers {
				if answer.IsCorrect == nil {
					t.Errorf("answer %d left ungraded", i)
				}
			}
		})
	}
}

func TestFinalizeScoresAndExplains(t *testing.T) {
	s, db, explainer := newAttemptFixture(t)
	exam := seedExam(t, db)
	attempt, _ := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: exam.ID})

	// Right answer on the first question, wrong on the second, the third is
	// answered but has no grading key.
	q1 := attempt.Answers[0].QuestionID
	q2 := attempt.Answers[1].QuestionID
	q3 := attempt.Answers[2].QuestionID
	final, err := s.UpdateAttempt(context.Background(), attempt.ID, dto.UpdateAttemptRequest{
		Answers: []dto.AnswerUpdate{
			{QuestionID: &q1, Response: "B"},
			{QuestionID: &q2, Response: "False"},
			{QuestionID: &q3, Response: "C"},
		},
		IsComplete: true,
	})
	if err != nil {
		t.Fatalf("UpdateAttempt returned error: %v", err)
	}

	if !final.IsComplete || final.CompletedAt == nil {
		t.Error("attempt not marked complete")
	}
	if final.Score == nil {
		t.Fatal("attempt has no score")
	}
	want := 100.0 / 3.0
	if diff := *final.Score - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("score = %f, want %f", *final.Score, want)
	}

	// Only the wrong answer with a grading key gets an explanation.
	if len(explainer.calls) != 1 || explainer.calls[0] != q2 {
		t.Errorf("explanations generated for questions %v, want [%d]", explainer.calls, q2)
	}
	if final.Answers[1].Explanation == nil {
		t.Error("wrong answer has no explanation attached")
	}
	if final.Answers[0].Explanation != nil || final.Answers[2].Explanation != nil {
		t.Error("explanation attached to an answer that should not have one")
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	s, db, explainer := newAttemptFixture(t)
	exam := seedExam(t, db)
	attempt, _ := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: exam.ID})

	q1 := attempt.Answers[0].QuestionID
	if _, err := s.UpdateAttempt(context.Background(), attempt.ID, dto.UpdateAttemptRequest{
		Answers:    []dto.AnswerUpdate{{QuestionID: &q1, Response: "A"}},
		IsComplete: true,
	}); err != nil {
		t.Fatalf("UpdateAttempt returned error: %v", err)
	}
	callsAfterFirst := len(explainer.calls)

	impl := s.(*attemptService)
	if err := impl.finalize(context.Background(), attempt.ID); err != nil {
		t.Fatalf("repeated finalize returned error: %v", err)
	}
	if len(explainer.calls) != callsAfterFirst {
		t.Errorf("repeated finalize generated %d extra explanations", len(explainer.calls)-callsAfterFirst)
	}

	var count int64
	db.Model(&model.AnswerExplanation{}).Count(&count)
	if count != int64(callsAfterFirst) {
		t.Errorf("persisted %d explanations, want %d", count, callsAfterFirst)
	}
}

func TestFinalizeSurvivesExplanationFailure(t *testing.T) {
	s, db, explainer := newAttemptFixture(t)
	explainer.err = ErrExplanationFailed
	exam := seedExam(t, db)
	attempt, _ := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{ExamID: exam.ID})

	q1 := attempt.Answers[0].QuestionID
	final, err := s.UpdateAttempt(context.Background(), attempt.ID, dto.UpdateAttemptRequest{
		Answers:    []dto.AnswerUpdate{{QuestionID: &q1, Response: "A"}},
		IsComplete: true,
	})
	if err != nil {
		t.Fatalf("UpdateAttempt returned error: %v", err)
	}
	if !final.IsComplete || final.Score == nil {
		t.Error("attempt not finalized when explanation generation failed")
	}
}

func TestCreateAttemptWithImmediateCompletion(t *testing.T) {
	s, db, _ := newAttemptFixture(t)
	exam := seedExam(t, db)

	questions := exam.Questions
	q1 := questions[0].ID
	attempt, err := s.CreateAttempt(context.Background(), 1, dto.CreateAttemptRequest{
		ExamID:     exam.ID,
		Answers:    []dto.AnswerUpdate{{QuestionID: &q1, Response: "B"}},
		IsComplete: true,
	})
	if err != nil {
		t.Fatalf("CreateAttempt returned error: %v", err)
	}
	if !attempt.IsComplete || attempt.Score == nil {
		t.Fatal("attempt created with is_complete=true was not finalized")
	}
}
