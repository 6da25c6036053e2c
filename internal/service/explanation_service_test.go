package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/datatypes"

	"studyforge/internal/model"
)

type fakeRetrievalService struct {
	chunks    []string
	gotScope  []uint
	gotK      int
	callCount int
}

func (f *fakeRetrievalService) Retrieve(ctx context.Context, documentIDs []uint, queryEmbedding []float32, k int) ([]string, error) {
	f.callCount++
	f.gotScope = documentIDs
	f.gotK = k
	return f.chunks, nil
}

type fakeExplainCompletion struct {
	out     explanationOutput
	err     error
	prompts []string
}

func (f *fakeExplainCompletion) CompleteStructured(ctx context.Context, prompt string, schemaName string, out any) error {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return f.err
	}
	if o, ok := out.(*explanationOutput); ok {
		*o = f.out
	}
	return nil
}

func explanationFixtureExam() *model.Exam {
	return &model.Exam{
		ID:                1,
		SourceDocumentIDs: datatypes.NewJSONSlice([]uint{3, 4}),
	}
}

func TestExplainAnswerGroundsPromptInRetrievedChunks(t *testing.T) {
	retriever := &fakeRetrievalService{chunks: []string{"The mitochondria is the powerhouse.", "Cells need energy."}}
	completer := &fakeExplainCompletion{out: explanationOutput{
		Explanation:     "Not quite, the mitochondria does that job.",
		KeyTakeaway:     "Mitochondria produce energy.",
		SuggestedReview: "Organelle functions.",
	}}
	s := NewExplanationService(&fakeEmbeddingService{}, retriever, completer)

	question := &model.Question{
		ID:            9,
		Prompt:        "Which organelle produces energy?",
		CorrectAnswer: strPtr("Mitochondria"),
	}
	explanation, err := s.ExplainAnswer(context.Background(), explanationFixtureExam(), question, "Nucleus")
	if err != nil {
		t.Fatalf("ExplainAnswer returned error: %v", err)
	}

	if explanation.Explanation == "" || explanation.KeyTakeaway == "" || explanation.SuggestedReview == "" {
		t.Error("explanation fields not populated")
	}

	if len(retriever.gotScope) != 2 || retriever.gotScope[0] != 3 || retriever.gotScope[1] != 4 {
		t.Errorf("retrieval scope = %v, want the exam's source documents", retriever.gotScope)
	}
	if retriever.gotK != DefaultTopK {
		t.Errorf("retrieval k = %d, want %d", retriever.gotK, DefaultTopK)
	}

	prompt := completer.prompts[0]
	for _, want := range []string{
		"Which organelle produces energy?",
		"Mitochondria",
		"Nucleus",
		"The mitochondria is the powerhouse.",
		"Cells need energy.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExplainAnswerWithoutGradingKey(t *testing.T) {
	s := NewExplanationService(&fakeEmbeddingService{}, &fakeRetrievalService{}, &fakeExplainCompletion{})
	question := &model.Question{ID: 9, Prompt: "Ungraded?"}

	_, err := s.ExplainAnswer(context.Background(), explanationFixtureExam(), question, "anything")
	if !errors.Is(err, ErrExplanationFailed) {
		t.Fatalf("ExplainAnswer error = %v, want ErrExplanationFailed", err)
	}
}

func TestExplainAnswerProceedsWithoutContext(t *testing.T) {
	retriever := &fakeRetrievalService{}
	completer := &fakeExplainCompletion{out: explanationOutput{Explanation: "e", KeyTakeaway: "k", SuggestedReview: "r"}}
	s := NewExplanationService(&fakeEmbeddingService{}, retriever, completer)

	exam := &model.Exam{ID: 1, SourceDocumentIDs: datatypes.NewJSONSlice([]uint{})}
	question := &model.Question{ID: 9, Prompt: "Q?", CorrectAnswer: strPtr("A")}

	if _, err := s.ExplainAnswer(context.Background(), exam, question, "B"); err != nil {
		t.Fatalf("ExplainAnswer returned error: %v", err)
	}
	if len(completer.prompts) != 1 {
		t.Error("completion not invoked when no context was retrieved")
	}
}

func TestExplainAnswerCompletionFailure(t *testing.T) {
	completer := &fakeExplainCompletion{err: errors.New("rate limited")}
	s := NewExplanationService(&fakeEmbeddingService{}, &fakeRetrievalService{}, completer)

	question := &model.Question{ID: 9, Prompt: "Q?", CorrectAnswer: strPtr("A")}
	_, err := s.ExplainAnswer(context.Background(), explanationFixtureExam(), question, "B")
	if !errors.Is(err, ErrExplanationFailed) {
		t.Fatalf("ExplainAnswer error = %v, want ErrExplanationFailed", err)
	}
}
