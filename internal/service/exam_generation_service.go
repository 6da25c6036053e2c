package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"studyforge/internal/model"
	"studyforge/internal/repository"
)

// MaxPromptChars caps the combined document text sent to the question
// generator. Longer inputs are truncated from the front of the prompt budget.
const MaxPromptChars = 15000

const (
	DefaultNumQuestions = 5
	DefaultDifficulty   = "medium"
	DefaultExamTitle    = "Generated Exam"
)

// questionItem is the per-question shape the model is asked to produce.
type questionItem struct {
	Question string   `json:"question"`
	Answer   *string  `json:"answer"`
	Type     string   `json:"type"`
	Options  []string `json:"options"`
}

// questionOutput is the structured-output envelope for a generation run.
type questionOutput struct {
	Questions []questionItem `json:"questions"`
}

type GenerateExamParams struct {
	OwnerID       uint
	DocumentIDs   []uint
	Title         string
	Description   string
	NumQuestions  int
	Difficulty    string
	QuestionTypes []model.QuestionType
}

// ExamGenerationService builds an exam from the extracted text of a set of
// documents via the language model. Items that violate the type and option
// rules are dropped rather than failing the whole run; an exam is created
// only if at least one valid question survives.
type ExamGenerationService interface {
	GenerateExam(ctx context.Context, params GenerateExamParams) (*model.Exam, error)
}

type examGenerationService struct {
	db                 *gorm.DB
	documentRepository repository.DocumentRepository
	examRepository     repository.ExamRepository
	completer          CompletionService
}

func NewExamGenerationService(
	db *gorm.DB,
	documentRepository repository.DocumentRepository,
	examRepository repository.ExamRepository,
	completer CompletionService,
) ExamGenerationService {
	return &examGenerationService{
		db:                 db,
		documentRepository: documentRepository,
		examRepository:     examRepository,
		completer:          completer,
	}
}

func (s *examGenerationService) GenerateExam(ctx context.Context, params GenerateExamParams) (*model.Exam, error) {
	text, err := s.collectSourceText(params.DocumentIDs)
	if err != nil {
		return nil, err
	}

	numQuestions := params.NumQuestions
	if numQuestions <= 0 {
		numQuestions = DefaultNumQuestions
	}
	difficulty := params.Difficulty
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	questionTypes := params.QuestionTypes
	if len(questionTypes) == 0 {
		questionTypes = []model.QuestionType{model.QuestionTypeMultipleChoice, model.QuestionTypeTrueFalse}
	}

	prompt := buildQuestionPrompt(text, numQuestions, difficulty, questionTypes)

	var output questionOutput
	if err := s.completer.CompleteStructured(ctx, prompt, "question_output", &output); err != nil {
		if errors.Is(err, ErrLLMValidation) {
			return nil, err
		}
		log.Error().Err(err).Uints("document_ids", params.DocumentIDs).Msg("Question generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	questions := make([]model.Question, 0, len(output.Questions))
	for _, item := range output.Questions {
		q, ok := normalizeQuestionItem(item)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no valid questions produced", ErrGenerationFailed)
	}

	title := params.Title
	if title == "" {
		title = DefaultExamTitle
	}
	exam := &model.Exam{
		OwnerID:           params.OwnerID,
		Title:             title,
		Description:       params.Description,
		SourceDocumentIDs: datatypes.NewJSONSlice(params.DocumentIDs),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exam).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ExamID = exam.ID
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		return nil, err
	}

	exam.Questions = questions
	log.Info().Uint("exam_id", exam.ID).Int("questions", len(questions)).Msg("Exam generated")
	return exam, nil
}

func (s *examGenerationService) collectSourceText(documentIDs []uint) (string, error) {
	documents, err := s.documentRepository.FindByIDs(documentIDs)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(documents))
	for _, d := range documents {
		if d.ExtractedText != nil && *d.ExtractedText != "" {
			texts = append(texts, *d.ExtractedText)
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("%w: documents %v", ErrNoSourceText, documentIDs)
	}

	combined := strings.Join(texts, "\n")
	if utf8.RuneCountInString(combined) > MaxPromptChars {
		runes := []rune(combined)
		log.Warn().
			Int("original_length", len(runes)).
			Int("max_chars", MaxPromptChars).
			Msg("Truncated source text for question generation")
		combined = string(runes[:MaxPromptChars])
	}
	return combined, nil
}

// normalizeQuestionItem enforces the type and option rules on a single model
// output. True/false items get their options forced to the canonical pair;
// multiple-choice items that only offer boolean options, have fewer than 3
// options, or whose answer matches no option are rejected.
func normalizeQuestionItem(item questionItem) (model.Question, bool) {
	if strings.TrimSpace(item.Question) == "" {
		log.Warn().Msg("Dropping question with empty prompt")
		return model.Question{}, false
	}

	switch model.QuestionType(item.Type) {
	case model.QuestionTypeTrueFalse:
		item.Options = []string{"True", "False"}
		if item.Answer != nil && *item.Answer != "True" && *item.Answer != "False" {
			log.Warn().Str("question", item.Question).Str("answer", *item.Answer).
				Msg("Dropping true/false question with non-boolean answer")
			return model.Question{}, false
		}
	case model.QuestionTypeMultipleChoice:
		if onlyBooleanOptions(item.Options) {
			log.Warn().Str("question", item.Question).
				Msg("Dropping multiple-choice question with boolean-only options")
			return model.Question{}, false
		}
		if len(item.Options) < 3 {
			log.Warn().Str("question", item.Question).Int("options", len(item.Options)).
				Msg("Dropping multiple-choice question with too few options")
			return model.Question{}, false
		}
		if item.Answer != nil && !containsOption(item.Options, *item.Answer) {
			log.Warn().Str("question", item.Question).Str("answer", *item.Answer).
				Msg("Dropping multiple-choice question whose answer matches no option")
			return model.Question{}, false
		}
	default:
		log.Warn().Str("question", item.Question).Str("type", item.Type).
			Msg("Dropping question with unknown type")
		return model.Question{}, false
	}

	return model.Question{
		Prompt:        item.Question,
		Type:          model.QuestionType(item.Type),
		Options:       datatypes.NewJSONSlice(item.Options),
		CorrectAnswer: item.Answer,
	}, true
}

func onlyBooleanOptions(options []string) bool {
	if len(options) == 0 {
		return false
	}
	for _, o := range options {
		lower := strings.ToLower(strings.TrimSpace(o))
		if lower != "true" && lower != "false" {
			return false
		}
	}
	return true
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}

func buildQuestionPrompt(text string, numQuestions int, difficulty string, questionTypes []model.QuestionType) string {
	typeNames := make([]string, len(questionTypes))
	for i, t := range questionTypes {
		typeNames[i] = string(t)
	}

	return fmt.Sprintf(`Generate %d questions from the following document text.

Rules (must follow exactly):
- Each question MUST include:
  - question (string)
  - answer (string or null)
  - type: "multiple_choice" or "true_false"
  - options (array of strings)

- For true_false questions:
  - type MUST be "true_false"
  - options MUST be exactly ["True", "False"]
  - Do NOT use true_false type with multiple choice options

- For multiple_choice questions:
  - type MUST be "multiple_choice"
  - options MUST contain at least 3 plausible choices (not just True/False)
  - answer MUST match exactly one option
  - Do NOT use multiple_choice type with only True/False options

Difficulty rules:
- EASY:
  - Focus on direct facts explicitly stated in the text
  - Minimal inference
  - Single concept per question
  - Obvious distractors

- MEDIUM:
  - Require understanding relationships between concepts
  - Light inference or comparison
  - Distractors should be plausible but incorrect

- HARD:
  - Require multi-step reasoning or synthesis across multiple parts of the text
  - Subtle distinctions between options
  - Distractors should be conceptually close to the correct answer

Additional constraints:
- Do NOT introduce facts not present in the document
- Do NOT rely on outside knowledge
- Difficulty MUST affect question complexity, not wording alone

Return structured data only.

Document text:
%s

Difficulty: %s
Allowed question types: %s

CRITICAL: The question type MUST match the options:
- If type is "true_false", options MUST be exactly ["True", "False"]
- If type is "multiple_choice", options MUST have at least 3 different choices (NOT True/False)
- Do NOT mix types: a true_false question cannot have multiple choice options, and vice versa
`, numQuestions, text, difficulty, strings.Join(typeNames, ", "))
}
