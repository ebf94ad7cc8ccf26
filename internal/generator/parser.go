package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuizQuestionCount is the fixed length of every generated quiz.
const QuizQuestionCount = 5

type GeneratedQuiz struct {
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	QuestionText string            `json:"question_text"`
	Options      []GeneratedOption `json:"options"`
	Explanation  string            `json:"explanation"`
}

type GeneratedOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type GeneratedSafetyInfo struct {
	Cards []GeneratedSafetyCard `json:"cards"`
}

type GeneratedSafetyCard struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseQuizResponse decodes and validates a generated quiz. Anything that
// fails the shape checks is rejected — a malformed quiz never reaches a
// student.
func ParseQuizResponse(responseBody string) (*GeneratedQuiz, error) {
	cleaned := stripCodeFences(responseBody)

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateQuiz(&quiz); err != nil {
		return nil, err
	}

	return &quiz, nil
}

func ParseSafetyResponse(responseBody string) (*GeneratedSafetyInfo, error) {
	cleaned := stripCodeFences(responseBody)

	var info GeneratedSafetyInfo
	if err := json.Unmarshal([]byte(cleaned), &info); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateSafetyInfo(&info); err != nil {
		return nil, err
	}

	return &info, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateQuiz(quiz *GeneratedQuiz) error {
	var errs []string

	if len(quiz.Questions) != QuizQuestionCount {
		return &ValidationError{Errors: []string{
			fmt.Sprintf("expected %d questions, got %d", QuizQuestionCount, len(quiz.Questions)),
		}}
	}

	for i, q := range quiz.Questions {
		qNum := i + 1

		if strings.TrimSpace(q.QuestionText) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty question_text", qNum))
		}

		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", qNum, len(q.Options)))
			continue
		}

		correctCount := 0
		for j, opt := range q.Options {
			if strings.TrimSpace(opt.Text) == "" {
				errs = append(errs, fmt.Sprintf("question %d: option %d has empty text", qNum, j+1))
			}
			if opt.IsCorrect {
				correctCount++
			}
		}
		if correctCount != 1 {
			errs = append(errs, fmt.Sprintf("question %d: expected exactly 1 correct option, got %d", qNum, correctCount))
		}

		if strings.TrimSpace(q.Explanation) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty explanation", qNum))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

func validateSafetyInfo(info *GeneratedSafetyInfo) error {
	var errs []string

	if len(info.Cards) == 0 {
		return &ValidationError{Errors: []string{"no safety cards in response"}}
	}

	for i, card := range info.Cards {
		cNum := i + 1
		if strings.TrimSpace(card.Title) == "" {
			errs = append(errs, fmt.Sprintf("card %d: empty title", cNum))
		}
		if len(card.Points) == 0 {
			errs = append(errs, fmt.Sprintf("card %d: no points", cNum))
		}
		for j, p := range card.Points {
			if strings.TrimSpace(p) == "" {
				errs = append(errs, fmt.Sprintf("card %d: point %d is empty", cNum, j+1))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}
