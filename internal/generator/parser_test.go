package generator

import (
	"fmt"
	"strings"
	"testing"
)

func validQuizJSON() string {
	questions := make([]string, 0, QuizQuestionCount)
	for i := 0; i < QuizQuestionCount; i++ {
		questions = append(questions, fmt.Sprintf(`{
			"question_text": "Question %d about evacuation?",
			"options": [
				{"text": "Plausible wrong answer", "is_correct": false},
				{"text": "The correct answer", "is_correct": true},
				{"text": "Another wrong answer", "is_correct": false},
				{"text": "A third wrong answer", "is_correct": false}
			],
			"explanation": "Because official guidance says so."
		}`, i+1))
	}
	return fmt.Sprintf(`{"questions":[%s]}`, strings.Join(questions, ","))
}

func TestParseQuizResponseValid(t *testing.T) {
	quiz, err := ParseQuizResponse(validQuizJSON())
	if err != nil {
		t.Fatalf("ParseQuizResponse failed: %v", err)
	}
	if len(quiz.Questions) != QuizQuestionCount {
		t.Errorf("questions = %d, want %d", len(quiz.Questions), QuizQuestionCount)
	}
	for i, q := range quiz.Questions {
		if len(q.Options) != 4 {
			t.Errorf("question %d: options = %d, want 4", i+1, len(q.Options))
		}
	}
}

func TestParseQuizResponseStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validQuizJSON() + "\n```"
	if _, err := ParseQuizResponse(fenced); err != nil {
		t.Errorf("fenced response rejected: %v", err)
	}

	bare := "```\n" + validQuizJSON() + "\n```"
	if _, err := ParseQuizResponse(bare); err != nil {
		t.Errorf("bare-fenced response rejected: %v", err)
	}
}

func TestParseQuizResponseWrongQuestionCount(t *testing.T) {
	short := `{"questions":[{"question_text":"Only one?","options":[{"text":"a","is_correct":true},{"text":"b","is_correct":false},{"text":"c","is_correct":false},{"text":"d","is_correct":false}],"explanation":"x"}]}`
	_, err := ParseQuizResponse(short)
	if err == nil {
		t.Fatal("expected error for wrong question count")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("err type = %T, want *ValidationError", err)
	}
}

func TestParseQuizResponseRejectsBadShapes(t *testing.T) {
	base := validQuizJSON()

	tests := []struct {
		name    string
		mutate  func(string) string
		wantSub string
	}{
		{
			"two correct options",
			func(s string) string {
				return strings.Replace(s, `{"text": "Plausible wrong answer", "is_correct": false}`,
					`{"text": "Plausible wrong answer", "is_correct": true}`, 1)
			},
			"exactly 1 correct",
		},
		{
			"no correct option",
			func(s string) string {
				return strings.ReplaceAll(s, `"is_correct": true`, `"is_correct": false`)
			},
			"exactly 1 correct",
		},
		{
			"empty explanation",
			func(s string) string {
				return strings.Replace(s, `"explanation": "Because official guidance says so."`, `"explanation": ""`, 1)
			},
			"empty explanation",
		},
		{
			"empty question text",
			func(s string) string {
				return strings.Replace(s, `"question_text": "Question 1 about evacuation?"`, `"question_text": ""`, 1)
			},
			"empty question_text",
		},
	}

	for _, tt := range tests {
		_, err := ParseQuizResponse(tt.mutate(base))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantSub) {
			t.Errorf("%s: err = %v, want substring %q", tt.name, err, tt.wantSub)
		}
	}
}

func TestParseQuizResponseInvalidJSON(t *testing.T) {
	_, err := ParseQuizResponse("not json at all")
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestParseSafetyResponse(t *testing.T) {
	valid := `{"cards":[{"title":"Before","points":["Pack a kit.","Know the routes."]},{"title":"During","points":["Stay calm."]}]}`
	info, err := ParseSafetyResponse(valid)
	if err != nil {
		t.Fatalf("ParseSafetyResponse failed: %v", err)
	}
	if len(info.Cards) != 2 {
		t.Errorf("cards = %d, want 2", len(info.Cards))
	}

	if _, err := ParseSafetyResponse(`{"cards":[]}`); err == nil {
		t.Error("expected error for empty card list")
	}
	if _, err := ParseSafetyResponse(`{"cards":[{"title":"","points":["x"]}]}`); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := ParseSafetyResponse(`{"cards":[{"title":"T","points":[]}]}`); err == nil {
		t.Error("expected error for card without points")
	}
}

func TestMockClientRoundTrips(t *testing.T) {
	mock := NewMockClient()

	quizResp, err := mock.Generate(nil, QuizSystemPrompt(), BuildQuizUserPrompt("Fire Safety", "Easy"))
	if err != nil {
		t.Fatalf("mock quiz generate failed: %v", err)
	}
	if _, err := ParseQuizResponse(quizResp.Content); err != nil {
		t.Errorf("mock quiz output fails its own parser: %v", err)
	}

	safetyResp, err := mock.Generate(nil, SafetySystemPrompt(), BuildSafetyUserPrompt("Flood Awareness", false))
	if err != nil {
		t.Fatalf("mock safety generate failed: %v", err)
	}
	if _, err := ParseSafetyResponse(safetyResp.Content); err != nil {
		t.Errorf("mock safety output fails its own parser: %v", err)
	}
}
