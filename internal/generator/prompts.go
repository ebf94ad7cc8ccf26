package generator

import (
	"fmt"

	"github.com/disasterprep/backend/internal/models"
)

var difficultyDescriptors = map[models.Difficulty]string{
	models.DifficultyEasy:   "basic recall of core safety rules, suitable for a student new to the topic",
	models.DifficultyMedium: "applied scenarios that require choosing the right action in context",
	models.DifficultyHard:   "nuanced judgment calls, edge cases, and commonly confused procedures",
}

func QuizSystemPrompt() string {
	return `You are a disaster-preparedness curriculum writer for a school training program.
You write multiple-choice quiz questions that test practical safety knowledge: what to do before, during, and after an emergency.

Rules you always follow:
- Every question is factually accurate and reflects guidance from recognized safety authorities.
- Every question has exactly 4 answer options with exactly 1 correct option.
- Wrong options are plausible mistakes a student might actually make, never absurd.
- Every question includes a short explanation of why the correct answer is right.
- You respond with JSON only. No preamble, no markdown fences, no commentary.`
}

func BuildQuizUserPrompt(topicName string, difficulty models.Difficulty) string {
	descriptor := difficultyDescriptors[difficulty]
	if descriptor == "" {
		descriptor = difficultyDescriptors[models.DifficultyMedium]
	}

	return fmt.Sprintf(`Write exactly %d multiple-choice quiz questions about "%s".

Difficulty: %s — %s.

Cover different aspects of the topic; no two questions should test the same fact.

Respond with this exact JSON structure:
{
  "questions": [
    {
      "question_text": "...",
      "options": [
        {"text": "...", "is_correct": false},
        {"text": "...", "is_correct": true},
        {"text": "...", "is_correct": false},
        {"text": "...", "is_correct": false}
      ],
      "explanation": "..."
    }
  ]
}

Each question must have exactly 4 options and exactly 1 with "is_correct": true. Vary the position of the correct option across questions.`,
		QuizQuestionCount, topicName, difficulty, descriptor)
}

func SafetySystemPrompt() string {
	return `You are a disaster-preparedness curriculum writer for a school training program.
You produce short, digestible safety information cards that students read before taking a drill quiz.

Rules you always follow:
- Guidance is factually accurate and reflects recognized safety authorities.
- Each card has a clear title and 3-5 short action-oriented bullet points.
- Language is plain and direct, written for school students.
- You respond with JSON only. No preamble, no markdown fences, no commentary.`
}

func BuildSafetyUserPrompt(topicName string, regional bool) string {
	regionLine := ""
	if regional {
		regionLine = "\nThis is a location-specific hazard: include guidance that only applies to students living in an affected region."
	}

	return fmt.Sprintf(`Write safety information cards about "%s".%s

Organize the cards around what to do before, during, and after the event.

Respond with this exact JSON structure:
{
  "cards": [
    {
      "title": "...",
      "points": ["...", "...", "..."]
    }
  ]
}`, topicName, regionLine)
}
