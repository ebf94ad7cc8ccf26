package quiz

import (
	"database/sql"
	"fmt"

	"github.com/disasterprep/backend/internal/generator"
	"github.com/disasterprep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetCachedQuiz returns the most recently generated quiz for a module and
// difficulty, or nil when nothing has been generated yet.
func (s *Store) GetCachedQuiz(moduleID string, difficulty models.Difficulty) ([]models.QuizQuestion, error) {
	var batchID int64
	err := s.db.QueryRow(
		`SELECT id FROM quiz_batches
		 WHERE module_id = $1 AND difficulty = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		moduleID, string(difficulty),
	).Scan(&batchID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup quiz batch: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, question_text, explanation FROM quiz_questions
		 WHERE batch_id = $1
		 ORDER BY position`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query quiz questions: %w", err)
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	var questionIDs []int64
	for rows.Next() {
		var id int64
		var q models.QuizQuestion
		if err := rows.Scan(&id, &q.QuestionText, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan quiz question: %w", err)
		}
		questions = append(questions, q)
		questionIDs = append(questionIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, qid := range questionIDs {
		optRows, err := s.db.Query(
			`SELECT option_text, is_correct FROM quiz_options
			 WHERE question_id = $1
			 ORDER BY position`,
			qid,
		)
		if err != nil {
			return nil, fmt.Errorf("query quiz options: %w", err)
		}
		for optRows.Next() {
			var opt models.QuizOption
			if err := optRows.Scan(&opt.Text, &opt.IsCorrect); err != nil {
				optRows.Close()
				return nil, fmt.Errorf("scan quiz option: %w", err)
			}
			questions[i].Options = append(questions[i].Options, opt)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return nil, err
		}
		optRows.Close()
	}

	return questions, nil
}

// SaveQuiz persists a generated quiz as a new batch. Later batches shadow
// earlier ones in GetCachedQuiz.
func (s *Store) SaveQuiz(moduleID string, difficulty models.Difficulty, quiz *generator.GeneratedQuiz, modelUsed string, promptTokens, outputTokens, generationTimeMs int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin quiz save: %w", err)
	}
	defer tx.Rollback()

	var batchID int64
	err = tx.QueryRow(
		`INSERT INTO quiz_batches (module_id, difficulty, model_used, prompt_tokens, output_tokens, generation_time_ms)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		moduleID, string(difficulty), modelUsed, promptTokens, outputTokens, generationTimeMs,
	).Scan(&batchID)
	if err != nil {
		return fmt.Errorf("insert quiz batch: %w", err)
	}

	for i, q := range quiz.Questions {
		var questionID int64
		err = tx.QueryRow(
			`INSERT INTO quiz_questions (batch_id, position, question_text, explanation)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			batchID, i, q.QuestionText, q.Explanation,
		).Scan(&questionID)
		if err != nil {
			return fmt.Errorf("insert quiz question %d: %w", i+1, err)
		}

		for j, opt := range q.Options {
			if _, err := tx.Exec(
				`INSERT INTO quiz_options (question_id, position, option_text, is_correct)
				 VALUES ($1, $2, $3, $4)`,
				questionID, j, opt.Text, opt.IsCorrect,
			); err != nil {
				return fmt.Errorf("insert quiz option %d.%d: %w", i+1, j+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit quiz save: %w", err)
	}
	return nil
}
