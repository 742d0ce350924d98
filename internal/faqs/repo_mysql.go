package faqs

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// MySQLRepo implements Repo against the wpl3_FAQ table.
type MySQLRepo struct {
	DB *sql.DB
}

// Insert writes a new request row. The edited result mirrors the generated
// result at creation time.
func (r *MySQLRepo) Insert(ctx context.Context, req Request) (int64, error) {
	const query = `
INSERT INTO wpl3_FAQ
    (user_id, file_path, url, written_data, questions_number, custom_questions,
     FAQ_result, FAQ_result_edited, date_time, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	questionCount := req.QuestionCount
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	result := req.Result
	if strings.TrimSpace(result) == "" {
		result = ResultPlaceholder
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		req.UserID,
		nullString(req.FilePath),
		nullString(req.URL),
		nullString(req.WrittenData),
		questionCount,
		nullString(req.CustomQuestions),
		result,
		result,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID fetches a request row by identifier.
func (r *MySQLRepo) GetByID(ctx context.Context, id int64) (Request, error) {
	const query = `
SELECT id, user_id, file_path, url, written_data, questions_number, custom_questions,
       FAQ_result, FAQ_result_edited, date_time, updated_at
FROM wpl3_FAQ
WHERE id = ?`

	var req Request
	var filePath, url, writtenData, customQuestions sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&filePath,
		&url,
		&writtenData,
		&req.QuestionCount,
		&customQuestions,
		&req.Result,
		&req.EditedResult,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	if filePath.Valid {
		req.FilePath = filePath.String
	}
	if url.Valid {
		req.URL = url.String
	}
	if writtenData.Valid {
		req.WrittenData = writtenData.String
	}
	if customQuestions.Valid {
		req.CustomQuestions = customQuestions.String
	}
	return req, nil
}

// UpdateResult overwrites the result column and refreshes updated_at.
func (r *MySQLRepo) UpdateResult(ctx context.Context, id int64, result string) error {
	const query = `
UPDATE wpl3_FAQ
SET FAQ_result = ?, updated_at = NOW()
WHERE id = ?`

	if strings.TrimSpace(result) == "" {
		result = ResultPlaceholder
	}
	_, err := r.DB.ExecContext(ctx, query, result, id)
	return err
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*MySQLRepo)(nil)
