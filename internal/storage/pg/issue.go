package pg

import (
	"database/sql"
	"fmt"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

func (s *Storage) CreateIssue(creationData domain.IssueCreationData) (domain.Issue, error) {
	var issue domain.Issue
	err := s.db.QueryRow(`
        INSERT INTO issues (by_user_id, by_user_name, category, problem, board_id, reported_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, reported_at
    `, creationData.ByUser.Id, creationData.ByUser.Name, creationData.Category,
		creationData.Problem, creationData.Board, creationData.ReportedURL,
	).Scan(&issue.Id, &issue.ReportedAt)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("failed to insert issue: %w", err)
	}

	issue.ByUser = creationData.ByUser
	issue.Category = creationData.Category
	issue.Problem = creationData.Problem
	issue.Board = creationData.Board
	issue.ReportedURL = creationData.ReportedURL
	return issue, nil
}

func (s *Storage) GetUnsolvedIssues(limit int) ([]domain.Issue, error) {
	rows, err := s.db.Query(`
        SELECT id, by_user_id, by_user_name, category, problem, board_id, reported_url,
               solved, solved_by_id, solved_by_name, details, reported_at
        FROM issues
        WHERE NOT solved
        ORDER BY reported_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	issues := []domain.Issue{}
	for rows.Next() {
		var i domain.Issue
		var board sql.NullInt64
		var solvedById sql.NullInt64
		var solvedByName sql.NullString
		if err := rows.Scan(&i.Id, &i.ByUser.Id, &i.ByUser.Name, &i.Category, &i.Problem,
			&board, &i.ReportedURL, &i.Solved, &solvedById, &solvedByName, &i.Details, &i.ReportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		if board.Valid {
			i.Board = &board.Int64
		}
		if solvedById.Valid {
			i.SolvedBy = &domain.Creator{Id: solvedById.Int64, Name: solvedByName.String}
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

// SolveIssue records the resolving admin. Solving twice reports a conflict.
func (s *Storage) SolveIssue(issueId int64, solvedBy domain.Creator, details string) error {
	result, err := s.db.Exec(`
        UPDATE issues
        SET solved = TRUE, solved_by_id = $2, solved_by_name = $3, details = $4
        WHERE id = $1 AND NOT solved
    `, issueId, solvedBy.Id, solvedBy.Name, details)
	if err != nil {
		return fmt.Errorf("failed to solve issue: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read solve result: %w", err)
	}
	if affected == 0 {
		return internal_errors.Conflict("Issue not found or already solved")
	}
	return nil
}
