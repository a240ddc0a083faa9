package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

const uniqueViolation = "23505"

func (s *Storage) CreateBoard(creationData domain.BoardCreationData) (domain.Board, error) {
	var board domain.Board
	err := s.db.QueryRow(`
        INSERT INTO boards (slug, short_name, name, description, created_by_id, created_by_name)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `, creationData.Slug, creationData.ShortName, creationData.Name, creationData.Description,
		creationData.CreatedBy.Id, creationData.CreatedBy.Name,
	).Scan(&board.Id, &board.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.Board{}, internal_errors.Conflict("Board slug already exists")
		}
		return domain.Board{}, fmt.Errorf("failed to insert board: %w", err)
	}

	board.Slug = creationData.Slug
	board.ShortName = creationData.ShortName
	board.Name = creationData.Name
	board.Description = creationData.Description
	board.CreatedBy = creationData.CreatedBy
	board.Active = true
	return board, nil
}

func (s *Storage) GetBoard(slug domain.BoardSlug) (domain.Board, error) {
	var b domain.Board
	err := s.db.QueryRow(`
        SELECT id, slug, short_name, name, description, active, created_by_id, created_by_name, created_at
        FROM boards
        WHERE slug = $1 AND active
    `, slug).Scan(&b.Id, &b.Slug, &b.ShortName, &b.Name, &b.Description, &b.Active,
		&b.CreatedBy.Id, &b.CreatedBy.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}
		return domain.Board{}, fmt.Errorf("failed to fetch board: %w", err)
	}
	return b, nil
}

func (s *Storage) GetBoards() ([]domain.Board, error) {
	rows, err := s.db.Query(`
        SELECT id, slug, short_name, name, description, active, created_by_id, created_by_name, created_at
        FROM boards
        WHERE active
        ORDER BY created_at
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	boards := []domain.Board{}
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.Id, &b.Slug, &b.ShortName, &b.Name, &b.Description, &b.Active,
			&b.CreatedBy.Id, &b.CreatedBy.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// DeactivateBoard soft-deletes a board, same one-way idiom as thread kill.
func (s *Storage) DeactivateBoard(slug domain.BoardSlug) error {
	result, err := s.db.Exec("UPDATE boards SET active = FALSE WHERE slug = $1 AND active", slug)
	if err != nil {
		return fmt.Errorf("failed to deactivate board: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deactivate result: %w", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("Board not found")
	}
	return nil
}
