package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

// CreateRequest files a social-access request and bumps the recipient's
// pending counter. A duplicate (same pair, either direction is a separate
// row) reports a conflict.
func (s *Storage) CreateRequest(to, by domain.RequestParty) (domain.Request, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Request{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var r domain.Request
	err = tx.QueryRow(`
        INSERT INTO requests (to_id, to_username, to_thumbnail, by_id, by_username, by_thumbnail)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, date_requested
    `, to.Id, to.Username, to.Thumbnail, by.Id, by.Username, by.Thumbnail).Scan(&r.Id, &r.Requested)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.Request{}, internal_errors.Conflict("Request already exists")
		}
		return domain.Request{}, fmt.Errorf("failed to insert request: %w", err)
	}

	if _, err := tx.Exec("UPDATE users SET new_requests = new_requests + 1 WHERE id = $1", to.Id); err != nil {
		return domain.Request{}, fmt.Errorf("failed to bump request counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Request{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.To = to
	r.RequestedBy = by
	return r, nil
}

// RespondRequest records the answer. Responding twice matches zero rows and
// reports a conflict; the first answer stands.
func (s *Storage) RespondRequest(requestId int64, to domain.UserId, grant bool) (domain.Request, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Request{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
        UPDATE requests
        SET responded = TRUE, has_access = $3
        WHERE id = $1 AND to_id = $2 AND NOT responded
        RETURNING id, to_id, to_username, to_thumbnail, by_id, by_username, by_thumbnail,
                  responded, has_access, date_requested
    `, requestId, to, grant)
	r, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Request{}, internal_errors.Conflict("Request not found or already responded")
		}
		return domain.Request{}, fmt.Errorf("failed to respond to request: %w", err)
	}

	if _, err := tx.Exec(`
        UPDATE users SET new_requests = GREATEST(new_requests - 1, 0) WHERE id = $1
    `, to); err != nil {
		return domain.Request{}, fmt.Errorf("failed to decrement request counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Request{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return r, nil
}

func (s *Storage) GetRequestsTo(to domain.UserId) ([]domain.Request, error) {
	return s.listRequests("to_id", to)
}

func (s *Storage) GetRequestsBy(by domain.UserId) ([]domain.Request, error) {
	return s.listRequests("by_id", by)
}

func (s *Storage) listRequests(column string, id domain.UserId) ([]domain.Request, error) {
	rows, err := s.db.Query(fmt.Sprintf(`
        SELECT id, to_id, to_username, to_thumbnail, by_id, by_username, by_thumbnail,
               responded, has_access, date_requested
        FROM requests
        WHERE %s = $1
        ORDER BY date_requested DESC
    `, column), id)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (domain.Request, error) {
	var r domain.Request
	err := row.Scan(
		&r.Id,
		&r.To.Id, &r.To.Username, &r.To.Thumbnail,
		&r.RequestedBy.Id, &r.RequestedBy.Username, &r.RequestedBy.Thumbnail,
		&r.Responded, &r.HasAccess, &r.Requested,
	)
	return r, err
}
