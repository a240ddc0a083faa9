package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

// removedText replaces the body of killed replies. Kept verbatim from the
// original system; clients match on it.
const removedText = "THIS POST HAS BEEN CATEGORIZED AS ILLEGAL"

// CreateReply stores a top-level reply. The thread's ranking state is NOT
// touched here: the service calls AcceptReply afterwards, once the reply row
// is durable, so an excerpt can never reference a reply that failed to
// persist.
func (s *Storage) CreateReply(creationData domain.ReplyCreationData) (domain.Reply, error) {
	args := []interface{}{
		creationData.Thread,
		creationData.Poster.Id, creationData.Poster.Name, creationData.Poster.Thumbnail, creationData.Poster.Anon,
		creationData.Text,
	}
	args = append(args, mediaArgs(creationData.Media)...)

	var reply domain.Reply
	err := s.db.QueryRow(`
        INSERT INTO replies (thread_id, poster_id, poster_name, poster_thumbnail, poster_anon, text,
                             media_name, media_location, media_mimetype, media_size, media_thumbnail)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at
    `, args...).Scan(&reply.Id, &reply.CreatedAt)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to insert reply: %w", err)
	}

	reply.Thread = creationData.Thread
	reply.Poster = creationData.Poster
	reply.Text = creationData.Text
	reply.Media = creationData.Media
	return reply, nil
}

// CreateSubReply appends a sub-reply and bumps the parent reply's own
// counter in one transaction. maxSubReplies caps the counter; hitting the
// cap reports a conflict, not a silent drop.
func (s *Storage) CreateSubReply(creationData domain.SubReplyCreationData, maxSubReplies int) (domain.SubReply, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.SubReply{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int64
	err = tx.QueryRow(`
        UPDATE replies
        SET reply_count = reply_count + 1
        WHERE id = $1 AND NOT removed AND reply_count < $2
        RETURNING reply_count
    `, creationData.Reply, maxSubReplies).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SubReply{}, s.replyRejection(creationData.Reply, maxSubReplies)
		}
		return domain.SubReply{}, fmt.Errorf("failed to increment sub-reply count: %w", err)
	}

	args := []interface{}{
		creationData.Reply,
		creationData.Poster.Id, creationData.Poster.Name, creationData.Poster.Thumbnail, creationData.Poster.Anon,
		creationData.To.Id, creationData.To.Name, creationData.To.Thumbnail, creationData.To.Anon,
		creationData.Text,
	}
	args = append(args, mediaArgs(creationData.Media)...)

	var sub domain.SubReply
	err = tx.QueryRow(`
        INSERT INTO sub_replies (reply_id, poster_id, poster_name, poster_thumbnail, poster_anon,
                                 to_poster_id, to_poster_name, to_poster_thumbnail, to_poster_anon, text,
                                 media_name, media_location, media_mimetype, media_size, media_thumbnail)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING id, created_at
    `, args...).Scan(&sub.Id, &sub.CreatedAt)
	if err != nil {
		return domain.SubReply{}, fmt.Errorf("failed to insert sub-reply: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.SubReply{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	sub.Poster = creationData.Poster
	sub.To = creationData.To
	sub.Text = creationData.Text
	sub.Media = creationData.Media
	return sub, nil
}

func (s *Storage) replyRejection(replyId domain.ReplyId, maxSubReplies int) error {
	var removed bool
	var count int64
	err := s.db.QueryRow("SELECT removed, reply_count FROM replies WHERE id = $1", replyId).Scan(&removed, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound("Reply not found")
	}
	if err != nil {
		return fmt.Errorf("failed to check reply state: %w", err)
	}
	if removed {
		return internal_errors.Conflict("Reply has been removed")
	}
	if count >= int64(maxSubReplies) {
		return internal_errors.Conflict("Reply is full")
	}
	return internal_errors.NotFound("Reply not found")
}

func (s *Storage) GetReply(replyId domain.ReplyId, withSubReplies bool) (domain.Reply, error) {
	var r domain.Reply
	var media mediaScan
	dest := []interface{}{
		&r.Id, &r.Thread,
		&r.Poster.Id, &r.Poster.Name, &r.Poster.Thumbnail, &r.Poster.Anon,
		&r.Text,
	}
	dest = append(dest, media.dest()...)
	dest = append(dest, &r.Removed, &r.ReplyCount, &r.CreatedAt)

	err := s.db.QueryRow(`
        SELECT id, thread_id, poster_id, poster_name, poster_thumbnail, poster_anon, text,
               media_name, media_location, media_mimetype, media_size, media_thumbnail,
               removed, reply_count, created_at
        FROM replies
        WHERE id = $1
    `, replyId).Scan(dest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Reply{}, internal_errors.NotFound("Reply not found")
		}
		return domain.Reply{}, fmt.Errorf("failed to fetch reply: %w", err)
	}
	r.Media = media.media()

	if withSubReplies {
		r.SubReplies, err = s.subReplies(replyId, 0)
		if err != nil {
			return domain.Reply{}, err
		}
	}
	return r, nil
}

// GetReplies fetches a thread's top-level replies in acceptance order.
// limitSubReplies: negative loads all sub-replies, zero skips them, positive
// caps each reply's loaded sub-replies (list views show the first few).
func (s *Storage) GetReplies(threadId domain.ThreadId, limitSubReplies int) ([]domain.Reply, error) {
	rows, err := s.db.Query(`
        SELECT id, thread_id, poster_id, poster_name, poster_thumbnail, poster_anon, text,
               media_name, media_location, media_mimetype, media_size, media_thumbnail,
               removed, reply_count, created_at
        FROM replies
        WHERE thread_id = $1
        ORDER BY created_at
    `, threadId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch replies: %w", err)
	}
	defer rows.Close()

	replies := []domain.Reply{}
	for rows.Next() {
		var r domain.Reply
		var media mediaScan
		dest := []interface{}{
			&r.Id, &r.Thread,
			&r.Poster.Id, &r.Poster.Name, &r.Poster.Thumbnail, &r.Poster.Anon,
			&r.Text,
		}
		dest = append(dest, media.dest()...)
		dest = append(dest, &r.Removed, &r.ReplyCount, &r.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		r.Media = media.media()
		replies = append(replies, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reply rows iteration error: %w", err)
	}

	if limitSubReplies != 0 {
		for i := range replies {
			subs, err := s.subReplies(replies[i].Id, limitSubReplies)
			if err != nil {
				return nil, err
			}
			replies[i].SubReplies = subs
		}
	}
	return replies, nil
}

func (s *Storage) subReplies(replyId domain.ReplyId, limit int) ([]domain.SubReply, error) {
	query := `
        SELECT id, poster_id, poster_name, poster_thumbnail, poster_anon,
               to_poster_id, to_poster_name, to_poster_thumbnail, to_poster_anon, text,
               media_name, media_location, media_mimetype, media_size, media_thumbnail,
               removed, created_at
        FROM sub_replies
        WHERE reply_id = $1
        ORDER BY created_at`
	args := []interface{}{replyId}
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $2"
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sub-replies: %w", err)
	}
	defer rows.Close()

	subs := []domain.SubReply{}
	for rows.Next() {
		var sr domain.SubReply
		var media mediaScan
		dest := []interface{}{
			&sr.Id,
			&sr.Poster.Id, &sr.Poster.Name, &sr.Poster.Thumbnail, &sr.Poster.Anon,
			&sr.To.Id, &sr.To.Name, &sr.To.Thumbnail, &sr.To.Anon,
			&sr.Text,
		}
		dest = append(dest, media.dest()...)
		dest = append(dest, &sr.Removed, &sr.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan sub-reply: %w", err)
		}
		sr.Media = media.media()
		subs = append(subs, sr)
	}
	return subs, rows.Err()
}

// KillReply redacts a reply: body replaced, media dropped, removed flag set.
// Returns the poster snapshot so the caller can notify them. Already-removed
// replies report a conflict.
func (s *Storage) KillReply(replyId domain.ReplyId) (domain.Poster, error) {
	var poster domain.Poster
	err := s.db.QueryRow(`
        UPDATE replies
        SET text = $2, removed = TRUE,
            media_name = NULL, media_location = NULL, media_mimetype = NULL, media_size = NULL, media_thumbnail = NULL
        WHERE id = $1 AND NOT removed
        RETURNING poster_id, poster_name, poster_thumbnail, poster_anon
    `, replyId, removedText).Scan(&poster.Id, &poster.Name, &poster.Thumbnail, &poster.Anon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Poster{}, internal_errors.NotFound("Reply not found or already removed")
		}
		return domain.Poster{}, fmt.Errorf("failed to kill reply: %w", err)
	}
	return poster, nil
}

func (s *Storage) KillSubReply(subReplyId domain.ReplyId) (domain.Poster, error) {
	var poster domain.Poster
	err := s.db.QueryRow(`
        UPDATE sub_replies
        SET text = $2, removed = TRUE,
            media_name = NULL, media_location = NULL, media_mimetype = NULL, media_size = NULL, media_thumbnail = NULL
        WHERE id = $1 AND NOT removed
        RETURNING poster_id, poster_name, poster_thumbnail, poster_anon
    `, subReplyId, removedText).Scan(&poster.Id, &poster.Name, &poster.Thumbnail, &poster.Anon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Poster{}, internal_errors.NotFound("Sub-reply not found or already removed")
		}
		return domain.Poster{}, fmt.Errorf("failed to kill sub-reply: %w", err)
	}
	return poster, nil
}
