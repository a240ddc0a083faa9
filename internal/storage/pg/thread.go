package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

// CreateThread persists a new thread in a single INSERT. created_at is
// chosen app-side so the seed score can be computed from it and land in the
// same statement: a thread row can never exist without its score.
func (s *Storage) CreateThread(creationData domain.ThreadCreationData, seedScore domain.RescoreFunc) (domain.Thread, error) {
	// Truncate to postgres timestamptz precision so the stored instant is
	// exactly the one the score was computed from.
	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	score := seedScore(0, createdAt)

	args := []interface{}{
		creationData.Board,
		creationData.Poster.Id, creationData.Poster.Name, creationData.Poster.Thumbnail, creationData.Poster.Anon,
		creationData.Title, creationData.Text,
	}
	args = append(args, mediaArgs(creationData.Media)...)
	args = append(args, createdAt, score)

	var id domain.ThreadId
	err := s.db.QueryRow(`
        INSERT INTO threads (board_id, poster_id, poster_name, poster_thumbnail, poster_anon,
                             title, text,
                             media_name, media_location, media_mimetype, media_size, media_thumbnail,
                             created_at, updated_at, decay_score)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13, $14)
        RETURNING id
    `, args...).Scan(&id)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to insert thread: %w", err)
	}

	return domain.Thread{
		Id:         id,
		Board:      creationData.Board,
		Poster:     creationData.Poster,
		Title:      creationData.Title,
		Text:       creationData.Text,
		Media:      creationData.Media,
		Excerpts:   []domain.ReplyExcerpt{},
		Alive:      true,
		DecayScore: score,
		ReplyCount: 0,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}

// AcceptReply applies the full ranking update for one accepted top-level
// reply as a single transaction: counter increment, score recompute from the
// post-increment count, and a capacity-guarded excerpt append. Either all
// three land or none do.
//
// The initial UPDATE takes the thread row lock, so concurrent acceptances on
// the same thread serialize here and neither the reply cap nor the excerpt
// count guard can race.
func (s *Storage) AcceptReply(threadId domain.ThreadId, excerpt domain.ReplyExcerpt, capacity, maxReplies int, rescore domain.RescoreFunc) (domain.AcceptedReply, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.AcceptedReply{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // ignored once committed

	var replyCount int64
	var createdAt time.Time
	err = tx.QueryRow(`
        UPDATE threads
        SET reply_count = reply_count + 1, updated_at = NOW()
        WHERE id = $1 AND alive AND reply_count < $2
        RETURNING reply_count, created_at
    `, threadId, maxReplies).Scan(&replyCount, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AcceptedReply{}, s.acceptRejection(threadId, maxReplies)
		}
		return domain.AcceptedReply{}, fmt.Errorf("failed to increment reply count: %w", err)
	}

	score := rescore(replyCount, createdAt)
	if _, err = tx.Exec("UPDATE threads SET decay_score = $1 WHERE id = $2", score, threadId); err != nil {
		return domain.AcceptedReply{}, fmt.Errorf("failed to update decay score: %w", err)
	}

	// First-N window: append only while under capacity. The aggregate
	// subquery runs under the row lock taken above.
	result, err := tx.Exec(`
        INSERT INTO thread_excerpts (thread_id, ord, reply_id, poster_id, poster_name, poster_thumbnail, text_excerpt)
        SELECT $1, COALESCE(MAX(ord) + 1, 0), $2, $3, $4, $5, $6
        FROM thread_excerpts
        WHERE thread_id = $1
        HAVING COUNT(*) < $7
    `, threadId, excerpt.ReplyId, excerpt.PosterId, excerpt.PosterName, excerpt.PosterThumbnail, excerpt.TextExcerpt, capacity)
	if err != nil {
		return domain.AcceptedReply{}, fmt.Errorf("failed to append excerpt: %w", err)
	}
	appended, err := result.RowsAffected()
	if err != nil {
		return domain.AcceptedReply{}, fmt.Errorf("failed to read excerpt append result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.AcceptedReply{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return domain.AcceptedReply{ReplyCount: replyCount, DecayScore: score, ExcerptTaken: appended > 0}, nil
}

// threadRejection distinguishes "no such thread" from "thread is dead": the
// former is a not-found, the latter a terminal business-rule rejection the
// caller must not retry.
func (s *Storage) threadRejection(threadId domain.ThreadId) error {
	var alive bool
	err := s.db.QueryRow("SELECT alive FROM threads WHERE id = $1", threadId).Scan(&alive)
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound("Thread not found")
	}
	if err != nil {
		return fmt.Errorf("failed to check thread state: %w", err)
	}
	if !alive {
		return internal_errors.Conflict("Thread is no longer alive")
	}
	return internal_errors.NotFound("Thread not found")
}

// acceptRejection explains why the acceptance UPDATE matched no row: missing
// thread, dead thread, or a thread already at the reply cap. All but the
// first are terminal conflicts.
func (s *Storage) acceptRejection(threadId domain.ThreadId, maxReplies int) error {
	var alive bool
	var count int64
	err := s.db.QueryRow("SELECT alive, reply_count FROM threads WHERE id = $1", threadId).Scan(&alive, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound("Thread not found")
	}
	if err != nil {
		return fmt.Errorf("failed to check thread state: %w", err)
	}
	if !alive {
		return internal_errors.Conflict("Thread is no longer alive")
	}
	if count >= int64(maxReplies) {
		return internal_errors.Conflict("Thread is full")
	}
	return internal_errors.NotFound("Thread not found")
}

// KillThread is the one-way alive -> false transition. A second kill matches
// zero rows and reports the same conflict/not-found split as AcceptReply.
func (s *Storage) KillThread(threadId domain.ThreadId) (domain.Thread, error) {
	result, err := s.db.Exec("UPDATE threads SET alive = FALSE, updated_at = NOW() WHERE id = $1 AND alive", threadId)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to kill thread: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to read kill result: %w", err)
	}
	if affected == 0 {
		return domain.Thread{}, s.threadRejection(threadId)
	}
	return s.getThread(threadId, false)
}

func (s *Storage) GetThread(threadId domain.ThreadId) (domain.Thread, error) {
	return s.getThread(threadId, true)
}

// GetDeadThread fetches a killed thread; moderation-only path.
func (s *Storage) GetDeadThread(threadId domain.ThreadId) (domain.Thread, error) {
	thread, err := s.getThread(threadId, false)
	if err != nil {
		return domain.Thread{}, err
	}
	if thread.Alive {
		return domain.Thread{}, internal_errors.NotFound("Thread not found")
	}
	return thread, nil
}

func (s *Storage) getThread(threadId domain.ThreadId, mustBeAlive bool) (domain.Thread, error) {
	var t domain.Thread
	var media mediaScan
	dest := []interface{}{
		&t.Id, &t.Board,
		&t.Poster.Id, &t.Poster.Name, &t.Poster.Thumbnail, &t.Poster.Anon,
		&t.Title, &t.Text,
	}
	dest = append(dest, media.dest()...)
	dest = append(dest, &t.Alive, &t.ReplyCount, &t.DecayScore, &t.CreatedAt, &t.UpdatedAt)

	query := `
        SELECT id, board_id, poster_id, poster_name, poster_thumbnail, poster_anon,
               title, text,
               media_name, media_location, media_mimetype, media_size, media_thumbnail,
               alive, reply_count, decay_score, created_at, updated_at
        FROM threads
        WHERE id = $1`
	if mustBeAlive {
		query += " AND alive"
	}

	err := s.db.QueryRow(query, threadId).Scan(dest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, internal_errors.NotFound("Thread not found")
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread: %w", err)
	}
	t.Media = media.media()

	t.Excerpts, err = s.threadExcerpts(threadId)
	if err != nil {
		return domain.Thread{}, err
	}
	return t, nil
}

func (s *Storage) threadExcerpts(threadId domain.ThreadId) ([]domain.ReplyExcerpt, error) {
	rows, err := s.db.Query(`
        SELECT reply_id, poster_id, poster_name, poster_thumbnail, text_excerpt
        FROM thread_excerpts
        WHERE thread_id = $1
        ORDER BY ord
    `, threadId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch excerpts: %w", err)
	}
	defer rows.Close()

	excerpts := []domain.ReplyExcerpt{}
	for rows.Next() {
		var e domain.ReplyExcerpt
		if err := rows.Scan(&e.ReplyId, &e.PosterId, &e.PosterName, &e.PosterThumbnail, &e.TextExcerpt); err != nil {
			return nil, fmt.Errorf("failed to scan excerpt: %w", err)
		}
		excerpts = append(excerpts, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("excerpt rows iteration error: %w", err)
	}
	return excerpts, nil
}

// ListThreads returns thread summaries fully ordered before the LIMIT is
// applied (the sort happens in SQL over the whole candidate set).
func (s *Storage) ListThreads(filter domain.ThreadListFilter) ([]domain.ThreadSummary, error) {
	query := `
        SELECT id, board_id, poster_id, poster_name, poster_thumbnail, poster_anon,
               title, text,
               media_name, media_location, media_mimetype, media_size, media_thumbnail,
               reply_count, decay_score, created_at
        FROM threads
        WHERE alive = $1`
	args := []interface{}{filter.Alive}
	if filter.Board != nil {
		args = append(args, *filter.Board)
		query += fmt.Sprintf(" AND board_id = $%d", len(args))
	}
	if filter.OrderByHot {
		query += " ORDER BY decay_score DESC"
	} else {
		query += " ORDER BY created_at DESC"
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	summaries := []domain.ThreadSummary{}
	var ids []domain.ThreadId
	for rows.Next() {
		var t domain.ThreadSummary
		var media mediaScan
		dest := []interface{}{
			&t.Id, &t.Board,
			&t.Poster.Id, &t.Poster.Name, &t.Poster.Thumbnail, &t.Poster.Anon,
			&t.Title, &t.Text,
		}
		dest = append(dest, media.dest()...)
		dest = append(dest, &t.ReplyCount, &t.DecayScore, &t.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan thread summary: %w", err)
		}
		t.Media = media.media()
		t.Excerpts = []domain.ReplyExcerpt{}
		summaries = append(summaries, t)
		ids = append(ids, t.Id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("thread rows iteration error: %w", err)
	}

	if err := s.attachExcerpts(summaries, ids); err != nil {
		return nil, err
	}
	return summaries, nil
}

// attachExcerpts fills the preview windows for a page of summaries with one
// query instead of one per thread.
func (s *Storage) attachExcerpts(summaries []domain.ThreadSummary, ids []domain.ThreadId) error {
	if len(ids) == 0 {
		return nil
	}
	idx := make(map[domain.ThreadId]int, len(ids))
	for i, summary := range summaries {
		idx[summary.Id] = i
	}

	rows, err := s.db.Query(`
        SELECT thread_id, reply_id, poster_id, poster_name, poster_thumbnail, text_excerpt
        FROM thread_excerpts
        WHERE thread_id = ANY($1)
        ORDER BY thread_id, ord
    `, int64Array(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch excerpts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var threadId domain.ThreadId
		var e domain.ReplyExcerpt
		if err := rows.Scan(&threadId, &e.ReplyId, &e.PosterId, &e.PosterName, &e.PosterThumbnail, &e.TextExcerpt); err != nil {
			return fmt.Errorf("failed to scan excerpt: %w", err)
		}
		if i, ok := idx[threadId]; ok {
			summaries[i].Excerpts = append(summaries[i].Excerpts, e)
		}
	}
	return rows.Err()
}
