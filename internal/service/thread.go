package service

import (
	"time"

	"github.com/netslap-dev/netslap/internal/ranking"
	"github.com/netslap-dev/netslap/shared/config"
	"github.com/netslap-dev/netslap/shared/domain"
)

// ThreadService is the single authority over a thread's ranking state:
// creation seeds it, AcceptReply advances it, Kill freezes it. Everything
// else is read-only.
type ThreadService interface {
	Create(creationData domain.ThreadCreationData) (domain.Thread, error)
	Get(id domain.ThreadId) (domain.Thread, error)
	GetDead(id domain.ThreadId) (domain.Thread, error)
	AcceptReply(reply domain.Reply) (domain.AcceptedReply, error)
	Kill(id domain.ThreadId) (domain.Thread, error)
	ListHot(board *domain.BoardId, limit int) ([]domain.ThreadSummary, error)
	ListNew(board *domain.BoardId, limit int) ([]domain.ThreadSummary, error)
	ListDead(board *domain.BoardId, limit int) ([]domain.ThreadSummary, error)
}

type ThreadStorage interface {
	CreateThread(creationData domain.ThreadCreationData, seedScore domain.RescoreFunc) (domain.Thread, error)
	AcceptReply(threadId domain.ThreadId, excerpt domain.ReplyExcerpt, capacity, maxReplies int, rescore domain.RescoreFunc) (domain.AcceptedReply, error)
	KillThread(threadId domain.ThreadId) (domain.Thread, error)
	GetThread(threadId domain.ThreadId) (domain.Thread, error)
	GetDeadThread(threadId domain.ThreadId) (domain.Thread, error)
	ListThreads(filter domain.ThreadListFilter) ([]domain.ThreadSummary, error)
}

type ThreadValidator interface {
	Thread(title, text string, hasMedia bool) error
}

type Thread struct {
	storage   ThreadStorage
	validator ThreadValidator
	cfg       config.Public
}

func NewThread(storage ThreadStorage, validator ThreadValidator, cfg config.Public) *Thread {
	return &Thread{storage, validator, cfg}
}

// rescore binds the hot formula with downs pinned to zero: in this system
// only reply volume drives the score, there is no downvoting.
func rescore(replyCount int64, createdAt time.Time) float64 {
	return ranking.Score(replyCount, 0, createdAt)
}

func (t *Thread) Create(creationData domain.ThreadCreationData) (domain.Thread, error) {
	if err := t.validator.Thread(creationData.Title, creationData.Text, creationData.Media != nil); err != nil {
		return domain.Thread{}, err
	}
	return t.storage.CreateThread(creationData, rescore)
}

func (t *Thread) Get(id domain.ThreadId) (domain.Thread, error) {
	return t.storage.GetThread(id)
}

func (t *Thread) GetDead(id domain.ThreadId) (domain.Thread, error) {
	return t.storage.GetDeadThread(id)
}

// AcceptReply folds one accepted top-level reply into the thread's ranking
// state: counter, score and excerpt window move together in a single
// storage transaction. Must be called exactly once per accepted reply,
// after the reply row is durable. Storage failures propagate verbatim; the
// caller must not acknowledge the reply if this fails.
func (t *Thread) AcceptReply(reply domain.Reply) (domain.AcceptedReply, error) {
	excerpt := domain.ReplyExcerpt{
		ReplyId:         reply.Id,
		PosterId:        reply.Poster.Id,
		PosterName:      reply.Poster.Name,
		PosterThumbnail: reply.Poster.Thumbnail,
		TextExcerpt:     ranking.Excerpt(reply.Text, t.cfg.ExcerptsSubstring),
	}
	return t.storage.AcceptReply(reply.Thread, excerpt, t.cfg.ExcerptsPerThread, t.cfg.MaxThreadReplies, rescore)
}

// Kill is the one-way alive -> false transition. Killing a dead thread
// reports a conflict. The reason stays with the caller: this service only
// flips visibility.
func (t *Thread) Kill(id domain.ThreadId) (domain.Thread, error) {
	return t.storage.KillThread(id)
}

func (t *Thread) ListHot(board *domain.BoardId, limit int) ([]domain.ThreadSummary, error) {
	return t.storage.ListThreads(domain.ThreadListFilter{Board: board, Alive: true, OrderByHot: true, Limit: t.clampLimit(limit)})
}

func (t *Thread) ListNew(board *domain.BoardId, limit int) ([]domain.ThreadSummary, error) {
	return t.storage.ListThreads(domain.ThreadListFilter{Board: board, Alive: true, OrderByHot: false, Limit: t.clampLimit(limit)})
}

// ListDead is the moderation view of killed threads, newest first.
func (t *Thread) ListDead(board *domain.BoardId, limit int) ([]domain.ThreadSummary, error) {
	return t.storage.ListThreads(domain.ThreadListFilter{Board: board, Alive: false, OrderByHot: false, Limit: t.clampLimit(limit)})
}

func (t *Thread) clampLimit(limit int) int {
	if limit <= 0 || limit > t.cfg.MaxThreadResults {
		return t.cfg.MaxThreadResults
	}
	return limit
}
