package service

import (
	"fmt"

	"github.com/netslap-dev/netslap/shared/config"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

type ReplyService interface {
	Create(creationData domain.ReplyCreationData) (domain.Reply, error)
	CreateSub(creationData domain.SubReplyCreationData) (domain.SubReply, error)
	Get(id domain.ReplyId) (domain.Reply, error)
	List(threadId domain.ThreadId, limitSubReplies int) ([]domain.Reply, error)
	Kill(id domain.ReplyId) error
	KillSub(id domain.ReplyId) error
}

type ReplyStorage interface {
	CreateReply(creationData domain.ReplyCreationData) (domain.Reply, error)
	CreateSubReply(creationData domain.SubReplyCreationData, maxSubReplies int) (domain.SubReply, error)
	GetReply(replyId domain.ReplyId, withSubReplies bool) (domain.Reply, error)
	GetReplies(threadId domain.ThreadId, limitSubReplies int) ([]domain.Reply, error)
	KillReply(replyId domain.ReplyId) (domain.Poster, error)
	KillSubReply(subReplyId domain.ReplyId) (domain.Poster, error)
}

// ThreadAcceptor is the slice of the thread service the reply flow needs:
// the alive check before storing and the ranking update after.
type ThreadAcceptor interface {
	Get(id domain.ThreadId) (domain.Thread, error)
	AcceptReply(reply domain.Reply) (domain.AcceptedReply, error)
}

// Notifier delivers best-effort notifications. Implementations must not
// block the posting path on delivery problems.
type Notifier interface {
	Notify(owner domain.UserId, title, description, meta string)
}

type ReplyValidator interface {
	Reply(text string, hasMedia bool) error
}

type Reply struct {
	storage   ReplyStorage
	threads   ThreadAcceptor
	notifier  Notifier
	validator ReplyValidator
	cfg       config.Public
}

func NewReply(storage ReplyStorage, threads ThreadAcceptor, notifier Notifier, validator ReplyValidator, cfg config.Public) *Reply {
	return &Reply{storage, threads, notifier, validator, cfg}
}

// Create stores the reply, then folds it into the thread's ranking state.
// The order is deliberate: the reply row is durable before AcceptReply runs,
// so a stored excerpt can never point at a reply that was lost. If the
// ranking update fails the error propagates and the caller must not
// acknowledge the reply.
func (r *Reply) Create(creationData domain.ReplyCreationData) (domain.Reply, error) {
	if err := r.validator.Reply(creationData.Text, creationData.Media != nil); err != nil {
		return domain.Reply{}, err
	}

	thread, err := r.threads.Get(creationData.Thread)
	if err != nil {
		return domain.Reply{}, err
	}
	// Fast-path rejection only. The cap is enforced atomically by the
	// acceptance UPDATE, so concurrent posts past this check still cannot
	// overshoot it.
	if thread.ReplyCount >= int64(r.cfg.MaxThreadReplies) {
		return domain.Reply{}, internal_errors.Conflict("Thread is full")
	}

	reply, err := r.storage.CreateReply(creationData)
	if err != nil {
		return domain.Reply{}, err
	}

	if _, err := r.threads.AcceptReply(reply); err != nil {
		return domain.Reply{}, err
	}

	if reply.Poster.Id != thread.Poster.Id {
		r.notifier.Notify(thread.Poster.Id,
			"New reply",
			fmt.Sprintf("%s replied to your thread '%s'", reply.Poster.Name, thread.Title),
			fmt.Sprintf("/threads/%d#reply-%d", thread.Id, reply.Id))
	}
	return reply, nil
}

func (r *Reply) CreateSub(creationData domain.SubReplyCreationData) (domain.SubReply, error) {
	if err := r.validator.Reply(creationData.Text, creationData.Media != nil); err != nil {
		return domain.SubReply{}, err
	}

	sub, err := r.storage.CreateSubReply(creationData, r.cfg.MaxReplySubreplies)
	if err != nil {
		return domain.SubReply{}, err
	}

	if sub.Poster.Id != sub.To.Id {
		r.notifier.Notify(sub.To.Id,
			"New reply",
			fmt.Sprintf("%s answered your reply", sub.Poster.Name),
			fmt.Sprintf("/replies/%d#sub-%d", creationData.Reply, sub.Id))
	}
	return sub, nil
}

func (r *Reply) Get(id domain.ReplyId) (domain.Reply, error) {
	return r.storage.GetReply(id, true)
}

func (r *Reply) List(threadId domain.ThreadId, limitSubReplies int) ([]domain.Reply, error) {
	return r.storage.GetReplies(threadId, limitSubReplies)
}

// Kill redacts a reply and tells the poster. The thread's counter and score
// are left alone: removal hides content, it does not rewrite ranking
// history.
func (r *Reply) Kill(id domain.ReplyId) error {
	poster, err := r.storage.KillReply(id)
	if err != nil {
		return err
	}
	r.notifier.Notify(poster.Id,
		"Post removed",
		"One of your replies was removed by moderation",
		fmt.Sprintf("/replies/%d", id))
	return nil
}

func (r *Reply) KillSub(id domain.ReplyId) error {
	poster, err := r.storage.KillSubReply(id)
	if err != nil {
		return err
	}
	r.notifier.Notify(poster.Id,
		"Post removed",
		"One of your replies was removed by moderation",
		fmt.Sprintf("/sub-replies/%d", id))
	return nil
}
