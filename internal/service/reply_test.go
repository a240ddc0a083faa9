package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netslap-dev/netslap/shared/config"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

type mockReplyStorage struct {
	createReply    func(creationData domain.ReplyCreationData) (domain.Reply, error)
	createSubReply func(creationData domain.SubReplyCreationData, maxSubReplies int) (domain.SubReply, error)
	getReply       func(replyId domain.ReplyId, withSubReplies bool) (domain.Reply, error)
	getReplies     func(threadId domain.ThreadId, limitSubReplies int) ([]domain.Reply, error)
	killReply      func(replyId domain.ReplyId) (domain.Poster, error)
	killSubReply   func(subReplyId domain.ReplyId) (domain.Poster, error)
}

func (m *mockReplyStorage) CreateReply(creationData domain.ReplyCreationData) (domain.Reply, error) {
	return m.createReply(creationData)
}

func (m *mockReplyStorage) CreateSubReply(creationData domain.SubReplyCreationData, maxSubReplies int) (domain.SubReply, error) {
	return m.createSubReply(creationData, maxSubReplies)
}

func (m *mockReplyStorage) GetReply(replyId domain.ReplyId, withSubReplies bool) (domain.Reply, error) {
	return m.getReply(replyId, withSubReplies)
}

func (m *mockReplyStorage) GetReplies(threadId domain.ThreadId, limitSubReplies int) ([]domain.Reply, error) {
	return m.getReplies(threadId, limitSubReplies)
}

func (m *mockReplyStorage) KillReply(replyId domain.ReplyId) (domain.Poster, error) {
	return m.killReply(replyId)
}

func (m *mockReplyStorage) KillSubReply(subReplyId domain.ReplyId) (domain.Poster, error) {
	return m.killSubReply(subReplyId)
}

type mockThreadAcceptor struct {
	get         func(id domain.ThreadId) (domain.Thread, error)
	acceptReply func(reply domain.Reply) (domain.AcceptedReply, error)
}

func (m *mockThreadAcceptor) Get(id domain.ThreadId) (domain.Thread, error) {
	return m.get(id)
}

func (m *mockThreadAcceptor) AcceptReply(reply domain.Reply) (domain.AcceptedReply, error) {
	return m.acceptReply(reply)
}

type recordedNotification struct {
	owner domain.UserId
	title string
}

type mockNotifier struct {
	sent []recordedNotification
}

func (m *mockNotifier) Notify(owner domain.UserId, title, description, meta string) {
	m.sent = append(m.sent, recordedNotification{owner, title})
}

type mockReplyValidator struct {
	reply func(text string, hasMedia bool) error
}

func (m *mockReplyValidator) Reply(text string, hasMedia bool) error {
	return m.reply(text, hasMedia)
}

func okReplyValidator() *mockReplyValidator {
	return &mockReplyValidator{reply: func(string, bool) error { return nil }}
}

func aliveThread(op domain.UserId) *mockThreadAcceptor {
	return &mockThreadAcceptor{
		get: func(id domain.ThreadId) (domain.Thread, error) {
			return domain.Thread{Id: id, Title: "topic", Poster: domain.Poster{Id: op, Name: "op"}, Alive: true}, nil
		},
		acceptReply: func(reply domain.Reply) (domain.AcceptedReply, error) {
			return domain.AcceptedReply{ReplyCount: 1, ExcerptTaken: true}, nil
		},
	}
}

func TestReplyCreate(t *testing.T) {
	cfg := config.Default().Public

	t.Run("stores the reply then folds it into the thread", func(t *testing.T) {
		var order []string
		storage := &mockReplyStorage{
			createReply: func(data domain.ReplyCreationData) (domain.Reply, error) {
				order = append(order, "store")
				return domain.Reply{Id: 7, Thread: data.Thread, Poster: data.Poster, Text: data.Text}, nil
			},
		}
		threads := aliveThread(99)
		threads.acceptReply = func(reply domain.Reply) (domain.AcceptedReply, error) {
			order = append(order, "accept")
			assert.Equal(t, domain.ReplyId(7), reply.Id)
			return domain.AcceptedReply{ReplyCount: 1}, nil
		}
		notifier := &mockNotifier{}
		svc := NewReply(storage, threads, notifier, okReplyValidator(), cfg)

		reply, err := svc.Create(domain.ReplyCreationData{Thread: 42, Poster: domain.Poster{Id: 3, Name: "p"}, Text: "hi"})
		require.NoError(t, err)
		assert.Equal(t, domain.ReplyId(7), reply.Id)
		assert.Equal(t, []string{"store", "accept"}, order)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, domain.UserId(99), notifier.sent[0].owner)
		assert.Equal(t, "New reply", notifier.sent[0].title)
	})

	t.Run("thread author replying to themselves is not notified", func(t *testing.T) {
		storage := &mockReplyStorage{
			createReply: func(data domain.ReplyCreationData) (domain.Reply, error) {
				return domain.Reply{Id: 1, Thread: data.Thread, Poster: data.Poster}, nil
			},
		}
		notifier := &mockNotifier{}
		svc := NewReply(storage, aliveThread(3), notifier, okReplyValidator(), cfg)

		_, err := svc.Create(domain.ReplyCreationData{Thread: 42, Poster: domain.Poster{Id: 3}, Text: "hi"})
		require.NoError(t, err)
		assert.Empty(t, notifier.sent)
	})

	t.Run("ranking failure propagates and suppresses the notification", func(t *testing.T) {
		storage := &mockReplyStorage{
			createReply: func(data domain.ReplyCreationData) (domain.Reply, error) {
				return domain.Reply{Id: 1, Thread: data.Thread}, nil
			},
		}
		rejection := internal_errors.Conflict("Thread is no longer alive")
		threads := aliveThread(99)
		threads.acceptReply = func(domain.Reply) (domain.AcceptedReply, error) {
			return domain.AcceptedReply{}, rejection
		}
		notifier := &mockNotifier{}
		svc := NewReply(storage, threads, notifier, okReplyValidator(), cfg)

		_, err := svc.Create(domain.ReplyCreationData{Thread: 42, Text: "hi"})
		assert.Equal(t, rejection, err)
		assert.Empty(t, notifier.sent)
	})

	t.Run("full thread rejects before storing anything", func(t *testing.T) {
		storage := &mockReplyStorage{
			createReply: func(domain.ReplyCreationData) (domain.Reply, error) {
				t.Fatal("reply should not be stored")
				return domain.Reply{}, nil
			},
		}
		threads := aliveThread(99)
		threads.get = func(id domain.ThreadId) (domain.Thread, error) {
			return domain.Thread{Id: id, Alive: true, ReplyCount: int64(cfg.MaxThreadReplies)}, nil
		}
		svc := NewReply(storage, threads, &mockNotifier{}, okReplyValidator(), cfg)

		_, err := svc.Create(domain.ReplyCreationData{Thread: 42, Text: "hi"})
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 409, statusErr.StatusCode)
	})

	t.Run("dead thread rejects before storing anything", func(t *testing.T) {
		storage := &mockReplyStorage{
			createReply: func(domain.ReplyCreationData) (domain.Reply, error) {
				t.Fatal("reply should not be stored")
				return domain.Reply{}, nil
			},
		}
		rejection := internal_errors.Conflict("Thread is no longer alive")
		threads := aliveThread(99)
		threads.get = func(domain.ThreadId) (domain.Thread, error) {
			return domain.Thread{}, rejection
		}
		svc := NewReply(storage, threads, &mockNotifier{}, okReplyValidator(), cfg)

		_, err := svc.Create(domain.ReplyCreationData{Thread: 42, Text: "hi"})
		assert.Equal(t, rejection, err)
	})
}

func TestReplyCreateSub(t *testing.T) {
	cfg := config.Default().Public

	t.Run("caps sub-replies at the configured maximum", func(t *testing.T) {
		storage := &mockReplyStorage{
			createSubReply: func(data domain.SubReplyCreationData, maxSubReplies int) (domain.SubReply, error) {
				assert.Equal(t, cfg.MaxReplySubreplies, maxSubReplies)
				return domain.SubReply{Id: 5, Poster: data.Poster, To: data.To}, nil
			},
		}
		notifier := &mockNotifier{}
		svc := NewReply(storage, aliveThread(99), notifier, okReplyValidator(), cfg)

		sub, err := svc.CreateSub(domain.SubReplyCreationData{
			Reply:  7,
			Poster: domain.Poster{Id: 3, Name: "p"},
			To:     domain.Poster{Id: 8, Name: "target"},
			Text:   "hi",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ReplyId(5), sub.Id)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, domain.UserId(8), notifier.sent[0].owner)
	})

	t.Run("answering yourself is not notified", func(t *testing.T) {
		storage := &mockReplyStorage{
			createSubReply: func(data domain.SubReplyCreationData, _ int) (domain.SubReply, error) {
				return domain.SubReply{Poster: data.Poster, To: data.To}, nil
			},
		}
		notifier := &mockNotifier{}
		svc := NewReply(storage, aliveThread(99), notifier, okReplyValidator(), cfg)

		_, err := svc.CreateSub(domain.SubReplyCreationData{
			Reply:  7,
			Poster: domain.Poster{Id: 3},
			To:     domain.Poster{Id: 3},
			Text:   "hi",
		})
		require.NoError(t, err)
		assert.Empty(t, notifier.sent)
	})
}

func TestReplyKill(t *testing.T) {
	cfg := config.Default().Public

	t.Run("notifies the redacted poster", func(t *testing.T) {
		storage := &mockReplyStorage{
			killReply: func(replyId domain.ReplyId) (domain.Poster, error) {
				assert.Equal(t, domain.ReplyId(7), replyId)
				return domain.Poster{Id: 3, Name: "p"}, nil
			},
		}
		notifier := &mockNotifier{}
		svc := NewReply(storage, aliveThread(99), notifier, okReplyValidator(), cfg)

		require.NoError(t, svc.Kill(7))
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, domain.UserId(3), notifier.sent[0].owner)
		assert.Equal(t, "Post removed", notifier.sent[0].title)
	})

	t.Run("already removed reply reports the storage error", func(t *testing.T) {
		rejection := internal_errors.NotFound("Reply not found or already removed")
		storage := &mockReplyStorage{
			killReply: func(domain.ReplyId) (domain.Poster, error) {
				return domain.Poster{}, rejection
			},
		}
		notifier := &mockNotifier{}
		svc := NewReply(storage, aliveThread(99), notifier, okReplyValidator(), cfg)

		assert.Equal(t, rejection, svc.Kill(7))
		assert.Empty(t, notifier.sent)
	})
}
