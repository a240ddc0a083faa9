package service

import (
	"fmt"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

type RequestService interface {
	Create(to, by domain.RequestParty) (domain.Request, error)
	Respond(requestId int64, to domain.UserId, grant bool) (domain.Request, error)
	ListIncoming(to domain.UserId) ([]domain.Request, error)
	ListOutgoing(by domain.UserId) ([]domain.Request, error)
}

type RequestStorage interface {
	CreateRequest(to, by domain.RequestParty) (domain.Request, error)
	RespondRequest(requestId int64, to domain.UserId, grant bool) (domain.Request, error)
	GetRequestsTo(to domain.UserId) ([]domain.Request, error)
	GetRequestsBy(by domain.UserId) ([]domain.Request, error)
}

type RequestSvc struct {
	storage  RequestStorage
	notifier Notifier
}

func NewRequest(storage RequestStorage, notifier Notifier) *RequestSvc {
	return &RequestSvc{storage, notifier}
}

func (r *RequestSvc) Create(to, by domain.RequestParty) (domain.Request, error) {
	if to.Id == by.Id {
		return domain.Request{}, internal_errors.BadRequest("Can't request access to yourself")
	}
	request, err := r.storage.CreateRequest(to, by)
	if err != nil {
		return domain.Request{}, err
	}
	r.notifier.Notify(to.Id,
		"New request",
		fmt.Sprintf("%s wants access to your profile", by.Username),
		fmt.Sprintf("/requests/%d", request.Id))
	return request, nil
}

// Respond records the answer; only the recipient can respond and only once.
// The requester is notified on a grant, a denial stays silent.
func (r *RequestSvc) Respond(requestId int64, to domain.UserId, grant bool) (domain.Request, error) {
	request, err := r.storage.RespondRequest(requestId, to, grant)
	if err != nil {
		return domain.Request{}, err
	}
	if grant {
		r.notifier.Notify(request.RequestedBy.Id,
			"Request accepted",
			fmt.Sprintf("%s accepted your request", request.To.Username),
			fmt.Sprintf("/users/%d", request.To.Id))
	}
	return request, nil
}

func (r *RequestSvc) ListIncoming(to domain.UserId) ([]domain.Request, error) {
	return r.storage.GetRequestsTo(to)
}

func (r *RequestSvc) ListOutgoing(by domain.UserId) ([]domain.Request, error) {
	return r.storage.GetRequestsBy(by)
}
