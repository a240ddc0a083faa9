package service

import (
	"strings"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

const maxUnsolvedIssues = 200

type IssueService interface {
	Create(creationData domain.IssueCreationData) (domain.Issue, error)
	ListUnsolved() ([]domain.Issue, error)
	Solve(issueId int64, solvedBy domain.Creator, details string) error
}

type IssueStorage interface {
	CreateIssue(creationData domain.IssueCreationData) (domain.Issue, error)
	GetUnsolvedIssues(limit int) ([]domain.Issue, error)
	SolveIssue(issueId int64, solvedBy domain.Creator, details string) error
}

type Issue struct {
	storage IssueStorage
}

func NewIssue(storage IssueStorage) *Issue {
	return &Issue{storage}
}

func (i *Issue) Create(creationData domain.IssueCreationData) (domain.Issue, error) {
	if !domain.ValidIssueCategory(creationData.Category) {
		return domain.Issue{}, internal_errors.BadRequest("Unknown issue category")
	}
	if strings.TrimSpace(creationData.Problem) == "" {
		return domain.Issue{}, internal_errors.BadRequest("Problem description is required")
	}
	return i.storage.CreateIssue(creationData)
}

func (i *Issue) ListUnsolved() ([]domain.Issue, error) {
	return i.storage.GetUnsolvedIssues(maxUnsolvedIssues)
}

func (i *Issue) Solve(issueId int64, solvedBy domain.Creator, details string) error {
	return i.storage.SolveIssue(issueId, solvedBy, details)
}
