package service

import (
	"regexp"
	"unicode/utf8"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]{1,16}$`)

const (
	maxBoardShortName   = 15
	maxBoardName        = 100
	maxBoardDescription = 500
)

type BoardService interface {
	Create(creationData domain.BoardCreationData) (domain.Board, error)
	Get(slug domain.BoardSlug) (domain.Board, error)
	List() ([]domain.Board, error)
	Deactivate(slug domain.BoardSlug) error
}

type BoardStorage interface {
	CreateBoard(creationData domain.BoardCreationData) (domain.Board, error)
	GetBoard(slug domain.BoardSlug) (domain.Board, error)
	GetBoards() ([]domain.Board, error)
	DeactivateBoard(slug domain.BoardSlug) error
}

type Board struct {
	storage BoardStorage
}

func NewBoard(storage BoardStorage) *Board {
	return &Board{storage}
}

func (b *Board) Create(creationData domain.BoardCreationData) (domain.Board, error) {
	if !slugPattern.MatchString(creationData.Slug) {
		return domain.Board{}, internal_errors.BadRequest("Slug must be 1-16 lowercase letters or digits")
	}
	if creationData.Name == "" {
		return domain.Board{}, internal_errors.BadRequest("Board name is required")
	}
	if utf8.RuneCountInString(creationData.ShortName) > maxBoardShortName {
		return domain.Board{}, internal_errors.BadRequest("Board short name is too long")
	}
	if utf8.RuneCountInString(creationData.Name) > maxBoardName {
		return domain.Board{}, internal_errors.BadRequest("Board name is too long")
	}
	if utf8.RuneCountInString(creationData.Description) > maxBoardDescription {
		return domain.Board{}, internal_errors.BadRequest("Board description is too long")
	}
	return b.storage.CreateBoard(creationData)
}

func (b *Board) Get(slug domain.BoardSlug) (domain.Board, error) {
	return b.storage.GetBoard(slug)
}

func (b *Board) List() ([]domain.Board, error) {
	return b.storage.GetBoards()
}

func (b *Board) Deactivate(slug domain.BoardSlug) error {
	return b.storage.DeactivateBoard(slug)
}
