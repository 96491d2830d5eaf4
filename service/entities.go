package service

import (
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/SunnySoftwareTech/Drafty/localstore"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownFolder = errors.New("folder does not exist")
)

const (
	defaultNotebookName = "Untitled Notebook"
	defaultPageName     = "Untitled Page"
	defaultProjectName  = "Untitled Project"
	defaultFolderName   = "New Folder"
)

// newId returns a time-ordered id, so newer entities sort after older ones.
func newId() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// begin takes the user's lock for a read-modify-write of local collections.
func (s *Service) begin(userId string) (func(), error) {
	if userId == "" {
		return nil, localstore.ErrEmptyUserID
	}
	return s.lockUser(userId), nil
}
