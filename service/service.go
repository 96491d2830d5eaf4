package service

import (
	"errors"
	"sync"
	"time"

	"github.com/SunnySoftwareTech/Drafty/events"
	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/remote"
	"github.com/SunnySoftwareTech/Drafty/worker"
)

type Service struct {
	Local     *localstore.LocalStore
	Remote    remote.Provider
	Events    events.Broker
	Coalescer *worker.SyncCoalescer
	JWTSecret []byte
	Now       func() time.Time

	clientsMu sync.Mutex
	clients   map[string]*userClient

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// userClient keeps a user's remote client alive while the token stays the
// same, so the discovered document id is reused.
type userClient struct {
	token  string
	client remote.SnapshotClient
}

// NewService wires the orchestrator. broker and coalescer may be nil: statuses
// are then not published and async sync requests are refused.
func NewService(
	local *localstore.LocalStore,
	provider remote.Provider,
	broker events.Broker,
	coalescer *worker.SyncCoalescer,
	jwtSecret []byte,
) (*Service, error) {
	if local == nil {
		return nil, errors.New("local store is required")
	}
	if provider == nil {
		return nil, errors.New("remote provider is required")
	}

	return &Service{
		Local:     local,
		Remote:    provider,
		Events:    broker,
		Coalescer: coalescer,
		JWTSecret: jwtSecret,
		Now:       time.Now,
		clients:   make(map[string]*userClient),
		locks:     make(map[string]*sync.Mutex),
	}, nil
}

func (s *Service) now() time.Time {
	return s.Now().UTC()
}

// lockUser serializes operations of one user. The returned func unlocks.
func (s *Service) lockUser(userId string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[userId]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userId] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) clientFor(userId, token string) remote.SnapshotClient {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if uc, ok := s.clients[userId]; ok && uc.token == token {
		return uc.client
	}
	c := s.Remote.NewClient(token)
	s.clients[userId] = &userClient{token: token, client: c}
	return c
}
