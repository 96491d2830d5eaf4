package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/SunnySoftwareTech/Drafty/events"
)

type StatusKind string

const (
	StatusSynced       StatusKind = "synced"
	StatusLoaded       StatusKind = "loaded"
	StatusNoRemoteData StatusKind = "no-remote-data"
	StatusTokenSaved   StatusKind = "token-saved"
	StatusInvalidToken StatusKind = "invalid-token"
	StatusMissingToken StatusKind = "missing-token"
	StatusFailed       StatusKind = "failed"
	StatusQueued       StatusKind = "queued"
)

// FailureMarker prefixes every failure message so a UI can style it.
const FailureMarker = "Error: "

const (
	msgSynced         = "Successfully synced to Gist!"
	msgLoaded         = "Successfully loaded from Gist!"
	msgNoRemoteData   = "No data found in Gist"
	msgTokenSaved     = "Token saved successfully!"
	msgInvalidToken   = FailureMarker + "Invalid token - please check your token"
	msgEnterToken     = FailureMarker + "Please enter a token"
	msgSaveTokenFirst = FailureMarker + "Please save a valid token first"
)

// Status is the one terminal outcome of a push, pull or token save.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
	UserId  string     `json:"userId"`
	At      time.Time  `json:"at"`
}

func (st Status) Failed() bool {
	return strings.HasPrefix(st.Message, FailureMarker)
}

func failure(format string, err error) string {
	return FailureMarker + format + ": " + err.Error()
}

func (s *Service) status(userId string, kind StatusKind, message string) Status {
	return Status{Kind: kind, Message: message, UserId: userId, At: s.now()}
}

// publish sends st on the status channel. Delivery is best effort.
func (s *Service) publish(st Status) Status {
	if s.Events == nil {
		return st
	}

	msg, err := json.Marshal(st)
	if err != nil {
		log.Printf("Failed to encode status for user %s: %v", st.UserId, err)
		return st
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Events.Publish(ctx, events.SyncStatusChannel, msg); err != nil {
		log.Printf("Failed to publish status for user %s: %v", st.UserId, err)
	}
	return st
}
