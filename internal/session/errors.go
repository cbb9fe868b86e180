package session

import "errors"

var (
	// ErrNoToken means the slot is empty.
	ErrNoToken = errors.New("no session token")
	// ErrMalformedToken covers wrong segment count, bad encoding and non-object payloads.
	ErrMalformedToken = errors.New("malformed session token")
	// ErrExpiredToken means the token decoded but its exp claim is in the past.
	ErrExpiredToken = errors.New("session token expired")
)
