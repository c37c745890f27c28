package sched

import "errors"

var (
	ErrInvalidBurst     = errors.New("invalid burst time")
	ErrInvalidArrival   = errors.New("invalid arrival time")
	ErrProcessNotFound  = errors.New("process not found")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrInvalidQuantum   = errors.New("invalid time quantum")
)
