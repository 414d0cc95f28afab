package service

import "errors"

// Sentinel errors for the season run phases.
var (
	ErrLoad           = errors.New("load season")
	ErrSolve          = errors.New("solve season")
	ErrReport         = errors.New("write reports")
	ErrAlreadyRunning = errors.New("service already running")
)
