package domain

import "errors"

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Runtime errors
	ErrRuntimeUnavailable = errors.New("container runtime unavailable")
	ErrNetworkNotFound    = errors.New("network not found")
	ErrNotAttached        = errors.New("container is not connected to the proxy network")

	// Allocation errors
	ErrPortCollision     = errors.New("tcp listen ports collide")
	ErrPortOutOfRange    = errors.New("port out of range")
	ErrDuplicateHostname = errors.New("hostname claimed by more than one container")

	// Hosts file errors
	ErrInsufficientPrivileges = errors.New("administrative privileges required to update hosts file")

	// Manifest errors
	ErrManifestParse           = errors.New("failed to parse manifest")
	ErrManifestServiceNotFound = errors.New("service not found in manifest")

	// Orchestrator errors
	ErrComposeFailed = errors.New("docker compose up failed")

	// Config errors
	ErrInvalidConfig = errors.New("invalid configuration")
)
