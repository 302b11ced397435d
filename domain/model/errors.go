package model

import "errors"

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrProviderInvalid  = errors.New("provider invalid")
)

var (
	ErrHubNotFound = errors.New("hub not found")
	ErrHubInvalid  = errors.New("hub invalid")
)

var (
	ErrSpokeNotFound = errors.New("spoke not found")
	ErrSpokeInvalid  = errors.New("spoke invalid")
	ErrSpokeExists   = errors.New("spoke already exists")
)

var (
	ErrAppNotFound = errors.New("app not found")
	ErrAppInvalid  = errors.New("app invalid")
)

// ErrIdentityNotFound is returned when a managed identity lookup finds no
// matching resource.
var ErrIdentityNotFound = errors.New("identity not found")

// ErrLocalAccountsDisabled is returned when admin (local account) credentials
// are requested from a cluster that has local accounts disabled.
var ErrLocalAccountsDisabled = errors.New("cluster local accounts are disabled")

// ErrUnsupported is returned by drivers that do not implement an operation.
var ErrUnsupported = errors.New("operation not supported by provider driver")
