package common

import "errors"

// Sentinel errors implementing the taxonomy of spec §7. Callers use
// errors.Is to distinguish fatal conditions (ErrMissingFile,
// ErrDuplicateNeuron) from recoverable ones that the core logs and
// continues past (ErrUnknownNeuron, ErrParse, ErrInvalidParameter).
var (
	ErrUnknownNeuron    = errors.New("unknown neuron id")
	ErrDuplicateNeuron  = errors.New("duplicate neuron id")
	ErrParse            = errors.New("parse error")
	ErrMissingFile      = errors.New("file not found")
	ErrInvalidParameter = errors.New("invalid parameter")
)
