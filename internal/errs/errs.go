// Package errs defines Thetacrypt's error taxonomy (spec.md §7) as a
// closed set of sentinel errors, comparable with errors.Is after
// github.com/pkg/errors-style wrapping at each boundary.
package errs

import "errors"

var (
	// ErrInvalidParams covers threshold > n, unknown scheme strings,
	// bad group codes.
	ErrInvalidParams = errors.New("invalid params")
	// ErrIncompatibleGroup: a scheme was requested on a group outside
	// its permitted set.
	ErrIncompatibleGroup = errors.New("incompatible group")
	// ErrWrongGroup: an RSA scheme was given a non-RSA group or vice
	// versa.
	ErrWrongGroup = errors.New("wrong group")
	// ErrCurveNoPairing: a pairing-only scheme was given a
	// non-pairing group.
	ErrCurveNoPairing = errors.New("curve does not support pairings")
	// ErrInvalidCiphertext: a ciphertext failed its own verification
	// under the public key.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	// ErrInvalidShare: a received share failed verification.
	ErrInvalidShare = errors.New("invalid share")
	// ErrDuplicateShare: the same share id was seen twice.
	ErrDuplicateShare = errors.New("duplicate share")
	// ErrAborted: keychain lookup failed or no matching key exists.
	ErrAborted = errors.New("aborted")
	// ErrAlreadyExists: a second request produced an instance id that
	// is already live.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSchemeError: a downstream primitive failed.
	ErrSchemeError = errors.New("scheme error")
	// ErrNotFinished: the inbound channel closed before k valid
	// shares arrived.
	ErrNotFinished = errors.New("not finished")
	// ErrInstanceNotFound: a status poll named an unknown instance id.
	ErrInstanceNotFound = errors.New("instance not found")
	// ErrAmbiguous: more than one (or zero) default key matched a
	// scheme/group lookup.
	ErrAmbiguous = errors.New("ambiguous key selection")
	// ErrKeyNotFound: no key matches the requested id.
	ErrKeyNotFound = errors.New("key not found")
)
