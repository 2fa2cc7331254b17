package sqids

import "errors"

var (
	// ErrAlphabetTooShort indicates the alphabet has fewer than minAlphabetLength characters.
	ErrAlphabetTooShort = errors.New("alphabet too short")

	// ErrAlphabetMultibyte indicates the alphabet contains a character outside single-byte ASCII.
	ErrAlphabetMultibyte = errors.New("alphabet cannot contain multibyte characters")

	// ErrAlphabetNotUnique indicates the alphabet repeats a character.
	ErrAlphabetNotUnique = errors.New("alphabet must contain unique characters")

	// ErrMinLength indicates MinLength is outside [0, alphabet length].
	ErrMinLength = errors.New("minimum length out of range")

	// ErrOutOfRange indicates a number passed to Encode is negative or above MaxValue.
	ErrOutOfRange = errors.New("number out of range")

	// ErrMaxAttempts indicates every rotation of the alphabet produced a blocked ID.
	ErrMaxAttempts = errors.New("maximum regeneration attempts exceeded")
)
