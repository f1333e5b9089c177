// Package errs defines the flat error taxonomy shared by every component of
// the monokakido dictionary reader. Each sentinel corresponds to exactly one
// observable class of fault; callers distinguish causes with errors.Is.
package errs

import "errors"

var (
	// ErrTransmute is returned when a byte buffer is too small or
	// misaligned to be reinterpreted as a fixed-layout record.
	ErrTransmute = errors.New("monokakido: buffer too small or misaligned for record layout")

	// ErrBufferTooSmall is returned when fewer than 4 bytes remain while
	// reading a little-endian u32.
	ErrBufferTooSmall = errors.New("monokakido: buffer too small for u32le read")

	// ErrKeyFileHeaderValidate is returned when the keystore file header
	// magic numbers or offset ordering fail validation.
	ErrKeyFileHeaderValidate = errors.New("monokakido: keystore file header validation failed")

	// ErrKeyIndexHeaderValidate is returned when the keystore index-set
	// header magic number or offset ordering fail validation.
	ErrKeyIndexHeaderValidate = errors.New("monokakido: keystore index header validation failed")

	// ErrIncorrectStreamLength is returned when a file's size disagrees
	// with its declared record count, or a zlib stream leaves unconsumed
	// input after reporting completion.
	ErrIncorrectStreamLength = errors.New("monokakido: incorrect stream length")

	// ErrInvalidIndex is returned when an internal index pointer is out
	// of range or refers to a misaligned location.
	ErrInvalidIndex = errors.New("monokakido: invalid index pointer")

	// ErrNotFound is returned when a key or id is absent from its index.
	ErrNotFound = errors.New("monokakido: not found")

	// ErrIndexMismatch is returned when an RSC item-index map index
	// points outside the map array.
	ErrIndexMismatch = errors.New("monokakido: index/map mismatch")

	// ErrInvalidAudioFormat is returned when an NRSC record's format
	// field is outside {0, 1}.
	ErrInvalidAudioFormat = errors.New("monokakido: invalid audio format")

	// ErrMissingResourceFile is returned when a segment-file sequence has
	// gaps or does not start at the expected number.
	ErrMissingResourceFile = errors.New("monokakido: missing resource file")

	// ErrMissingMedia is returned when a caller accesses media on a
	// dictionary with no audio subtree.
	ErrMissingMedia = errors.New("monokakido: dictionary has no media")

	// ErrIndexDoesntExist is returned when a caller accesses a keystore
	// ordering whose offset was zero at open time.
	ErrIndexDoesntExist = errors.New("monokakido: requested key ordering does not exist")

	// ErrNoDictJSONFound is returned when the descriptor JSON file cannot
	// be read.
	ErrNoDictJSONFound = errors.New("monokakido: dictionary descriptor JSON not found")

	// ErrInvalidDictJSON is returned when the descriptor JSON cannot be
	// parsed into the expected shape.
	ErrInvalidDictJSON = errors.New("monokakido: dictionary descriptor JSON invalid")

	// ErrUTF8 is returned when bytes expected to be text are not valid
	// UTF-8.
	ErrUTF8 = errors.New("monokakido: invalid UTF-8")

	// ErrZlib is returned when the inflate engine rejects a stream.
	ErrZlib = errors.New("monokakido: zlib decompression failed")

	// ErrIO wraps any underlying filesystem operation failure. The
	// original error's text is kept in the message, but the original error
	// (e.g. an *os.PathError) is not part of the error chain.
	ErrIO = errors.New("monokakido: I/O error")
)
