package player

import "errors"

var (
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
	ErrInvalidWAV          = errors.New("invalid WAV file")
	ErrNoSamples           = errors.New("audio file contains no samples")
	ErrUnsupportedChannels = errors.New("only mono and stereo files can be played")
	ErrFormatMismatch      = errors.New("sample format differs from the open audio device")
	ErrClosed              = errors.New("player is closed")
)
