package audio

import "errors"

var (
	// ErrNotInitialized is returned when loading audio before Initialize.
	ErrNotInitialized = errors.New("audio manager not initialized")

	// ErrNoSoundFont is returned when SoundFont rendering is requested without a file.
	ErrNoSoundFont = errors.New("soundfont file is required for midi rendering")

	// ErrSoundFontNotFound is returned when the SoundFont file does not exist.
	ErrSoundFontNotFound = errors.New("soundfont file not found")

	// ErrNoAudioFile is returned when none of the candidate audio files exist.
	ErrNoAudioFile = errors.New("no audio file found")

	// ErrUnsupportedFormat is returned for audio files other than ogg, mp3 and wav.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)
