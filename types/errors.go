package types

import "errors"

// Sentinel errors for every failure the tool surface can report.
// Handlers unwrap these to produce a structured {error, details} body;
// nothing else crosses the boundary.
var (
	ErrDirectoryNotFound     = errors.New("music directory not found")
	ErrFileNotFound          = errors.New("audio file not found")
	ErrPathTraversalRejected = errors.New("path escapes the music directory")
	ErrNoConfidentMatch      = errors.New("no match above the confidence threshold")
	ErrNoMatch               = errors.New("no matching songs found")
	ErrNotPlaying            = errors.New("no audio currently playing")
	ErrNothingToResume       = errors.New("nothing to resume")
	ErrEndOfPlaylist         = errors.New("already at the end of the playlist")
	ErrStartOfPlaylist       = errors.New("already at the start of the playlist")
	ErrSeekUnsupported       = errors.New("seeking is not supported for the current track")
	ErrEngineUnavailable     = errors.New("media engine unavailable")
)

// ErrorKind returns the stable machine-readable kind for a known error,
// or "internal" for anything unrecognized.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrDirectoryNotFound):
		return "directory_not_found"
	case errors.Is(err, ErrFileNotFound):
		return "file_not_found"
	case errors.Is(err, ErrPathTraversalRejected):
		return "path_traversal_rejected"
	case errors.Is(err, ErrNoConfidentMatch):
		return "no_confident_match"
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	case errors.Is(err, ErrNotPlaying):
		return "not_playing"
	case errors.Is(err, ErrNothingToResume):
		return "nothing_to_resume"
	case errors.Is(err, ErrEndOfPlaylist):
		return "end_of_playlist"
	case errors.Is(err, ErrStartOfPlaylist):
		return "start_of_playlist"
	case errors.Is(err, ErrSeekUnsupported):
		return "seek_unsupported"
	case errors.Is(err, ErrEngineUnavailable):
		return "engine_unavailable"
	}
	return "internal"
}
