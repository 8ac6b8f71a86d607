package services

import (
	"fmt"
	"path/filepath"
	"sync"

	"cadenza/config"
	"cadenza/types"
	"cadenza/websocket"

	"github.com/rs/zerolog"
)

// PlayerService interface defines the playback control operations
type PlayerService interface {
	Play(path string) (types.AudioFile, error)
	Stop() error
	Pause() error
	Resume() error
	Next() (types.AudioFile, error)
	Previous() (types.AudioFile, error)
	Seek(seconds float64) (float64, error)
	SkipForward(delta float64) (float64, error)
	SkipBackward(delta float64) (float64, error)
	SetVolume(level int) int
	Status() types.PlaybackStatus
	Diagnose() types.EngineReport
}

// playerService is the process-wide playback controller. All state
// mutations funnel through its transition methods under one mutex;
// the engine handle is owned exclusively here.
type playerService struct {
	mu       sync.Mutex
	engine   Engine
	library  LibraryService
	hub      websocket.Hub
	logger   zerolog.Logger
	state    types.PlaybackState
	playlist []types.AudioFile
	current  int // index into playlist, -1 until something has played
	volume   int // 0-10

	// last successful engine readings, served when the engine query fails
	lastPosition float64
	lastDuration float64
}

// NewPlayerService creates the playback controller
func NewPlayerService(engine Engine, library LibraryService, hub websocket.Hub, cfg *config.Config, logger zerolog.Logger) PlayerService {
	return &playerService{
		engine:  engine,
		library: library,
		hub:     hub,
		logger:  logger.With().Str("component", "player").Logger(),
		state:   types.StateStopped,
		current: -1,
		volume:  clampVolume(cfg.DefaultVolume),
	}
}

// Play starts playback of a library file from any state. The previous
// engine handle is released by Load before the new track starts. The
// playlist is refreshed to the current library ordering and the current
// index points at the requested file.
func (ps *playerService) Play(path string) (types.AudioFile, error) {
	absPath, err := ps.library.Resolve(path)
	if err != nil {
		return types.AudioFile{}, err
	}

	files, err := ps.library.Scan()
	if err != nil {
		return types.AudioFile{}, err
	}

	// Resolve returns absolute paths, so the root must be absolute too
	// before the two can be related
	absRoot, err := filepath.Abs(ps.library.Root())
	if err != nil {
		return types.AudioFile{}, fmt.Errorf("%w: %s", types.ErrFileNotFound, path)
	}
	relPath, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return types.AudioFile{}, fmt.Errorf("%w: %s", types.ErrFileNotFound, path)
	}
	relPath = filepath.ToSlash(relPath)

	index := -1
	for i, f := range files {
		if f.Path == relPath {
			index = i
			break
		}
	}
	if index == -1 {
		// Inside the root but not a scannable format
		return types.AudioFile{}, fmt.Errorf("%w: %s", types.ErrFileNotFound, path)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if err := ps.engine.Load(absPath, enginePercent(ps.volume)); err != nil {
		return types.AudioFile{}, err
	}

	ps.playlist = files
	ps.current = index
	ps.state = types.StatePlaying
	ps.lastPosition = 0
	if dur, err := ps.engine.Duration(); err == nil {
		ps.lastDuration = dur
	} else {
		ps.lastDuration = 0
	}

	file := files[index]
	ps.logger.Info().Str("file", file.Path).Int("volume", ps.volume).Msg("Playing")
	ps.hub.Broadcast(types.PlaybackEvent{Type: types.EventNowPlaying, File: file.Path, Volume: ps.volume})

	return file, nil
}

// Stop halts playback from any state and releases the engine handle
func (ps *playerService) Stop() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if err := ps.engine.Stop(); err != nil {
		return err
	}

	ps.state = types.StateStopped
	ps.lastPosition = 0
	ps.hub.Broadcast(types.PlaybackEvent{Type: types.EventStopped})
	return nil
}

// Pause transitions Playing to Paused
func (ps *playerService) Pause() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.state != types.StatePlaying {
		return types.ErrNotPlaying
	}

	if err := ps.engine.Pause(); err != nil {
		return err
	}

	ps.state = types.StatePaused
	ps.hub.Broadcast(types.PlaybackEvent{Type: types.EventPaused, File: ps.currentPath()})
	return nil
}

// Resume transitions Paused back to Playing without touching position
func (ps *playerService) Resume() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.state != types.StatePaused {
		return types.ErrNothingToResume
	}

	if err := ps.engine.Resume(); err != nil {
		return err
	}

	ps.state = types.StatePlaying
	ps.hub.Broadcast(types.PlaybackEvent{Type: types.EventResumed, File: ps.currentPath()})
	return nil
}

// Next plays the following playlist entry. At the last index it fails
// with EndOfPlaylist: no wraparound. Before anything has played it
// starts from the beginning.
func (ps *playerService) Next() (types.AudioFile, error) {
	file, err := ps.neighbor(+1, types.ErrEndOfPlaylist)
	if err != nil {
		return types.AudioFile{}, err
	}
	return ps.Play(file.Path)
}

// Previous plays the preceding playlist entry. At index 0 it fails with
// StartOfPlaylist. Before anything has played it starts from the end.
func (ps *playerService) Previous() (types.AudioFile, error) {
	file, err := ps.neighbor(-1, types.ErrStartOfPlaylist)
	if err != nil {
		return types.AudioFile{}, err
	}
	return ps.Play(file.Path)
}

// neighbor picks the playlist entry one step away without playing it
func (ps *playerService) neighbor(step int, boundaryErr error) (types.AudioFile, error) {
	files, err := ps.library.Scan()
	if err != nil {
		return types.AudioFile{}, err
	}
	if len(files) == 0 {
		return types.AudioFile{}, fmt.Errorf("%w: library is empty", types.ErrFileNotFound)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	target := ps.current + step
	if ps.current == -1 {
		// Nothing has played yet: next starts at the beginning,
		// previous at the end
		if step > 0 {
			target = 0
		} else {
			target = len(files) - 1
		}
	}

	if target >= len(files) || target < 0 {
		return types.AudioFile{}, boundaryErr
	}

	return files[target], nil
}

// Seek jumps to an absolute position. Targets below zero clamp to the
// start; targets past a known duration clamp to one second before the
// end. Unknown durations pass through to the engine.
func (ps *playerService) Seek(seconds float64) (float64, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.state == types.StateStopped {
		return 0, types.ErrNotPlaying
	}

	target := seconds
	if target < 0 {
		target = 0
	}

	duration := ps.lastDuration
	if dur, err := ps.engine.Duration(); err == nil {
		duration = dur
		ps.lastDuration = dur
	}
	if duration > 0 && target > duration-1 {
		target = duration - 1
		if target < 0 {
			target = 0
		}
	}

	if err := ps.engine.Seek(target); err != nil {
		return 0, err
	}

	ps.lastPosition = target
	ps.hub.Broadcast(types.PlaybackEvent{Type: types.EventSeek, File: ps.currentPath(), PositionSeconds: target})
	return target, nil
}

// SkipForward seeks ahead of the current position by delta seconds
func (ps *playerService) SkipForward(delta float64) (float64, error) {
	return ps.Seek(ps.position() + delta)
}

// SkipBackward seeks behind the current position by delta seconds
func (ps *playerService) SkipBackward(delta float64) (float64, error) {
	return ps.Seek(ps.position() - delta)
}

// position returns the best available current position
func (ps *playerService) position() float64 {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.state == types.StateStopped {
		return 0
	}
	if pos, err := ps.engine.Position(); err == nil {
		ps.lastPosition = pos
		return pos
	}
	return ps.lastPosition
}

// SetVolume clamps the level to the 0-10 scale and applies it. Always
// succeeds: an unreachable engine only means the new level takes effect
// on the next play.
func (ps *playerService) SetVolume(level int) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.volume = clampVolume(level)

	if ps.state != types.StateStopped {
		if err := ps.engine.SetVolume(enginePercent(ps.volume)); err != nil {
			ps.logger.Warn().Err(err).Msg("Engine volume update failed, level kept for next play")
		}
	}

	ps.hub.Broadcast(types.PlaybackEvent{Type: types.EventVolume, Volume: ps.volume})
	return ps.volume
}

// Status reports the controller state. It never fails: when the engine
// cannot be queried the last-known position is returned with Stale set.
func (ps *playerService) Status() types.PlaybackStatus {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	status := types.PlaybackStatus{
		State:           ps.state,
		CurrentFile:     ps.currentPath(),
		Volume:          ps.volume,
		PlaylistSize:    len(ps.playlist),
		CurrentIndex:    ps.current,
		PositionSeconds: ps.lastPosition,
		DurationSeconds: ps.lastDuration,
	}

	if ps.state == types.StateStopped {
		return status
	}

	pos, posErr := ps.engine.Position()
	dur, durErr := ps.engine.Duration()
	if posErr != nil || durErr != nil {
		status.Stale = true
		return status
	}

	ps.lastPosition = pos
	ps.lastDuration = dur
	status.PositionSeconds = pos
	status.DurationSeconds = dur
	return status
}

// Diagnose reports the media engine's capabilities
func (ps *playerService) Diagnose() types.EngineReport {
	return ps.engine.Diagnose()
}

// currentPath returns the current file's relative path; caller holds the lock
func (ps *playerService) currentPath() string {
	if ps.current >= 0 && ps.current < len(ps.playlist) {
		return ps.playlist[ps.current].Path
	}
	return ""
}

// clampVolume bounds a level to the 0-10 user scale
func clampVolume(level int) int {
	if level < 0 {
		return 0
	}
	if level > 10 {
		return 10
	}
	return level
}

// enginePercent maps the 0-10 user scale to the engine's 0-100 scale
func enginePercent(level int) int {
	return level * 10
}
