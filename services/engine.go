package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cadenza/config"
	"cadenza/types"

	"github.com/rs/zerolog"
)

// Engine is the playback controller's view of the underlying media
// player. Implementations own at most one live track at a time; Load
// must release the previous track's resources before acquiring new ones.
type Engine interface {
	Load(path string, volumePercent int) error
	Pause() error
	Resume() error
	Stop() error
	Seek(seconds float64) error
	SetVolume(percent int) error
	Position() (float64, error)
	Duration() (float64, error)
	Diagnose() types.EngineReport
}

// mpvEngine drives an mpv process over its line-delimited JSON IPC.
// A fresh process is spawned per track so a crashed or wedged player
// never outlives the track it was playing.
type mpvEngine struct {
	mu         sync.Mutex
	binary     string
	socketDir  string
	socketPath string
	cmd        *exec.Cmd
	conn       net.Conn
	reader     *bufio.Reader
	requestID  int
	logger     zerolog.Logger
}

// NewMPVEngine creates an Engine backed by the mpv binary
func NewMPVEngine(cfg config.EngineConfig, logger zerolog.Logger) Engine {
	return &mpvEngine{
		binary:    cfg.Binary,
		socketDir: cfg.SocketDir,
		logger:    logger.With().Str("component", "engine").Logger(),
	}
}

// Load starts playback of a file, replacing any current track. The
// previous process is killed and reaped before the new one starts.
func (e *mpvEngine) Load(path string, volumePercent int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.release()

	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", types.ErrEngineUnavailable, e.binary)
	}

	e.socketPath = filepath.Join(e.socketDir, fmt.Sprintf("cadenza-mpv-%d.sock", os.Getpid()))
	_ = os.Remove(e.socketPath)

	cmd := exec.Command(e.binary,
		"--no-video",
		"--no-terminal",
		"--idle=no",
		"--input-ipc-server="+e.socketPath,
		fmt.Sprintf("--volume=%d", volumePercent),
		path,
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrEngineUnavailable, err)
	}
	e.cmd = cmd

	conn, err := e.dial()
	if err != nil {
		e.release()
		return fmt.Errorf("%w: %v", types.ErrEngineUnavailable, err)
	}
	e.conn = conn
	// One reader for the connection's lifetime: a reader per command
	// would drop whatever the previous one had buffered past its line
	e.reader = bufio.NewReader(conn)

	e.logger.Info().Str("file", filepath.Base(path)).Int("pid", cmd.Process.Pid).Msg("Engine started")
	return nil
}

// dial waits for mpv to create its IPC socket and connects to it
func (e *mpvEngine) dial() (net.Conn, error) {
	var lastErr error
	for i := 0; i < 30; i++ {
		conn, err := net.DialTimeout("unix", e.socketPath, time.Second)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}
	return nil, fmt.Errorf("engine IPC socket never appeared: %v", lastErr)
}

func (e *mpvEngine) Pause() error {
	return e.setProperty("pause", true)
}

func (e *mpvEngine) Resume() error {
	return e.setProperty("pause", false)
}

// Stop releases the current track and its process
func (e *mpvEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
	return nil
}

// Seek jumps to an absolute position in seconds
func (e *mpvEngine) Seek(seconds float64) error {
	if _, err := e.command("seek", seconds, "absolute"); err != nil {
		return fmt.Errorf("%w: %v", types.ErrSeekUnsupported, err)
	}
	return nil
}

// SetVolume sets the engine-native 0-100 volume
func (e *mpvEngine) SetVolume(percent int) error {
	return e.setProperty("volume", percent)
}

// Position returns the current playback position in seconds
func (e *mpvEngine) Position() (float64, error) {
	return e.getFloat("time-pos")
}

// Duration returns the current track length in seconds
func (e *mpvEngine) Duration() (float64, error) {
	return e.getFloat("duration")
}

// Diagnose reports whether the engine binary is reachable and what it is
func (e *mpvEngine) Diagnose() types.EngineReport {
	report := types.EngineReport{
		Binary:           e.binary,
		SupportedFormats: supportedFormatList(),
	}

	path, err := exec.LookPath(e.binary)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("%s not found in PATH", e.binary))
		return report
	}
	report.Available = true

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("version query failed: %v", err))
		return report
	}
	if lines := strings.SplitN(string(out), "\n", 2); len(lines) > 0 {
		report.Version = strings.TrimSpace(lines[0])
	}

	return report
}

// release kills and reaps the current process and closes the IPC socket.
// Caller must hold the lock.
func (e *mpvEngine) release() {
	if e.conn != nil {
		e.conn.Close()
		e.conn = nil
		e.reader = nil
	}
	if e.cmd != nil && e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
		_ = e.cmd.Wait()
		e.cmd = nil
	}
	if e.socketPath != "" {
		_ = os.Remove(e.socketPath)
	}
}

type mpvRequest struct {
	Command   []interface{} `json:"command"`
	RequestID int           `json:"request_id"`
}

type mpvResponse struct {
	Error     string      `json:"error"`
	Data      interface{} `json:"data"`
	RequestID int         `json:"request_id"`
	Event     string      `json:"event"`
}

// command sends one IPC command and waits for its matching response,
// skipping any interleaved playback events.
func (e *mpvEngine) command(args ...interface{}) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil {
		return nil, types.ErrEngineUnavailable
	}

	e.requestID++
	req := mpvRequest{Command: args, RequestID: e.requestID}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(2 * time.Second)
	_ = e.conn.SetDeadline(deadline)

	if _, err := e.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEngineUnavailable, err)
	}

	for {
		line, err := e.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrEngineUnavailable, err)
		}

		var resp mpvResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != req.RequestID {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("engine error: %s", resp.Error)
		}
		return resp.Data, nil
	}
}

func (e *mpvEngine) setProperty(name string, value interface{}) error {
	_, err := e.command("set_property", name, value)
	return err
}

func (e *mpvEngine) getFloat(name string) (float64, error) {
	data, err := e.command("get_property", name)
	if err != nil {
		return 0, err
	}
	value, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("unexpected %s value %v", name, data)
	}
	return value, nil
}

func supportedFormatList() []string {
	formats := make([]string, 0, len(SupportedFormats))
	for ext := range SupportedFormats {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(formats)
	return formats
}
