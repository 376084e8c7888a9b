package player

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/errors"
)

// tickInterval is the cadence of playback time updates.
const tickInterval = 500 * time.Millisecond

// FFplay drives playback through an ffplay subprocess. ffplay has no
// control channel, so pause/resume map to SIGSTOP/SIGCONT and seeking
// restarts the process at the target offset with -ss. Playback position
// is tracked wall-clock side since ffplay reports nothing back.
type FFplay struct {
	binary string
	logger *logrus.Logger

	// Event callbacks, invoked from the process-watcher goroutine.
	// Wire these before the first Load.
	OnEnded func()
	OnError func(error)
	OnTime  func(position float64)

	mu      sync.Mutex
	cmd     *exec.Cmd
	url     string
	volume  float64
	offset  float64 // position the current process started at
	started time.Time
	played  time.Duration // accumulated before the current run segment
	paused  bool
	stopped chan struct{}
}

// NewFFplay creates an ffplay transport. An empty binary falls back to
// "ffplay" on PATH.
func NewFFplay(binary string, logger *logrus.Logger) *FFplay {
	if binary == "" {
		binary = "ffplay"
	}
	return &FFplay{binary: binary, logger: logger}
}

// Load starts playback of url, replacing any active stream.
func (f *FFplay) Load(url string, volume float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url = url
	f.volume = volume
	return f.spawnLocked(0)
}

// Pause suspends the subprocess.
func (f *FFplay) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cmd == nil || f.paused {
		return nil
	}
	if err := f.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		return err
	}
	f.played += time.Since(f.started)
	f.paused = true
	return nil
}

// Resume continues a paused subprocess. Once the process has exited
// there is nothing to continue and the caller must reload the stream.
func (f *FFplay) Resume() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cmd == nil {
		return errors.ErrTransportDead
	}
	if !f.paused {
		return nil
	}
	if err := f.cmd.Process.Signal(syscall.SIGCONT); err != nil {
		return err
	}
	f.started = time.Now()
	f.paused = false
	return nil
}

// Seek restarts the stream at the given offset.
func (f *FFplay) Seek(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.url == "" {
		return nil
	}
	return f.spawnLocked(seconds)
}

// SetVolume applies the volume by restarting the stream in place;
// ffplay cannot change volume mid-run.
func (f *FFplay) SetVolume(volume float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = volume
	if f.cmd == nil {
		return nil
	}
	return f.spawnLocked(f.positionLocked())
}

// Stop kills the subprocess, if any.
func (f *FFplay) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killLocked()
	return nil
}

// spawnLocked kills any running process and starts a fresh one at the
// given offset. Caller holds the lock.
func (f *FFplay) spawnLocked(offset float64) error {
	f.killLocked()

	args := []string{
		"-nodisp", "-autoexit", "-loglevel", "error",
		"-volume", fmt.Sprintf("%d", int(f.volume*100)),
	}
	if offset > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.2f", offset))
	}
	args = append(args, f.url)

	cmd := exec.Command(f.binary, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", f.binary, err)
	}

	f.cmd = cmd
	f.offset = offset
	f.started = time.Now()
	f.played = 0
	f.paused = false
	f.stopped = make(chan struct{})

	go f.watch(cmd, f.stopped)
	go f.tick(f.stopped)
	return nil
}

// killLocked tears down the current process and its goroutines.
func (f *FFplay) killLocked() {
	if f.cmd == nil {
		return
	}
	close(f.stopped)
	if f.paused {
		// A stopped process cannot handle SIGKILL until continued.
		f.cmd.Process.Signal(syscall.SIGCONT)
	}
	f.cmd.Process.Kill()
	f.cmd = nil
	f.paused = false
}

// watch waits for the process to exit and reports how it went. A kill
// from our own side is not an event.
func (f *FFplay) watch(cmd *exec.Cmd, stopped chan struct{}) {
	err := cmd.Wait()

	select {
	case <-stopped:
		return
	default:
	}

	f.mu.Lock()
	if f.cmd == cmd {
		f.cmd = nil
		close(f.stopped)
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.WithError(err).Debug("ffplay exited abnormally")
		if f.OnError != nil {
			f.OnError(err)
		}
		return
	}
	if f.OnEnded != nil {
		f.OnEnded()
	}
}

// tick emits playback time updates until the run segment ends.
func (f *FFplay) tick(stopped chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stopped:
			return
		case <-ticker.C:
			f.mu.Lock()
			pos := f.positionLocked()
			paused := f.paused
			f.mu.Unlock()
			if !paused && f.OnTime != nil {
				f.OnTime(pos)
			}
		}
	}
}

// positionLocked derives the playback position from wall-clock time.
func (f *FFplay) positionLocked() float64 {
	elapsed := f.played
	if f.cmd != nil && !f.paused {
		elapsed += time.Since(f.started)
	}
	return f.offset + elapsed.Seconds()
}

var _ Transport = (*FFplay)(nil)
