package lockfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultRetryDelay = time.Second

// Monitor watches the sentinel file's directory and publishes the file's
// existence through a Flag. The hook only ever reads the flag, so it may miss
// intermediate edges when the file is toggled quickly; it always sees the
// latest value.
type Monitor struct {
	path string
	dir  string
	flag Flag
	log  *zap.Logger

	retryDelay time.Duration

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithRetryDelay sets how long the worker waits between attempts to
// re-establish a lost watch.
func WithRetryDelay(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.retryDelay = d
		}
	}
}

// NewMonitor stats the sentinel file, stores the result in the flag and
// starts watching its parent directory. The initial value is in place when
// NewMonitor returns. Failing to set up the first watch is an error; later
// failures are retried by the worker and only logged.
func NewMonitor(path string, logger *zap.Logger, opts ...Option) (*Monitor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lock file path: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		path:       abs,
		dir:        filepath.Dir(abs),
		log:        logger.Named("lockfile"),
		retryDelay: defaultRetryDelay,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	w, err := m.newWatcher()
	if err != nil {
		return nil, err
	}
	m.resync()

	m.log.Info("watching lock file",
		zap.String("path", m.path),
		zap.Bool("present", m.flag.Present()))

	m.wg.Add(1)
	go m.run(w)
	return m, nil
}

// Present reports the latest observed existence of the sentinel file.
func (m *Monitor) Present() bool {
	return m.flag.Present()
}

// Path returns the absolute sentinel path.
func (m *Monitor) Path() string {
	return m.path
}

// Close stops the worker and waits for it to exit.
func (m *Monitor) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	m.wg.Wait()
	return nil
}

func (m *Monitor) newWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(m.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", m.dir, err)
	}
	return w, nil
}

// resync re-reads the sentinel from disk. Used at start and after the watch
// is rebuilt, since events may have been lost in between.
func (m *Monitor) resync() {
	present, err := Exists(m.path)
	if err != nil {
		m.log.Warn("failed to stat lock file", zap.Error(err))
		return
	}
	m.flag.store(present)
}

func (m *Monitor) run(w *fsnotify.Watcher) {
	defer m.wg.Done()

	for {
		lost := m.watch(w)
		w.Close()
		if !lost {
			return
		}

		w = m.rewatch()
		if w == nil {
			return
		}
	}
}

// watch consumes events until the watch is lost (true) or the monitor is
// closed (false).
func (m *Monitor) watch(w *fsnotify.Watcher) bool {
	for {
		select {
		case <-m.done:
			return false

		case ev, ok := <-w.Events:
			if !ok {
				m.log.Warn("watcher event channel closed")
				return true
			}
			if m.dirGone(ev) {
				m.log.Warn("lock directory went away", zap.String("dir", m.dir))
				return true
			}
			m.handle(ev)

		case err, ok := <-w.Errors:
			if !ok {
				m.log.Warn("watcher error channel closed")
				return true
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				m.log.Warn("watcher queue overflowed, re-reading lock file", zap.Error(err))
				m.resync()
				continue
			}
			m.log.Error("watcher failed", zap.Error(err))
			return true
		}
	}
}

func (m *Monitor) rewatch() *fsnotify.Watcher {
	for {
		w, err := m.newWatcher()
		if err == nil {
			m.resync()
			m.log.Info("re-established lock file watch",
				zap.String("path", m.path),
				zap.Bool("present", m.flag.Present()))
			return w
		}
		m.log.Warn("failed to re-establish lock file watch",
			zap.Error(err),
			zap.Duration("retry_in", m.retryDelay))

		select {
		case <-m.done:
			return nil
		case <-time.After(m.retryDelay):
		}
	}
}

func (m *Monitor) dirGone(ev fsnotify.Event) bool {
	return filepath.Clean(ev.Name) == m.dir &&
		(ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename))
}

func (m *Monitor) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != m.path {
		return
	}

	switch {
	case ev.Has(fsnotify.Create):
		m.flag.store(true)
		m.log.Info("lock file created", zap.String("path", m.path))
	case ev.Has(fsnotify.Remove):
		m.flag.store(false)
		m.log.Info("lock file removed", zap.String("path", m.path))
	default:
		m.log.Info("ignoring lock file event",
			zap.String("path", m.path),
			zap.Stringer("op", ev.Op))
	}
}
