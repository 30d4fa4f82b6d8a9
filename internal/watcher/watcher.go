package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bozoyan/asrtools/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Handler processes one settled file.
type Handler interface {
	Handle(path string) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(path string) error

func (f HandlerFunc) Handle(path string) error {
	return f(path)
}

type pendingFile struct {
	timer *time.Timer
}

// FolderWatcher reports files in a single directory once they stop changing.
// Every create or write event restarts the file's debounce timer, so the
// handler runs once per burst of writes.
type FolderWatcher struct {
	watcher      *fsnotify.Watcher
	folderPath   string
	extensions   map[string]bool
	handler      Handler
	debounceTime time.Duration
	logger       *logging.Logger

	mutex        sync.Mutex
	pendingFiles map[string]*pendingFile
	inFlight     sync.WaitGroup
	started      bool
	stopOnce     sync.Once
	stopChan     chan struct{}
	done         chan struct{}
}

func New(
	folderPath string,
	extensions []string,
	handler Handler,
	debounceTime time.Duration,
	logger *logging.Logger,
) (*FolderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}

	return &FolderWatcher{
		watcher:      w,
		folderPath:   folderPath,
		extensions:   exts,
		handler:      handler,
		debounceTime: debounceTime,
		logger:       logging.OrNop(logger),
		pendingFiles: make(map[string]*pendingFile),
		stopChan:     make(chan struct{}),
		done:         make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (m *FolderWatcher) Start() error {
	info, err := os.Stat(m.folderPath)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", m.folderPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", m.folderPath)
	}

	if err := m.watcher.Add(m.folderPath); err != nil {
		return fmt.Errorf("failed to watch folder: %w", err)
	}

	m.started = true
	go m.watchLoop()

	m.logger.Infow("Watching folder",
		"folder", m.folderPath,
		"debounce", m.debounceTime,
	)
	return nil
}

// Stop cancels pending timers and waits for running handlers to finish.
// It is safe to call more than once, and on a watcher that never started.
func (m *FolderWatcher) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		_ = m.watcher.Close()
		if m.started {
			<-m.done
		}

		m.mutex.Lock()
		for path, pending := range m.pendingFiles {
			if pending.timer.Stop() {
				m.inFlight.Done()
			}
			delete(m.pendingFiles, path)
		}
		m.mutex.Unlock()

		m.inFlight.Wait()
		m.logger.Infow("Stopped watching folder", "folder", m.folderPath)
	})
}

// Run watches until ctx is done.
func (m *FolderWatcher) Run(ctx context.Context) error {
	if err := m.Start(); err != nil {
		m.Stop()
		return err
	}
	<-ctx.Done()
	m.Stop()
	return nil
}

func (m *FolderWatcher) watchLoop() {
	defer close(m.done)
	for {
		select {
		case <-m.stopChan:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleFileEvent(event)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Errorw("Watcher error", "error", err)
		}
	}
}

func (m *FolderWatcher) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	filePath := event.Name
	if !m.isTargetFile(filePath) {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	select {
	case <-m.stopChan:
		return
	default:
	}

	if pending, exists := m.pendingFiles[filePath]; exists {
		if pending.timer.Stop() {
			m.inFlight.Done()
		}
	}

	m.inFlight.Add(1)
	pending := &pendingFile{}
	pending.timer = time.AfterFunc(m.debounceTime, func() {
		defer m.inFlight.Done()
		m.processFile(filePath, pending)
	})
	m.pendingFiles[filePath] = pending

	m.logger.Debugw("File changed", "file", filePath, "op", event.Op.String())
}

func (m *FolderWatcher) isTargetFile(filePath string) bool {
	if !m.extensions[strings.ToLower(filepath.Ext(filePath))] {
		return false
	}
	info, err := os.Stat(filePath)
	return err == nil && info.Mode().IsRegular()
}

// processFile runs the handler for a fired timer. The pending entry is
// removed only if it still belongs to that timer; a newer event may have
// replaced it while the callback waited for the lock.
func (m *FolderWatcher) processFile(filePath string, fired *pendingFile) {
	m.mutex.Lock()
	if m.pendingFiles[filePath] == fired {
		delete(m.pendingFiles, filePath)
	}
	m.mutex.Unlock()

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return
	}

	if err := m.handler.Handle(filePath); err != nil {
		m.logger.Warnw("Failed to process file",
			"file", filePath,
			"error", err,
		)
	}
}
