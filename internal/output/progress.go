package output

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const (
	spinnerCharacterSet = 14
	spinnerInterval     = 100 * time.Millisecond
)

// Progress shows an elapsed-time spinner while an analysis runs.
type Progress struct {
	spinner   *spinner.Spinner
	message   string
	startTime time.Time
	stopChan  chan struct{}
	waitGroup sync.WaitGroup
	mutex     sync.Mutex
	started   bool
	stopped   bool
}

// NewProgress creates a spinner that writes to file, normally stderr.
// Nothing is drawn when file is not a terminal.
func NewProgress(file *os.File, message string) *Progress {
	indicator := spinner.New(spinner.CharSets[spinnerCharacterSet], spinnerInterval, spinner.WithWriterFile(file))
	indicator.Suffix = fmt.Sprintf(" %s (0.0s)", message)
	return &Progress{
		spinner:  indicator,
		message:  message,
		stopChan: make(chan struct{}),
	}
}

// Start begins the animation.
func (progress *Progress) Start() {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()
	if progress.started || progress.stopped {
		return
	}
	progress.started = true
	progress.startTime = time.Now()
	progress.spinner.Start()

	progress.waitGroup.Add(1)
	go func() {
		defer progress.waitGroup.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-progress.stopChan:
				return
			case <-ticker.C:
				elapsed := time.Since(progress.startTime).Seconds()
				progress.spinner.Lock()
				progress.spinner.Suffix = fmt.Sprintf(" %s (%.1fs)", progress.message, elapsed)
				progress.spinner.Unlock()
			}
		}
	}()
}

// Stop halts the animation and clears the line. It is safe to call more than once.
func (progress *Progress) Stop() {
	progress.mutex.Lock()
	if progress.stopped {
		progress.mutex.Unlock()
		return
	}
	progress.stopped = true
	started := progress.started
	progress.mutex.Unlock()

	close(progress.stopChan)
	if !started {
		return
	}
	progress.waitGroup.Wait()
	progress.spinner.Stop()
}
