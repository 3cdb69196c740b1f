package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames are the Braille animation frames, cycled one per tick.
var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the delay between animation frames.
const spinnerInterval = 80 * time.Millisecond

// Spinner animates a progress line on stderr while a blocking call
// runs, typically a toolchain subprocess or a catalog lookup. The line
// is cleared before the final status message is printed so the two
// never interleave. Cancelling the bound context also clears the line.
type Spinner struct {
	message string
	ctx     context.Context
	stop    chan struct{}
	idle    chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// newSpinnerWithContext creates a spinner bound to ctx. The animation
// ends on Stop or when ctx is cancelled, whichever comes first.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return &Spinner{
		message: message,
		ctx:     ctx,
		stop:    make(chan struct{}),
		idle:    make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.idle)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.stop:
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop halts the animation, waits for the goroutine to exit, and
// clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.idle
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
