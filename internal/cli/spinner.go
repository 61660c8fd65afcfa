package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// spinner animates a status line with the elapsed time while a detection
// or render pass runs. It draws on stderr so piped output stays clean, and
// stops on its own when ctx is cancelled.
type spinner struct {
	w     io.Writer
	label string
	begin time.Time

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int // runes of the last frame, for clearing
}

func newSpinner(label string) *spinner {
	return newSpinnerWithContext(context.Background(), label)
}

func newSpinnerWithContext(ctx context.Context, label string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       os.Stderr,
		label:   label,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins drawing. Call it at most once.
func (s *spinner) Start() {
	s.begin = time.Now()
	go s.loop()
}

func (s *spinner) loop() {
	defer close(s.stopped)
	t := time.NewTicker(spinnerTick)
	defer t.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-t.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	elapsed := time.Since(s.begin).Truncate(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s", s.label, elapsed)

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
	s.width = len([]rune(line)) + 2
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

// Stop halts the animation and clears the line. Repeated calls are no-ops.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if !s.begin.IsZero() {
			<-s.stopped
		}
		s.clear()
	})
}

// StopWithSuccess stops and prints msg as a success line.
func (s *spinner) StopWithSuccess(msg string) {
	s.Stop()
	printSuccess("%s", msg)
}

// StopWithError stops and prints msg as an error line.
func (s *spinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the parent context ended the spinner.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// spin runs fn behind a spinner labelled label. On failure the line is
// replaced with "<label> failed".
func spin(ctx context.Context, label string, fn func() error) error {
	s := newSpinnerWithContext(ctx, label)
	s.Start()
	if err := fn(); err != nil {
		s.StopWithError(strings.TrimSuffix(label, "...") + " failed")
		return err
	}
	s.Stop()
	return nil
}
