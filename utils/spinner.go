package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/term"
)

// Spinner shows a progress indicator while the detection models are loading.
type Spinner struct {
	mu         sync.Mutex
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	StopMsg    string
	animate    bool
	stopChan   chan struct{}
	done       chan struct{}
}

// NewSpinner instantiates a new progress indicator writing to stderr.
// The animation is turned off when stderr is not attached to a terminal.
func NewSpinner(msg string, d time.Duration) *Spinner {
	return &Spinner{
		delay:    d,
		writer:   os.Stderr,
		message:  msg,
		animate:  IsTerminal(os.Stderr),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Start starts the progress indicator.
func (s *Spinner) Start() {
	if !s.animate {
		fmt.Fprintln(s.writer, s.message)
		close(s.done)
		return
	}
	if runtime.GOOS != "windows" {
		// hides the cursor
		fmt.Fprint(s.writer, "\033[?25l")
	}

	go func() {
		defer close(s.done)
		for {
			for _, r := range `⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏` {
				select {
				case <-s.stopChan:
					return
				case <-time.After(s.delay):
					s.mu.Lock()
					output := fmt.Sprintf("\r%s%s %c%s", s.message, SuccessColor, r, DefaultColor)
					fmt.Fprint(s.writer, output)
					s.lastOutput = output
					s.mu.Unlock()
				}
			}
		}
	}()
}

// Stop stops the progress indicator and prints the stop message, if any.
func (s *Spinner) Stop() {
	if s.animate {
		close(s.stopChan)
	}
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.animate {
		s.clear()
		s.RestoreCursor()
	}
	if len(s.StopMsg) > 0 {
		fmt.Fprintln(s.writer, s.StopMsg)
	}
}

// RestoreCursor restores back the cursor visibility.
func (s *Spinner) RestoreCursor() {
	if s.animate && runtime.GOOS != "windows" {
		// makes the cursor visible
		fmt.Fprint(s.writer, "\033[?25h")
	}
}

// clear deletes the last line. Caller must hold the the locker.
func (s *Spinner) clear() {
	n := utf8.RuneCountInString(s.lastOutput)
	if runtime.GOOS == "windows" {
		clearString := "\r" + strings.Repeat(" ", n) + "\r"
		fmt.Fprint(s.writer, clearString)
		s.lastOutput = ""
		return
	}
	fmt.Fprint(s.writer, "\r\033[K") // clear line
	s.lastOutput = ""
}
