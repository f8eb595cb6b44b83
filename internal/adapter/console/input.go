package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	retryCommand = ":retry"
	quitCommand  = ":quit"
)

// Session receives the user input.
type Session interface {
	OnSearchInput(text string)
	Retry()
}

// InputLoop treats every line read as the current content of the search
// box. The lines ":retry" and ":quit" are commands.
type InputLoop struct {
	r       io.Reader
	session Session
}

func NewInputLoop(r io.Reader, session Session) InputLoop {
	if session == nil {
		panic("console.NewInputLoop: nil session") // develop mistake
	}
	return InputLoop{r, session}
}

// Run reads input until EOF, the quit command or ctx is done.
func (l InputLoop) Run(ctx context.Context) error {
	const op = "InputLoop.Run"
	log := slog.With("op", op)

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(l.r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			log.Info("input closed")
			return nil
		case line := <-lines:
			switch strings.TrimSpace(line) {
			case quitCommand:
				log.Info("quit requested")
				return nil
			case retryCommand:
				l.session.Retry()
			default:
				l.session.OnSearchInput(line)
			}
		}
	}
}
