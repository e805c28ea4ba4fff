package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrAborted is returned when the input stream ends before an answer is given.
var ErrAborted = errors.New("prompt aborted: no input")

// ValidationError rejects an answer. The prompt shows Message and asks again.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TextQuestion describes a free-text prompt.
type TextQuestion struct {
	Message string
	Initial string
	// Validate, when set, is called with the raw answer. Returning an error
	// re-prompts.
	Validate func(string) error
}

// ConfirmQuestion describes a yes/no prompt.
type ConfirmQuestion struct {
	Message  string
	Initial  bool
	Active   string // label for yes, defaults to "yes"
	Inactive string // label for no, defaults to "no"
}

// Prompter asks the user questions. Canceling ctx abandons the question and
// returns ctx.Err().
type Prompter interface {
	AskText(ctx context.Context, q TextQuestion) (string, error)
	AskConfirm(ctx context.Context, q ConfirmQuestion) (bool, error)
}

// Terminal is a line-oriented Prompter over a reader and a writer.
type Terminal struct {
	reader *bufio.Reader
	w      io.Writer
	// pending holds a read still in flight after its question was canceled.
	// The next question takes that line instead of starting a second read.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// New returns a Terminal reading answers from r and writing questions to w.
func New(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(r), w: w}
}

var (
	questionMark = color.New(color.FgCyan, color.Bold).SprintFunc()
	hint         = color.New(color.Faint).SprintFunc()
	invalid      = color.New(color.FgRed).SprintFunc()
)

// AskText prints the question until the answer passes validation. An empty
// line selects the initial value.
func (t *Terminal) AskText(ctx context.Context, q TextQuestion) (string, error) {
	for {
		if q.Initial != "" {
			fmt.Fprintf(t.w, "%s %s %s ", questionMark("?"), q.Message, hint("("+q.Initial+")"))
		} else {
			fmt.Fprintf(t.w, "%s %s ", questionMark("?"), q.Message)
		}

		answer, err := t.readLine(ctx)
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = q.Initial
		}

		if q.Validate != nil {
			if verr := q.Validate(answer); verr != nil {
				fmt.Fprintf(t.w, "%s\n", invalid(verr.Error()))
				continue
			}
		}
		return answer, nil
	}
}

// AskConfirm asks a yes/no question. An empty line selects the initial value.
func (t *Terminal) AskConfirm(ctx context.Context, q ConfirmQuestion) (bool, error) {
	active, inactive := q.Active, q.Inactive
	if active == "" {
		active = "yes"
	}
	if inactive == "" {
		inactive = "no"
	}

	choices := "y/N"
	if q.Initial {
		choices = "Y/n"
	}

	for {
		fmt.Fprintf(t.w, "%s %s %s ", questionMark("?"), q.Message, hint("("+choices+")"))

		answer, err := t.readLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return q.Initial, nil
		case "y", "yes", strings.ToLower(active):
			return true, nil
		case "n", "no", strings.ToLower(inactive):
			return false, nil
		}
		fmt.Fprintf(t.w, "%s\n", invalid(fmt.Sprintf("Please answer %s or %s", active, inactive)))
	}
}

// readLine waits for the next line or for ctx to be done. The blocking read
// runs in its own goroutine; only one read is ever outstanding, so no input
// is consumed before a question asks for it.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	if t.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := t.read()
			ch <- lineResult{line: line, err: err}
		}()
		t.pending = ch
	}

	select {
	case r := <-t.pending:
		t.pending = nil
		if errors.Is(r.err, ErrAborted) {
			fmt.Fprintln(t.w)
		}
		return r.line, r.err
	case <-ctx.Done():
		fmt.Fprintln(t.w)
		return "", ctx.Err()
	}
}

// read returns one line without its line terminator. A final line without a
// newline is accepted; EOF with nothing read is ErrAborted.
func (t *Terminal) read() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
