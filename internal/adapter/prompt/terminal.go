package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	domainService "namereg/internal/domain/service"
)

// Compile-time check
var _ domainService.Prompter = (*Terminal)(nil)

// Terminal asks for a choice on a line-oriented terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a terminal prompter reading answers from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Choose implements domainService.Prompter. An empty answer, EOF or an answer
// that is not a listed number dismisses the prompt.
func (t *Terminal) Choose(ctx context.Context, requested string, candidates []string) (string, bool) {
	fmt.Fprintf(t.out, "Name %s does already exist\n", requested)
	fmt.Fprintln(t.out, "Choose a suggested name:")
	for i, c := range candidates {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, c)
	}
	fmt.Fprint(t.out, "Enter a number (empty to cancel): ")

	lines := make(chan string, 1)
	go func() {
		line, _ := t.in.ReadString('\n')
		lines <- line
	}()

	var line string
	select {
	case line = <-lines:
	case <-ctx.Done():
		return "", false
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(candidates) {
		return "", false
	}
	return candidates[n-1], true
}
