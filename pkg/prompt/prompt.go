package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Question is a free-text question with a default answer.
type Question struct {
	Message string
	Default string
}

// Prompter asks the operator a question and blocks until it is answered.
type Prompter interface {
	Ask(ctx context.Context, q Question) (string, error)
}

// LinePrompter reads answers line by line. An empty line selects the default.
type LinePrompter struct {
	reader *bufio.Reader
	Writer io.Writer
}

// NewLinePrompter creates a prompter reading from r and writing questions to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(r), Writer: w}
}

func (p *LinePrompter) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if q.Default != "" {
		_, _ = fmt.Fprintf(p.Writer, "%s (%s) ", q.Message, q.Default)
	} else {
		_, _ = fmt.Fprintf(p.Writer, "%s ", q.Message)
	}

	answer, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && answer != "") {
		return "", fmt.Errorf("reading answer to %q: %w", q.Message, err)
	}

	return orDefault(answer, q.Default), nil
}

// Static answers every question with its default without asking.
type Static struct{}

func (Static) Ask(_ context.Context, q Question) (string, error) {
	return q.Default, nil
}

func orDefault(answer, def string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def
	}
	return answer
}
