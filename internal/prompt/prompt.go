/*
MIT License

# Copyright (c) 2025 OcomSoft

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package prompt abstracts interactive stdin/stdout behind a narrow
// interface so the Deduplicator and Rename Resolver stay unit-testable
// (Design Note: "Interactive prompting").
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Prompter asks the operator a free-text question or a yes/no question.
type Prompter interface {
	Prompt(msg string) (string, error)
	Confirm(msg string) (bool, error)
}

// Console is the real, interactive Prompter, reading from stdin and writing
// colored prompts to stdout the way the teacher's cmd/find_includes.go and
// internal/yaml/sql_converter.go do.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole builds a Console reading from stdin and writing to stdout.
func NewConsole() *Console {
	return &Console{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (c *Console) Prompt(msg string) (string, error) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(c.out, "%s ", cyan(msg))
	line, err := c.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) Confirm(msg string) (bool, error) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(c.out, "%s [y/N] ", yellow(msg))
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Scripted is a fake Prompter for tests: it returns queued responses in
// order and fails the test-visible way (an error) if it runs out.
type Scripted struct {
	Prompts  []string
	Confirms []bool

	promptIdx  int
	confirmIdx int
}

func (s *Scripted) Prompt(_ string) (string, error) {
	if s.promptIdx >= len(s.Prompts) {
		return "", fmt.Errorf("prompt: scripted responses exhausted")
	}
	v := s.Prompts[s.promptIdx]
	s.promptIdx++
	return v, nil
}

func (s *Scripted) Confirm(_ string) (bool, error) {
	if s.confirmIdx >= len(s.Confirms) {
		return false, fmt.Errorf("confirm: scripted responses exhausted")
	}
	v := s.Confirms[s.confirmIdx]
	s.confirmIdx++
	return v, nil
}
