package wasi

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Environment is the captured configuration the emulation layer closes
// over: a synthetic argument list and environment-variable map, plus
// the host streams backing standard I/O. Args and env are immutable
// once the environment is handed to a Host and exist only to answer
// the corresponding WASI queries.
//
// The zero-value configuration reports no arguments and no environment
// variables; host process state is never inherited implicitly.
type Environment struct {
	args   []string
	env    map[string]string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewEnvironment returns an empty sandbox environment wired to the
// process's standard streams.
func NewEnvironment() *Environment {
	return &Environment{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithArgs sets the synthetic argument list.
func (e *Environment) WithArgs(args ...string) *Environment {
	e.args = append([]string(nil), args...)
	return e
}

// WithEnv sets the synthetic environment variables.
func (e *Environment) WithEnv(env map[string]string) *Environment {
	e.env = make(map[string]string, len(env))
	for k, v := range env {
		e.env[k] = v
	}
	return e
}

// WithStdin redirects guest standard input.
func (e *Environment) WithStdin(r io.Reader) *Environment {
	e.stdin = r
	return e
}

// WithStdout redirects guest standard output.
func (e *Environment) WithStdout(w io.Writer) *Environment {
	e.stdout = w
	return e
}

// WithStderr redirects guest standard error.
func (e *Environment) WithStderr(w io.Writer) *Environment {
	e.stderr = w
	return e
}

// Stdin returns the guest standard input reader.
func (e *Environment) Stdin() io.Reader {
	return e.stdin
}

// Stdout returns the guest standard output writer.
func (e *Environment) Stdout() io.Writer {
	return e.stdout
}

// Stderr returns the guest standard error writer.
func (e *Environment) Stderr() io.Writer {
	return e.stderr
}

// Args returns the argument list.
func (e *Environment) Args() []string {
	return e.args
}

// EnvPairs returns environment entries as KEY=VALUE strings in a
// stable order.
func (e *Environment) EnvPairs() []string {
	if len(e.env) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(e.env))
	for k, v := range e.env {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(pairs)
	return pairs
}

// byteSize returns the buffer size needed to serialize values as
// NUL-terminated strings.
func byteSize(values []string) uint32 {
	var n uint32
	for _, v := range values {
		n += uint32(len(v)) + 1
	}
	return n
}
