package lspserver

import (
	"io"
	"os"
)

// Stdio adapts the process's stdin/stdout pair into the single
// io.ReadWriteCloser the JSON-RPC stream wants.
type Stdio struct{}

func (Stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (Stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (Stdio) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

var _ io.ReadWriteCloser = Stdio{}
