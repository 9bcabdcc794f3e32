package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

type Render interface {
	Writeln(args ...interface{})
	Writef(format string, args ...interface{})
	Write(args ...interface{})
}

// StdRenderer writes to stdout, or to W when set.
type StdRenderer struct {
	W io.Writer
}

func NewStdRenderer() *StdRenderer {
	return &StdRenderer{W: os.Stdout}
}

func (r *StdRenderer) out() io.Writer {
	if r.W == nil {
		return os.Stdout
	}
	return r.W
}

func (r *StdRenderer) Writef(format string, args ...interface{}) {
	fmt.Fprintf(r.out(), format, args...)
}

func (r *StdRenderer) Writeln(args ...interface{}) {
	fmt.Fprintln(r.out(), args...)
}

func (r *StdRenderer) Write(args ...interface{}) {
	fmt.Fprint(r.out(), args...)
}

// FileRenderer is a renderer that writes output to a file
type FileRenderer struct {
	file   *os.File
	writer *bufio.Writer
}

// NewFileRenderer creates a new instance of FileRenderer
func NewFileRenderer(filename string) (*FileRenderer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &FileRenderer{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (fr *FileRenderer) Writef(format string, args ...interface{}) {
	if fr.writer != nil {
		fmt.Fprintf(fr.writer, format, args...)
	}
}

func (fr *FileRenderer) Write(args ...interface{}) {
	if fr.writer != nil {
		fmt.Fprint(fr.writer, args...)
	}
}

func (fr *FileRenderer) Writeln(args ...interface{}) {
	if fr.writer != nil {
		fmt.Fprintln(fr.writer, args...)
	}
}

// Close flushes and closes the underlying file
func (fr *FileRenderer) Close() error {
	if fr.writer != nil {
		fr.writer.Flush()
		fr.writer = nil
	}

	if fr.file != nil {
		err := fr.file.Close()
		fr.file = nil
		return err
	}

	return nil
}

// GetFilename returns the name of the file being written to
func (fr *FileRenderer) GetFilename() string {
	if fr.file != nil {
		return fr.file.Name()
	}
	return ""
}

// NewRenderer returns a FileRenderer for path, or a StdRenderer when path is
// empty. The returned close function is always safe to call.
func NewRenderer(path string) (Render, func() error, error) {
	if path == "" {
		return NewStdRenderer(), func() error { return nil }, nil
	}
	fr, err := NewFileRenderer(path)
	if err != nil {
		return nil, nil, err
	}
	return fr, fr.Close, nil
}
