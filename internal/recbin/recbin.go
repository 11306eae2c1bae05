// Package recbin reads and writes the REZI binary encoding of FLWarrior
// records. It wraps the rezi primitives so that record types can encode their
// fields in sequence without checking an error after every one.
package recbin

import (
	"encoding"
	"fmt"

	"github.com/dekarrin/rezi"
)

// Writer accumulates encoded values.
type Writer struct {
	data []byte
}

func (w *Writer) String(s string) {
	w.data = append(w.data, rezi.EncString(s)...)
}

func (w *Writer) Int(i int) {
	w.data = append(w.data, rezi.EncInt(i)...)
}

func (w *Writer) Bool(b bool) {
	w.data = append(w.data, rezi.EncBool(b)...)
}

// Strings writes the length of sl followed by each element.
func (w *Writer) Strings(sl []string) {
	w.Int(len(sl))
	for _, s := range sl {
		w.String(s)
	}
}

// Binary writes a nested value that encodes itself.
func (w *Writer) Binary(b encoding.BinaryMarshaler) {
	w.data = append(w.data, rezi.EncBinary(b)...)
}

// Bytes returns everything written so far.
func (w *Writer) Bytes() []byte {
	return w.data
}

// Reader decodes values in the order they were written. After the first
// failure every subsequent read returns a zero value, and Err reports the
// failure.
type Reader struct {
	data []byte
	err  error
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) fail(what string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("decoding %s: %w", what, err)
	}
}

func (r *Reader) String(what string) string {
	if r.err != nil {
		return ""
	}
	s, n, err := rezi.DecString(r.data)
	if err != nil {
		r.fail(what, err)
		return ""
	}
	r.data = r.data[n:]
	return s
}

func (r *Reader) Int(what string) int {
	if r.err != nil {
		return 0
	}
	i, n, err := rezi.DecInt(r.data)
	if err != nil {
		r.fail(what, err)
		return 0
	}
	r.data = r.data[n:]
	return i
}

func (r *Reader) Bool(what string) bool {
	if r.err != nil {
		return false
	}
	b, n, err := rezi.DecBool(r.data)
	if err != nil {
		r.fail(what, err)
		return false
	}
	r.data = r.data[n:]
	return b
}

// Count reads a length written by Writer.Strings or by a record encoding a
// list of its own. A negative count is an error.
func (r *Reader) Count(what string) int {
	n := r.Int(what + " count")
	if n < 0 {
		r.fail(what, fmt.Errorf("count < 0"))
		return 0
	}
	return n
}

func (r *Reader) Strings(what string) []string {
	n := r.Count(what)
	if r.err != nil {
		return nil
	}
	sl := make([]string, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		sl = append(sl, r.String(what))
	}
	return sl
}

// Binary reads a nested value written with Writer.Binary into b.
func (r *Reader) Binary(what string, b encoding.BinaryUnmarshaler) {
	if r.err != nil {
		return
	}
	n, err := rezi.DecBinary(r.data, b)
	if err != nil {
		r.fail(what, err)
		return
	}
	r.data = r.data[n:]
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}
