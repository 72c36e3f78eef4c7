package frame

import (
	"context"
	"errors"
	"io"
)

const readBufferSize = 256

// Pump copies r into f until EOF, a read error or ctx is done. The
// unterminated tail left at EOF is discarded, never dispatched. EOF returns
// nil.
//
// Cancelling ctx does not interrupt a blocked Read; close the reader to
// unblock it.
func Pump(ctx context.Context, r io.Reader, f *Framer) error {
	defer f.Reset()

	buf := make([]byte, readBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			f.Ingest(string(buf[:n]))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
