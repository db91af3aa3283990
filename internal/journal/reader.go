package journal

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
)

// Reader streams records from an io.Reader in append order.
type Reader struct {
	dec *gob.Decoder
}

// NewReader wraps r for record-at-a-time decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: gob.NewDecoder(r)}
}

// Next returns the next record, or io.EOF once the stream is exhausted. A
// decode error other than io.EOF indicates a corrupted record, which spec
// §4.2 and §7 treat as fatal at startup.
func (r *Reader) Next() (*Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("journal: corrupted record: %w", err)
	}
	return &rec, nil
}
