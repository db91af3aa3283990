package journal

import (
	"io"
)

// Apply is invoked by Replay for every record that is either outside a
// transaction or inside a committed one. Implementations install inodes
// and dependencies into a namespace/lineage graph and bump their id
// counters; see spec §4.2's recovery steps.
type Apply func(rec *Record) error

// Replay streams every record from r and calls apply for each one that
// takes effect, resolving spec §9's atomicity open question: records
// between a TxnBegin and its matching TxnCommit are buffered and only
// handed to apply once the commit marker is seen. If the stream ends with
// an open transaction (a torn tail — the master crashed mid-operation),
// the buffered records are discarded rather than applied, so a partial
// create/delete/rename never corrupts the recovered namespace.
func Replay(r io.Reader, apply Apply) error {
	reader := NewReader(r)

	var pending []*Record
	inTxn := false

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch rec.Kind {
		case KindTxnBegin:
			inTxn = true
			pending = pending[:0]
		case KindTxnCommit:
			for _, p := range pending {
				if err := apply(p); err != nil {
					return err
				}
			}
			pending = nil
			inTxn = false
		default:
			if inTxn {
				pending = append(pending, rec)
			} else if err := apply(rec); err != nil {
				return err
			}
		}
	}

	// A torn trailing TxnBegin with no TxnCommit is discarded: pending is
	// simply dropped here, never applied.
	return nil
}
