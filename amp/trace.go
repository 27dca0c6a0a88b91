package amp

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/nf/intcode/intcode"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("amp: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// RecordKind identifies a trace record.
type RecordKind uint8

const (
	TrialBegin RecordKind = iota + 1
	TrialTurn
	TrialEnd
)

func (k RecordKind) String() string {
	switch k {
	case TrialBegin:
		return "begin"
	case TrialTurn:
		return "turn"
	case TrialEnd:
		return "end"
	}
	return fmt.Sprintf("record(%d)", uint8(k))
}

// Record is one entry of a trace. Trial identifies the trial it belongs
// to, so records of concurrent trials may be interleaved.
type Record struct {
	Kind     RecordKind        `cbor:"1,keyasint"`
	Trial    string            `cbor:"2,keyasint"`
	Phases   []int64           `cbor:"3,keyasint,omitempty"` // TrialBegin
	Feedback bool              `cbor:"4,keyasint,omitempty"` // TrialBegin
	Amp      int               `cbor:"5,keyasint,omitempty"` // TrialTurn
	Event    intcode.EventKind `cbor:"6,keyasint,omitempty"` // TrialTurn
	Value    int64             `cbor:"7,keyasint,omitempty"` // TrialTurn output, TrialEnd signal
	Err      string            `cbor:"8,keyasint,omitempty"` // TrialEnd
}

// TraceWriter writes a stream of CBOR-encoded Records.
// It is safe for concurrent use.
type TraceWriter struct {
	mu  sync.Mutex
	enc *cbor.Encoder
	err error
}

// NewTraceWriter returns a TraceWriter that writes to w.
func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{enc: cborEncMode.NewEncoder(w)}
}

// Err returns the first error encountered while writing.
func (t *TraceWriter) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *TraceWriter) write(r Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	if err := t.enc.Encode(r); err != nil {
		t.err = fmt.Errorf("amp: writing trace: %w", err)
	}
}

// Begin records the start of a trial and returns a handle for recording
// the rest of it.
func (t *TraceWriter) Begin(phases []int64, feedback bool) *Trial {
	tr := &Trial{w: t, id: uuid.NewString()}
	t.write(Record{Kind: TrialBegin, Trial: tr.id, Phases: phases, Feedback: feedback})
	return tr
}

// Trial records the turns of a single trial.
type Trial struct {
	w  *TraceWriter
	id string
}

// ID returns the identifier shared by all records of the trial.
func (tr *Trial) ID() string { return tr.id }

// Turn records one turn.
func (tr *Trial) Turn(t Turn) {
	tr.w.write(Record{
		Kind:  TrialTurn,
		Trial: tr.id,
		Amp:   t.Amp,
		Event: t.Event.Kind,
		Value: t.Event.Value,
	})
}

// End records the outcome of the trial and returns any write error.
func (tr *Trial) End(signal int64, err error) error {
	r := Record{Kind: TrialEnd, Trial: tr.id, Value: signal}
	if err != nil {
		r.Err = err.Error()
	}
	tr.w.write(r)
	return tr.w.Err()
}

// ReadTrace decodes every Record in r.
func ReadTrace(r io.Reader) ([]Record, error) {
	var (
		dec  = cbor.NewDecoder(r)
		recs []Record
	)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return recs, nil
			}
			return recs, fmt.Errorf("amp: reading trace: %w", err)
		}
		recs = append(recs, rec)
	}
}
