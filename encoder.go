// SPDX-License-Identifier: MIT
//
// The streaming Encoder keeps one flat growing dictionary buffer rather
// than a ring buffer: the match finder's table layout addresses positions
// directly by absolute offset, and a ring buffer's wraparound would need
// every stored link to carry a modulus instead of a plain index. See
// DESIGN.md for the tradeoff.

package flzma2

// Compress encodes src in one shot. opts may be nil (preset level 6).
func Compress(src []byte, opts *Options) ([]byte, error) {
	enc, err := NewEncoder(opts)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	out, status, err := enc.Encode(src, ActionFinish)
	if err != nil {
		return nil, err
	}
	if status != StatusStreamEnd {
		return nil, newError(KindProgram, errCanceled)
	}
	return out, nil
}

// Encoder is a reusable LZMA2 encoder: an RMF match table and dictionary
// buffer sized per Options, plus the adaptive probability model. Encode may
// be called multiple times with ActionRun to accumulate source bytes
// without emitting output; any other action flushes everything accumulated
// so far as LZMA2 chunks.
type Encoder struct {
	opts *Options
	rt   *rmfTable
	state *lzmaState

	dict         []byte
	pendingStart int
	scratch      []byte

	closed  bool
	flushed bool
}

// NewEncoder allocates an Encoder for opts (nil selects preset level 6).
func NewEncoder(opts *Options) (*Encoder, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	v, err := opts.validate()
	if err != nil {
		return nil, err
	}
	return &Encoder{
		opts:    v,
		rt:      newRMFTable(v.DictSize, v.Depth, v.DivideAndConquer),
		state:   newLZMAState(v.LC, v.LP, v.PB),
		scratch: make([]byte, tempBufferSize),
	}, nil
}

// Close releases the encoder. Further Encode calls return a program error.
func (enc *Encoder) Close() error {
	enc.closed = true
	return nil
}

// Encode appends src to the encoder's dictionary buffer and, unless action
// is ActionRun, runs the BUILD then ENC phases over everything accumulated
// since the last flush, returning the LZMA2 chunk bytes produced by this
// call. ActionFinish additionally appends the LZMA2 end-of-stream marker
// and returns StatusStreamEnd.
func (enc *Encoder) Encode(src []byte, action Action) ([]byte, Status, error) {
	if enc.closed {
		return nil, StatusProgError, newError(KindProgram, errCanceled)
	}
	if enc.flushed {
		return nil, StatusProgError, newError(KindProgram, errCanceled)
	}

	enc.dict = append(enc.dict, src...)
	if action == ActionRun {
		return nil, StatusOK, nil
	}

	block := dataBlock{data: enc.dict, start: enc.pendingStart, end: len(enc.dict)}
	var out []byte

	if block.end > block.start {
		initTable(enc.rt, enc.dict, block.end)
		if err := runBuildPhase(enc.rt, enc.opts.Threads, block); err != nil {
			if e, ok := err.(*Error); ok {
				return nil, StatusTimedOut, e
			}
			return nil, StatusProgError, newError(KindProgram, err)
		}
		enc.rt.limitLengths(block.end)

		out = encodeLZMA2Chunks(out, enc.scratch, enc.state, enc.rt, enc.dict, block.start, block.end,
			enc.opts.Mode, enc.opts.NiceLen, enc.pendingStart == 0)
		enc.pendingStart = block.end
	}

	status := StatusOK
	if action == ActionFinish {
		out = append(out, 0x00)
		enc.flushed = true
		status = StatusStreamEnd
	}
	return out, status, nil
}
