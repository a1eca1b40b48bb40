package checkpoint

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Binary container layout (all integers little-endian):
//
//	magic   [4]byte  "VSNP"
//	version uint16
//	runID   [16]byte
//	step    uint64
//	savedAt int64 (unix nanoseconds)
//	count   uint32
//	count * { nameLen uint16, name []byte,
//	          rank uint8, dims [rank]uint32,
//	          data [prod(dims)]float32 }

var magic = [4]byte{'V', 'S', 'N', 'P'}

const codecVersion uint16 = 1

// maxRank and maxElems bound tensor headers to reject corrupt files early.
const (
	maxRank  = 8
	maxElems = math.MaxInt32 / 4
)

// Encode writes the checkpoint to w in the binary container format.
// Parameters are written in sorted name order so equal states produce
// byte-identical output.
func Encode(w io.Writer, ckpt *Checkpoint) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, codecVersion); err != nil {
		return err
	}
	if _, err := w.Write(ckpt.Meta.RunID[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ckpt.Meta.Step); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ckpt.Meta.SavedAt.UnixNano()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ckpt.State))); err != nil {
		return err
	}

	names := make([]string, 0, len(ckpt.State))
	for name := range ckpt.State {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := ckpt.State[name]
		if t.Len() != len(t.Data) {
			return fmt.Errorf("parameter %q: shape %v does not match %d elements",
				name, t.Shape, len(t.Data))
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(name))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(len(t.Shape))); err != nil {
			return err
		}
		for _, d := range t.Shape {
			if err := binary.Write(w, binary.LittleEndian, uint32(d)); err != nil {
				return err
			}
		}
		buf := make([]byte, 4*len(t.Data))
		for i, f := range t.Data {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a checkpoint from r.
func Decode(r io.Reader) (*Checkpoint, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if m != magic {
		return nil, fmt.Errorf("bad magic %q, not a checkpoint file", m)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != codecVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d", version)
	}

	var ckpt Checkpoint
	var id [16]byte
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return nil, err
	}
	ckpt.Meta.RunID = uuid.UUID(id)
	if err := binary.Read(r, binary.LittleEndian, &ckpt.Meta.Step); err != nil {
		return nil, err
	}
	var nanos int64
	if err := binary.Read(r, binary.LittleEndian, &nanos); err != nil {
		return nil, err
	}
	ckpt.Meta.SavedAt = time.Unix(0, nanos).UTC()

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	ckpt.State = make(State, count)

	for i := uint32(0); i < count; i++ {
		var nameLen uint16
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, err
		}
		nameBuf := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return nil, err
		}
		name := string(nameBuf)

		var rank uint8
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return nil, err
		}
		if rank > maxRank {
			return nil, fmt.Errorf("parameter %q: rank %d exceeds limit", name, rank)
		}
		shape := make([]int, rank)
		n := 1
		for j := range shape {
			var d uint32
			if err := binary.Read(r, binary.LittleEndian, &d); err != nil {
				return nil, err
			}
			shape[j] = int(d)
			if d > 0 && n > maxElems/int(d) {
				return nil, fmt.Errorf("parameter %q: shape %v exceeds element limit", name, shape[:j+1])
			}
			n *= int(d)
		}

		buf := make([]byte, 4*n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("parameter %q: reading data: %w", name, err)
		}
		data := make([]float32, n)
		for j := range data {
			data[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
		}
		ckpt.State[name] = Tensor{Shape: shape, Data: data}
	}
	return &ckpt, nil
}

// Marshal encodes the checkpoint into a byte slice.
func Marshal(ckpt *Checkpoint) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, ckpt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a checkpoint from a byte slice.
func Unmarshal(data []byte) (*Checkpoint, error) {
	return Decode(bytes.NewReader(data))
}
