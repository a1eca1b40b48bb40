package vecsnap

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// InputKind discriminates the embed input variant.
type InputKind int

const (
	KindNone InputKind = iota
	KindText
	KindImage
)

func (k InputKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "none"
	}
}

// Input is the tagged input to Embed. Construct it with Text or Image; the
// zero value carries no input and is rejected by Embed.
type Input struct {
	kind   InputKind
	texts  []string
	pixels [][]float32
}

// Text builds a text input from one or more raw strings.
func Text(texts ...string) Input {
	return Input{kind: KindText, texts: texts}
}

// Image builds an image input from one or more flattened pixel rows.
func Image(pixels ...[]float32) Input {
	return Input{kind: KindImage, pixels: pixels}
}

// Kind returns the input variant.
func (in Input) Kind() InputKind { return in.kind }

// Texts returns the raw strings of a text input.
func (in Input) Texts() []string { return in.texts }

// Pixels returns the pixel rows of an image input.
func (in Input) Pixels() [][]float32 { return in.pixels }

// Batch returns the number of rows the input will embed to.
func (in Input) Batch() int {
	if in.kind == KindImage {
		return len(in.pixels)
	}
	return len(in.texts)
}

func (in Input) validate() error {
	switch in.kind {
	case KindText:
		if len(in.texts) == 0 {
			return ErrEmptyInput
		}
	case KindImage:
		if len(in.pixels) == 0 {
			return ErrEmptyInput
		}
	default:
		return ErrEmptyInput
	}
	return nil
}

// digest returns a cache key covering the variant and full input content.
func (in Input) digest() string {
	h := sha256.New()
	var kind [1]byte
	kind[0] = byte(in.kind)
	h.Write(kind[:])

	var lenBuf [8]byte
	switch in.kind {
	case KindText:
		for _, t := range in.texts {
			binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(t)))
			h.Write(lenBuf[:])
			h.Write([]byte(t))
		}
	case KindImage:
		buf := make([]byte, 4)
		for _, row := range in.pixels {
			binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(row)))
			h.Write(lenBuf[:])
			for _, v := range row {
				binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
				h.Write(buf)
			}
		}
	}
	return string(h.Sum(nil))
}
