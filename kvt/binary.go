package kvt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"math"
)

// maxPrealloc caps the number of elements (or bytes) allocated up front for
// a length read from the input, so a corrupt count cannot trigger a huge
// allocation before the stream runs dry.
const maxPrealloc = 1 << 16

// Encode writes b in the binary format: the NODE tag followed by the branch
// payload. Children are written in key order, so equal trees encode to equal
// bytes.
func Encode(w io.Writer, b *Branch) error {
	e := &encoder{w: bufio.NewWriter(w)}

	e.byte(TypeNode.BinaryID())
	e.branch(b)

	if e.err != nil {
		return e.err
	}

	if err := e.w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (b *Branch) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	if err := Encode(&buf, b); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// encoder writes through a bufio.Writer, whose sticky error is reported by
// Flush.
type encoder struct {
	w   *bufio.Writer
	buf [8]byte
	err error
}

func (e *encoder) byte(v byte) { _ = e.w.WriteByte(v) }

func (e *encoder) u16(v uint16) {
	binary.BigEndian.PutUint16(e.buf[:2], v)
	_, _ = e.w.Write(e.buf[:2])
}

func (e *encoder) u32(v uint32) {
	binary.BigEndian.PutUint32(e.buf[:4], v)
	_, _ = e.w.Write(e.buf[:4])
}

func (e *encoder) u64(v uint64) {
	binary.BigEndian.PutUint64(e.buf[:8], v)
	_, _ = e.w.Write(e.buf[:8])
}

func (e *encoder) length(n int) {
	if n > math.MaxInt32 && e.err == nil {
		e.err = ErrWriteOutput.With(slog.Int("length", n))
	}

	e.u32(uint32(n)) //nolint:gosec
}

func (e *encoder) string(s string) {
	e.length(len(s))
	_, _ = e.w.WriteString(s)
}

func (e *encoder) branch(b *Branch) {
	if b == nil {
		e.u32(0)

		return
	}

	e.length(b.Len())

	for key, child := range b.All() {
		e.byte(child.Type().BinaryID())
		e.string(key)

		switch n := child.(type) {
		case *Branch:
			e.branch(n)
		case *Scalar:
			e.scalar(n.value)
		case *Array:
			e.length(n.Len())

			for p := range payloadElements(n.values) {
				if sub, ok := p.(*Branch); ok {
					e.branch(sub)
				} else {
					e.scalar(p)
				}
			}
		}
	}
}

func (e *encoder) scalar(p Payload) {
	switch v := p.(type) {
	case Bool:
		if v {
			e.byte(1)
		} else {
			e.byte(0)
		}
	case Byte:
		e.byte(byte(v))
	case Short:
		e.u16(uint16(v))
	case Int:
		e.u32(uint32(v))
	case Long:
		e.u64(uint64(v))
	case Float:
		e.u32(math.Float32bits(float32(v)))
	case Double:
		e.u64(math.Float64bits(float64(v)))
	case String:
		e.string(string(v))
	}
}

// Decode reads one tree in the binary format from r. A truncated stream, an
// unknown tag or a malformed value aborts decoding; no partial tree is
// returned.
func Decode(r io.Reader, opts ...Option) (*Branch, error) {
	o := makeOptions(opts...)

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	d := &decoder{r: br, maxDepth: o.maxDepth}

	tag, err := d.byte()
	if err != nil {
		return nil, err
	}

	if tag != TypeNode.BinaryID() {
		return nil, ErrDecodeUnknownTag.With(
			slog.Int("tag", int(tag)),
			slog.String("reason", "root is not a NODE"),
		)
	}

	root, err := d.branch()
	if err != nil {
		return nil, err
	}

	o.logger.Trace("decode complete", slog.Int("children", root.Len()))

	return root, nil
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler]. The data must
// hold exactly one tree.
func (b *Branch) UnmarshalBinary(data []byte) error {
	r := bufio.NewReader(bytes.NewReader(data))

	root, err := Decode(r)
	if err != nil {
		return err
	}

	if _, err := r.Peek(1); err == nil {
		return ErrDecodeInvalid.With(slog.String("reason", "trailing data"))
	}

	*b = *root

	return nil
}

type decoder struct {
	r        *bufio.Reader
	buf      [8]byte
	depth    int
	maxDepth int
}

func readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrDecodeTruncated.Wrap(err)
	}

	return ErrReadInput.Wrap(err)
}

func (d *decoder) full(n int) ([]byte, error) {
	if _, err := io.ReadFull(d.r, d.buf[:n]); err != nil {
		return nil, readError(err)
	}

	return d.buf[:n], nil
}

func (d *decoder) byte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, readError(err)
	}

	return b, nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.full(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.full(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.full(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

func (d *decoder) length() (int, error) {
	n, err := d.u32()
	if err != nil {
		return 0, err
	}

	if n > math.MaxInt32 {
		return 0, ErrDecodeInvalid.With(slog.Uint64("length", uint64(n)))
	}

	return int(n), nil
}

func (d *decoder) string() (string, error) {
	n, err := d.length()
	if err != nil {
		return "", err
	}

	if n <= maxPrealloc {
		b := make([]byte, n)
		if _, err := io.ReadFull(d.r, b); err != nil {
			return "", readError(err)
		}

		return string(b), nil
	}

	var sb bytes.Buffer

	copied, err := io.CopyN(&sb, d.r, int64(n))
	if err != nil || copied < int64(n) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}

		return "", readError(err)
	}

	return sb.String(), nil
}

func (d *decoder) branch() (*Branch, error) {
	d.depth++
	defer func() { d.depth-- }()

	if d.depth > d.maxDepth {
		return nil, ErrDecodeInvalid.With(slog.Int("max_depth", d.maxDepth))
	}

	n, err := d.length()
	if err != nil {
		return nil, err
	}

	b := NewBranch()

	for range n {
		tag, err := d.byte()
		if err != nil {
			return nil, err
		}

		t, err := FromBinaryID(tag)
		if err != nil {
			return nil, ErrDecodeUnknownTag.Wrap(err).With(slog.Int("tag", int(tag)))
		}

		name, err := d.string()
		if err != nil {
			return nil, err
		}

		child, err := d.node(t)
		if err != nil {
			return nil, err
		}

		b.insert(name, child)
	}

	return b, nil
}

func (d *decoder) node(t NodeType) (Node, error) {
	switch {
	case t == TypeNode:
		return d.branch()

	case t.IsArray():
		p, err := d.array(t)
		if err != nil {
			return nil, err
		}

		return &Array{typ: t, values: p}, nil

	default:
		p, err := d.scalar(t)
		if err != nil {
			return nil, err
		}

		return &Scalar{typ: t, value: p}, nil
	}
}

func (d *decoder) scalar(t NodeType) (Payload, error) {
	switch t {
	case TypeBoolean:
		b, err := d.byte()
		if err != nil {
			return nil, err
		}

		if b > 1 {
			return nil, ErrDecodeInvalid.With(slog.Int("boolean", int(b)))
		}

		return Bool(b == 1), nil

	case TypeByte:
		b, err := d.byte()

		return Byte(int8(b)), err //nolint:gosec

	case TypeShort:
		v, err := d.u16()

		return Short(int16(v)), err //nolint:gosec

	case TypeInteger:
		v, err := d.u32()

		return Int(int32(v)), err //nolint:gosec

	case TypeLong:
		v, err := d.u64()

		return Long(int64(v)), err //nolint:gosec

	case TypeFloat:
		v, err := d.u32()

		return Float(math.Float32frombits(v)), err

	case TypeDouble:
		v, err := d.u64()

		return Double(math.Float64frombits(v)), err

	case TypeString:
		s, err := d.string()

		return String(s), err

	default:
		return nil, ErrDecodeUnknownTag.With(slog.Any("type", t))
	}
}

func (d *decoder) array(t NodeType) (Payload, error) {
	n, err := d.length()
	if err != nil {
		return nil, err
	}

	if t == TypeNodeArray {
		nodes := make(NodeArray, 0, min(n, maxPrealloc))

		for range n {
			b, err := d.branch()
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, b)
		}

		return nodes, nil
	}

	elem := t.Element()

	switch t {
	case TypeBooleanArray:
		return decodeElements[bool](d, elem, n)
	case TypeByteArray:
		return decodeElements[int8](d, elem, n)
	case TypeShortArray:
		return decodeElements[int16](d, elem, n)
	case TypeIntegerArray:
		return decodeElements[int32](d, elem, n)
	case TypeLongArray:
		return decodeElements[int64](d, elem, n)
	case TypeFloatArray:
		return decodeElements[float32](d, elem, n)
	case TypeDoubleArray:
		return decodeElements[float64](d, elem, n)
	case TypeStringArray:
		return decodeElements[string](d, elem, n)
	default:
		return nil, ErrDecodeUnknownTag.With(slog.Any("type", t))
	}
}

func decodeElements[T any](d *decoder, elem NodeType, n int) (Payload, error) {
	out := make([]T, 0, min(n, maxPrealloc))

	for range n {
		p, err := d.scalar(elem)
		if err != nil {
			return nil, err
		}

		v, _ := hostValue(p).(T)
		out = append(out, v)
	}

	return arrayPayload(out), nil
}
