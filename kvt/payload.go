package kvt

import "iter"

// Payload is a value that can be stored under a key of a [Branch]. The set of
// implementations is closed: one scalar type per scalar kind, [*Branch] for
// NODE, and one slice type per array kind.
type Payload interface {
	payloadType() NodeType
}

type (
	Bool   bool
	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	String string

	BoolArray   []bool
	ByteArray   []int8
	ShortArray  []int16
	IntArray    []int32
	LongArray   []int64
	FloatArray  []float32
	DoubleArray []float64
	StringArray []string
	NodeArray   []*Branch
)

func (Bool) payloadType() NodeType    { return TypeBoolean }
func (Byte) payloadType() NodeType    { return TypeByte }
func (Short) payloadType() NodeType   { return TypeShort }
func (Int) payloadType() NodeType     { return TypeInteger }
func (Long) payloadType() NodeType    { return TypeLong }
func (Float) payloadType() NodeType   { return TypeFloat }
func (Double) payloadType() NodeType  { return TypeDouble }
func (String) payloadType() NodeType  { return TypeString }
func (*Branch) payloadType() NodeType { return TypeNode }

func (BoolArray) payloadType() NodeType   { return TypeBooleanArray }
func (ByteArray) payloadType() NodeType   { return TypeByteArray }
func (ShortArray) payloadType() NodeType  { return TypeShortArray }
func (IntArray) payloadType() NodeType    { return TypeIntegerArray }
func (LongArray) payloadType() NodeType   { return TypeLongArray }
func (FloatArray) payloadType() NodeType  { return TypeFloatArray }
func (DoubleArray) payloadType() NodeType { return TypeDoubleArray }
func (StringArray) payloadType() NodeType { return TypeStringArray }
func (NodeArray) payloadType() NodeType   { return TypeNodeArray }

// PayloadType returns the node type of p, or [TypeInvalid] for nil.
func PayloadType(p Payload) NodeType {
	switch v := p.(type) {
	case Bool, Byte, Short, Int, Long, Float, Double, String:
		return v.payloadType()
	case *Branch:
		if v == nil {
			return TypeInvalid
		}

		return TypeNode
	case BoolArray, ByteArray, ShortArray, IntArray, LongArray,
		FloatArray, DoubleArray, StringArray, NodeArray:
		return v.payloadType()
	default:
		return TypeInvalid
	}
}

// hostValue returns the plain Go value carried by p: bool, int8, int16,
// int32, int64, float32, float64, string, *Branch or a slice of those.
func hostValue(p Payload) any {
	switch v := p.(type) {
	case Bool:
		return bool(v)
	case Byte:
		return int8(v)
	case Short:
		return int16(v)
	case Int:
		return int32(v)
	case Long:
		return int64(v)
	case Float:
		return float32(v)
	case Double:
		return float64(v)
	case String:
		return string(v)
	case *Branch:
		return v
	case BoolArray:
		return []bool(v)
	case ByteArray:
		return []int8(v)
	case ShortArray:
		return []int16(v)
	case IntArray:
		return []int32(v)
	case LongArray:
		return []int64(v)
	case FloatArray:
		return []float32(v)
	case DoubleArray:
		return []float64(v)
	case StringArray:
		return []string(v)
	case NodeArray:
		return []*Branch(v)
	default:
		return nil
	}
}

// arrayLen returns the element count of an array payload.
func arrayLen(p Payload) int {
	switch v := p.(type) {
	case BoolArray:
		return len(v)
	case ByteArray:
		return len(v)
	case ShortArray:
		return len(v)
	case IntArray:
		return len(v)
	case LongArray:
		return len(v)
	case FloatArray:
		return len(v)
	case DoubleArray:
		return len(v)
	case StringArray:
		return len(v)
	case NodeArray:
		return len(v)
	default:
		return 0
	}
}

// payloadElements returns an iterator over the elements of an array payload,
// each as a scalar payload. NODE_ARRAY elements are yielded as *Branch.
func payloadElements(p Payload) iter.Seq[Payload] {
	return func(yield func(Payload) bool) {
		switch v := p.(type) {
		case BoolArray:
			each(v, func(x bool) Payload { return Bool(x) }, yield)
		case ByteArray:
			each(v, func(x int8) Payload { return Byte(x) }, yield)
		case ShortArray:
			each(v, func(x int16) Payload { return Short(x) }, yield)
		case IntArray:
			each(v, func(x int32) Payload { return Int(x) }, yield)
		case LongArray:
			each(v, func(x int64) Payload { return Long(x) }, yield)
		case FloatArray:
			each(v, func(x float32) Payload { return Float(x) }, yield)
		case DoubleArray:
			each(v, func(x float64) Payload { return Double(x) }, yield)
		case StringArray:
			each(v, func(x string) Payload { return String(x) }, yield)
		case NodeArray:
			each(v, func(x *Branch) Payload { return x }, yield)
		}
	}
}

func each[T any](s []T, wrap func(T) Payload, yield func(Payload) bool) {
	for _, x := range s {
		if !yield(wrap(x)) {
			return
		}
	}
}
