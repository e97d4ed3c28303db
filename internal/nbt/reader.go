package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader decodes NBT from a byte stream. It supports both the disk format (every
// tag, including the root, carries a name) and the "network NBT" variant used on the
// wire since 1.20.2, where the root tag's name is omitted.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (r *Reader) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *Reader) readByteRaw() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) readShortRaw() (int16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (r *Reader) readIntRaw() (int32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (r *Reader) readLongRaw() (int64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (r *Reader) readStringRaw() (string, error) {
	n, err := r.readShortRaw()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := r.readN(int(uint16(n)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadTag reads one fully-typed tag: its type byte, its name (unless network is true,
// in which case the root carries no name), and its payload. name is "" when network is
// true or when the tag itself is TypeEnd.
func (r *Reader) ReadTag(network bool) (tag Tag, name string, err error) {
	typeByte, err := r.readByteRaw()
	if err != nil {
		return nil, "", err
	}
	t := Type(typeByte)
	if t == TypeEnd {
		return End{}, "", nil
	}
	if !network {
		name, err = r.readStringRaw()
		if err != nil {
			return nil, "", err
		}
	}
	tag, err = r.readPayload(t)
	if err != nil {
		return nil, "", err
	}
	return tag, name, nil
}

func (r *Reader) readPayload(t Type) (Tag, error) {
	switch t {
	case TypeByte:
		b, err := r.readByteRaw()
		if err != nil {
			return nil, err
		}
		return Byte(int8(b)), nil
	case TypeShort:
		v, err := r.readShortRaw()
		if err != nil {
			return nil, err
		}
		return Short(v), nil
	case TypeInt:
		v, err := r.readIntRaw()
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case TypeLong:
		v, err := r.readLongRaw()
		if err != nil {
			return nil, err
		}
		return Long(v), nil
	case TypeFloat:
		v, err := r.readIntRaw()
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(uint32(v))), nil
	case TypeDouble:
		v, err := r.readLongRaw()
		if err != nil {
			return nil, err
		}
		return Double(math.Float64frombits(uint64(v))), nil
	case TypeByteArray:
		n, err := r.readIntRaw()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("nbt: negative byte array length %d", n)
		}
		b, err := r.readN(int(n))
		if err != nil {
			return nil, err
		}
		return ByteArray(b), nil
	case TypeString:
		s, err := r.readStringRaw()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case TypeList:
		return r.readList()
	case TypeCompound:
		return r.readCompound()
	case TypeIntArray:
		n, err := r.readIntRaw()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("nbt: negative int array length %d", n)
		}
		arr := make([]int32, n)
		for i := range arr {
			v, err := r.readIntRaw()
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return IntArray(arr), nil
	case TypeLongArray:
		n, err := r.readIntRaw()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("nbt: negative long array length %d", n)
		}
		arr := make([]int64, n)
		for i := range arr {
			v, err := r.readLongRaw()
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return LongArray(arr), nil
	default:
		return nil, fmt.Errorf("nbt: unknown tag type %d", byte(t))
	}
}

func (r *Reader) readList() (Tag, error) {
	elemTypeByte, err := r.readByteRaw()
	if err != nil {
		return nil, err
	}
	elemType := Type(elemTypeByte)
	n, err := r.readIntRaw()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	items := make([]Tag, 0, n)
	for i := int32(0); i < n; i++ {
		item, err := r.readPayload(elemType)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return List{ElemType: elemType, Items: items}, nil
}

// readCompound reads child tags until a TypeEnd marker, or until the stream is
// exhausted while expecting the next entry's type byte. The latter mirrors the
// source's lenient top-level behavior: a truncated stream at a tag boundary is treated
// as an implicit End rather than an error, so a bare top-level compound with no
// trailing End byte still decodes.
func (r *Reader) readCompound() (*Compound, error) {
	c := NewCompound()
	for {
		typeByte, err := r.readByteRaw()
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return nil, err
		}
		t := Type(typeByte)
		if t == TypeEnd {
			return c, nil
		}
		name, err := r.readStringRaw()
		if err != nil {
			return nil, err
		}
		payload, err := r.readPayload(t)
		if err != nil {
			return nil, err
		}
		c.Put(name, payload)
	}
}

// ReadNamed decodes a disk-format tag: type byte, name, payload.
func ReadNamed(r io.Reader) (name string, tag Tag, err error) {
	tag, name, err = NewReader(r).ReadTag(false)
	return name, tag, err
}

// ReadNetwork decodes a network-format tag: type byte, payload, no root name.
func ReadNetwork(r io.Reader) (Tag, error) {
	tag, _, err := NewReader(r).ReadTag(true)
	return tag, err
}
