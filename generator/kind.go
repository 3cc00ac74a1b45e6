package generator

import (
	"math"
	"reflect"
	"strconv"
	"time"
)

// Kind classifies the types the default generators know about.
type Kind int

const (
	_ Kind = iota // zero value means "not a basic kind"

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindNamed // defined type over a number, bool or string, e.g. an enum

	// KindTotal is the total number of kinds defined
	KindTotal = int(iota)
)

var kindNames = [...]string{
	KindInt:      "KindInt",
	KindInt8:     "KindInt8",
	KindInt16:    "KindInt16",
	KindInt32:    "KindInt32",
	KindInt64:    "KindInt64",
	KindUint:     "KindUint",
	KindUint8:    "KindUint8",
	KindUint16:   "KindUint16",
	KindUint32:   "KindUint32",
	KindUint64:   "KindUint64",
	KindFloat32:  "KindFloat32",
	KindFloat64:  "KindFloat64",
	KindBool:     "KindBool",
	KindString:   "KindString",
	KindTime:     "KindTime",
	KindDuration: "KindDuration",
	KindNamed:    "KindNamed",
}

func (k Kind) String() string {
	if k <= 0 || int(k) >= KindTotal {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

func (k Kind) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k Kind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k Kind) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k Kind) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k Kind) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Bits returns the size of a number kind.
func (k Kind) Bits() int {
	switch k {
	default:
		panic("only number kinds have a meaningful bit size, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}

		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
)

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.String:  reflect.TypeFor[string](),
}

var basicKinds = map[reflect.Kind]Kind{
	reflect.Int:     KindInt,
	reflect.Int8:    KindInt8,
	reflect.Int16:   KindInt16,
	reflect.Int32:   KindInt32,
	reflect.Int64:   KindInt64,
	reflect.Uint:    KindUint,
	reflect.Uint8:   KindUint8,
	reflect.Uint16:  KindUint16,
	reflect.Uint32:  KindUint32,
	reflect.Uint64:  KindUint64,
	reflect.Float32: KindFloat32,
	reflect.Float64: KindFloat64,
	reflect.Bool:    KindBool,
	reflect.String:  KindString,
}

// KindOf classifies t. Predeclared types map to their own kind, time.Time and
// time.Duration to KindTime and KindDuration, other defined types over a
// basic kind to KindNamed. Everything else is Kind(0).
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return 0
	}

	switch t {
	case timeType:
		return KindTime
	case durationType:
		return KindDuration
	}

	k, ok := basicKinds[t.Kind()]
	if !ok {
		return 0
	}

	if t != basicTypes[t.Kind()] {
		return KindNamed
	}

	return k
}

// Basic returns the predeclared type sharing t's underlying kind, or nil if
// t is not a number, bool or string.
func Basic(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}

	return basicTypes[t.Kind()]
}

// BasicKind is KindOf(Basic(t)).
func BasicKind(t reflect.Type) Kind {
	return KindOf(Basic(t))
}
