package generator_test

import (
	"fmt"
	"reflect"
	"time"

	"bean-forge/generator"
)

func ExampleKindOf() {
	type IntEnum int
	type StringEnum string
	type Empty struct{}

	fmt.Println(generator.KindOf(reflect.TypeOf(int(0))))
	fmt.Println(generator.KindOf(reflect.TypeOf("")))
	fmt.Println(generator.KindOf(reflect.TypeOf(IntEnum(0))))
	fmt.Println(generator.KindOf(reflect.TypeOf(StringEnum(""))))
	fmt.Println(generator.KindOf(reflect.TypeOf(time.Duration(0))))
	fmt.Println(generator.KindOf(reflect.TypeOf(time.Time{})))
	fmt.Println(generator.KindOf(reflect.TypeOf(Empty{})))
	fmt.Println(generator.BasicKind(reflect.TypeOf(IntEnum(0))))
	// Output:
	// KindInt
	// KindString
	// KindNamed
	// KindNamed
	// KindDuration
	// KindTime
	// Kind(0)
	// KindInt
}

func ExampleKind_Bits() {
	fmt.Println(generator.KindInt8.Bits(), generator.KindUint32.Bits(), generator.KindFloat64.Bits())
	// Output:
	// 8 32 64
}
