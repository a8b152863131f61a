package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Value is an immutable scalar cell. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Int returns an Integer value.
func Int(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

// Float returns a Float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Text returns a Text value.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsNumber reports whether v is an Integer or a Float.
func (v Value) IsNumber() bool {
	return v.kind.IsNumber()
}

// Number returns the numeric payload of an Integer or Float value.
// Text and Null report false.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Integer returns the payload of an Integer value.
func (v Value) Integer() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// ParseNumber returns the numeric view of v. Unlike Number it also accepts
// Text whose trimmed content is a finite decimal number.
func (v Value) ParseNumber() (float64, bool) {
	if n, ok := v.Number(); ok {
		return n, true
	}

	if v.kind != KindText {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}

	return f, true
}

// String returns the canonical string form used for equality checks and
// diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	default:
		return "null"
	}
}

// GoString makes %#v output readable in debug dumps.
func (v Value) GoString() string {
	if v.kind == KindText {
		return fmt.Sprintf("%s(%q)", v.kind, v.s)
	}

	return fmt.Sprintf("%s(%s)", v.kind, v.String())
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// FromAny converts a provider scalar into a Value.
//
// Nil and nil pointers become Null; signed and unsigned integers become
// Integer; float32/float64 become Float; strings, byte slices, booleans and
// timestamps become Text. json.Number is split into Integer or Float by its
// literal. Other types implementing fmt.Stringer or error, such as UUIDs
// returned by drivers, become Text. Anything else is rejected.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return Text(t), nil
	case []byte:
		return Text(string(t)), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}

		f, err := t.Float64()
		if err != nil {
			return Null(), fmt.Errorf("invalid json number %q: %w", t.String(), err)
		}

		return Float(f), nil
	case uint64:
		if t > math.MaxInt64 {
			return Float(float64(t)), nil
		}

		return Int(int64(t)), nil
	case time.Time:
		return Text(t.Format(time.RFC3339Nano)), nil
	case bool:
		return Text(strconv.FormatBool(t)), nil
	}

	return fromReflect(reflect.ValueOf(x))
}

// fromReflect handles the remaining numeric types, pointers, named scalar
// types such as `type Amount float64` and values implementing fmt.Stringer.
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}

		return FromAny(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FromAny(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Bool:
		return Text(strconv.FormatBool(rv.Bool())), nil
	default:
		// Driver types such as UUIDs and decimals print themselves.
		if str, err := cast.ToStringE(rv.Interface()); err == nil {
			return Text(str), nil
		}

		return Null(), fmt.Errorf("unsupported cell type %s", rv.Type())
	}
}

// MustFromAny is FromAny for literals known to be valid, such as test fixtures.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}

	return v
}

// ParseCell converts a raw CSV cell into a Value: blank cells are Null, cells
// containing a '.' are tried as Float, everything else as Integer, and
// anything unparseable stays Text. Surrounding whitespace is trimmed.
func ParseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Null()
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f)
		}

		return Text(s)
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}

	return Text(s)
}
