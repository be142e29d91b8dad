package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind is the expected type of an argument.
type Kind int

const (
	Any Kind = iota
	String
	Bool
	Int
	Slice
	Map
	Struct
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Bool:
		return "boolean"
	case Int:
		return "number"
	case Slice:
		return "array"
	case Map:
		return "map"
	case Struct:
		return "object"
	default:
		return "value"
	}
}

// Arg describes one argument of a use case.
//
// A nil Value (or a nil pointer) is missing: it fails with RequirementError
// unless Optional is set. Pointers are dereferenced before the type check.
// NotEmpty and MaxLen apply to strings only; MaxLen counts bytes and zero
// means no limit.
type Arg struct {
	Name     string
	Value    any
	Type     Kind
	Optional bool
	NotEmpty bool
	MaxLen   int
}

// Arguments checks args in order and returns the first failure.
func Arguments(args ...Arg) error {
	for _, a := range args {
		if err := a.check(); err != nil {
			return err
		}
	}
	return nil
}

func (a Arg) check() error {
	v, present := deref(a.Value)
	if !present {
		if a.Optional {
			return nil
		}
		return &RequirementError{Name: a.Name}
	}

	if !matches(v, a.Type) {
		return &TypeError{Name: a.Name, Value: v.Interface(), Want: a.Type}
	}

	if a.NotEmpty && v.Kind() == reflect.String && strings.TrimSpace(v.String()) == "" {
		return &ValueError{Name: a.Name}
	}

	if a.MaxLen > 0 && v.Kind() == reflect.String && len(v.String()) > a.MaxLen {
		return &LengthError{Name: a.Name, Max: a.MaxLen}
	}

	return nil
}

func deref(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, true
}

func matches(v reflect.Value, k Kind) bool {
	switch k {
	case Any:
		return true
	case String:
		return v.Kind() == reflect.String
	case Bool:
		return v.Kind() == reflect.Bool
	case Int:
		return v.CanInt() || v.CanUint()
	case Slice:
		return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
	case Map:
		return v.Kind() == reflect.Map
	case Struct:
		return v.Kind() == reflect.Struct
	}
	return false
}

var emailValidator = validator.New()

// Email fails with FormatError when value is not an e-mail address.
func Email(value string) error {
	if err := emailValidator.Var(value, "required,email"); err != nil {
		return &FormatError{Value: value}
	}
	return nil
}
