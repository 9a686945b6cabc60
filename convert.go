package rivet

import (
	"reflect"
	"strconv"
	"unicode/utf8"
)

// convertString coerces a path or query value to the declared parameter
// type. Supported targets: string, bool, signed and unsigned integer
// widths, floating-point widths, and single characters (rune). Unsupported
// targets and malformed values fail with a ConversionError naming the
// offending value and target type.
func convertString(value string, target reflect.Type) (reflect.Value, error) {
	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(value).Convert(target), nil

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return reflect.Value{}, ConversionError{Value: value, TargetType: target, Cause: err}
		}
		return reflect.ValueOf(b).Convert(target), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, target.Bits())
		if err != nil {
			// An int32 target also accepts a single character.
			if target.Kind() == reflect.Int32 && utf8.RuneCountInString(value) == 1 {
				r, _ := utf8.DecodeRuneInString(value)
				return reflect.ValueOf(r).Convert(target), nil
			}
			return reflect.Value{}, ConversionError{Value: value, TargetType: target, Cause: err}
		}
		out := reflect.New(target).Elem()
		out.SetInt(n)
		return out, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, target.Bits())
		if err != nil {
			return reflect.Value{}, ConversionError{Value: value, TargetType: target, Cause: err}
		}
		out := reflect.New(target).Elem()
		out.SetUint(n)
		return out, nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, target.Bits())
		if err != nil {
			return reflect.Value{}, ConversionError{Value: value, TargetType: target, Cause: err}
		}
		out := reflect.New(target).Elem()
		out.SetFloat(f)
		return out, nil

	default:
		return reflect.Value{}, ConversionError{Value: value, TargetType: target}
	}
}
