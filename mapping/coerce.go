package mapping

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeDate    = "date"
)

// coerce converts a resolved value to the mapping's declared data type. An
// empty dataType leaves the value untouched.
func coerce(value any, dataType string) (any, error) {
	switch dataType {
	case "":
		return value, nil
	case TypeString:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return fmt.Sprint(value), nil
	case TypeNumber:
		return coerceNumber(value)
	case TypeInteger:
		return coerceInteger(value)
	case TypeBoolean:
		return coerceBoolean(value)
	case TypeDate:
		return coerceDate(value)
	}
	return nil, fmt.Errorf("unknown data type %q", dataType)
}

func coerceNumber(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot coerce %q to number", v)
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to number", value)
}

func coerceInteger(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("cannot coerce %v to integer without loss", v)
		}
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot coerce %q to integer", v)
		}
		return i, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to integer", value)
}

func coerceBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("cannot coerce %q to boolean", v)
		}
		return b, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to boolean", value)
}

func coerceDate(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("cannot coerce %q to date", v)
		}
		return t, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to date", value)
}
