package argument

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Reason is an error whose text is shown to the user as-is.
type Reason string

// Error implements the error interface.
func (r Reason) Error() string {
	return string(r)
}

// Int returns an argument that parses a base-10 integer.
func Int() Argument[int64] {
	return IntNamed("Number")
}

// IntNamed is Int with a custom display name.
func IntNamed(name string) Argument[int64] {
	return NewSingleWord(name,
		func() string { return strconv.Itoa(rand.IntN(201) - 100) },
		func(_ context.Context, word string, _ any) (int64, error) {
			n, err := strconv.ParseInt(word, 10, 64)
			if err != nil {
				return 0, Reason("Expected a whole number.")
			}
			return n, nil
		})
}

// Float returns an argument that parses a decimal number.
func Float() Argument[float64] {
	return NewSingleWord("Number",
		func() string { return strconv.FormatFloat(rand.Float64()*200-100, 'f', 2, 64) },
		func(_ context.Context, word string, _ any) (float64, error) {
			f, err := strconv.ParseFloat(word, 64)
			if err != nil {
				return 0, Reason("Expected a number.")
			}
			return f, nil
		})
}

// Bool returns an argument that accepts true/false, yes/no and on/off.
func Bool() Argument[bool] {
	return NewSingleWord("Boolean",
		func() string { return []string{"true", "false"}[rand.IntN(2)] },
		func(_ context.Context, word string, _ any) (bool, error) {
			switch strings.ToLower(word) {
			case "true", "yes", "on":
				return true, nil
			case "false", "no", "off":
				return false, nil
			}
			return false, Reason("Expected true or false.")
		})
}

// Duration returns an argument parsed with time.ParseDuration.
func Duration() Argument[time.Duration] {
	return NewSingleWord("Duration",
		func() string { return []string{"30s", "5m", "1h30m"}[rand.IntN(3)] },
		func(_ context.Context, word string, _ any) (time.Duration, error) {
			d, err := time.ParseDuration(word)
			if err != nil {
				return 0, Reason("Expected a duration like 30s or 5m.")
			}
			return d, nil
		})
}
