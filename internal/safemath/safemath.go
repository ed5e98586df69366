// Package safemath provides checked integer arithmetic. Every operation
// returns a MATH_ERROR instead of wrapping, truncating or panicking, and
// records the call site that triggered it.
package safemath

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/fd1az/smart-router/internal/apperror"
)

// Integer is the set of fixed-width integer types the checked operations accept.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func signed[T Integer]() bool {
	return ^T(0) < 0
}

// isMin reports whether a is the minimum value of a signed type.
func isMin[T Integer](a T) bool {
	return a != 0 && a == -a
}

// Add returns a+b.
func Add[T Integer](a, b T) (T, error) {
	c := a + b
	if signed[T]() {
		if (b > 0 && c < a) || (b < 0 && c > a) {
			return 0, mathError("add", a, b)
		}
		return c, nil
	}
	if c < a {
		return 0, mathError("add", a, b)
	}
	return c, nil
}

// Sub returns a-b.
func Sub[T Integer](a, b T) (T, error) {
	c := a - b
	if signed[T]() {
		if (b > 0 && c > a) || (b < 0 && c < a) {
			return 0, mathError("sub", a, b)
		}
		return c, nil
	}
	if b > a {
		return 0, mathError("sub", a, b)
	}
	return c, nil
}

// Mul returns a*b.
func Mul[T Integer](a, b T) (T, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if signed[T]() {
		minusOne := ^T(0)
		if (a == minusOne && isMin(b)) || (b == minusOne && isMin(a)) {
			return 0, mathError("mul", a, b)
		}
	}
	c := a * b
	if c/b != a {
		return 0, mathError("mul", a, b)
	}
	return c, nil
}

// Div returns a/b truncated toward zero. Division by zero is a MATH_ERROR.
func Div[T Integer](a, b T) (T, error) {
	if b == 0 {
		return 0, mathError("div", a, b)
	}
	if signed[T]() && b == ^T(0) && isMin(a) {
		return 0, mathError("div", a, b)
	}
	return a / b, nil
}

// Pow10 returns 10^exp as a uint64.
func Pow10(exp uint8) (uint64, error) {
	result := uint64(1)
	for i := uint8(0); i < exp; i++ {
		next, err := Mul(result, 10)
		if err != nil {
			return 0, mathError("pow10", uint64(10), exp)
		}
		result = next
	}
	return result, nil
}

func mathError[A, B any](op string, a A, b B) *apperror.AppError {
	return apperror.New(apperror.CodeMathError,
		apperror.WithContextf("%s(%v, %v) thrown at %s", op, a, b, callSite()))
}

// callSite reports the first frame outside this package, so chained and
// 128-bit operations name the code that asked for them.
func callSite() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !inPackage(f) {
			return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		}
		if !more {
			return "unknown"
		}
	}
}

func inPackage(f runtime.Frame) bool {
	if strings.HasSuffix(f.File, "_test.go") {
		return false
	}
	return strings.HasPrefix(f.Function, pkgPath+".")
}

var pkgPath = reflect.TypeOf(Calc{}).PkgPath()
