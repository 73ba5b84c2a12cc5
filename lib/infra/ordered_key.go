package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey is the set of key types that support the built-in
// comparison operators. It is the same set as cmp.Ordered.
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// CompareOrderedKey follows cmp.Compare: a NaN is less than any
// non-NaN value, a NaN equals a NaN and -0.0 equals 0.0.
func CompareOrderedKey[K OrderedKey](i, j K) int {
	if i < j {
		return -1
	}
	if i > j {
		return 1
	}
	if i == j {
		return 0
	}
	// Only floats reach here, at least one side is NaN.
	iNaN, jNaN := i != i, j != j
	if iNaN && jNaN {
		return 0
	}
	if iNaN {
		return -1
	}
	return 1
}

// NormalizeCompareResult clamps an arbitrary comparator result to -1, 0, 1.
func NormalizeCompareResult(res int) int {
	if res < 0 {
		return -1
	} else if res > 0 {
		return 1
	}
	return 0
}
