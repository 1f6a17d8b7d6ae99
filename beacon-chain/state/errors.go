package state

import "fmt"

// errOutOfRange formats the out-of-bound index errors every fixed-length
// getter/setter in this package returns.
func errOutOfRange(field string, i uint64, n int) error {
	return fmt.Errorf("state: index %d out of range for %s (len %d)", i, field, n)
}
