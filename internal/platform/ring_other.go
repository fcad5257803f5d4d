//go:build !linux

package platform

import (
	"errors"
	"os"
)

var errRingUnsupported = errors.New("io_uring requires linux")

// Ring is unavailable off Linux; the constructor says so and callers stay
// on the default copy path.
type Ring struct{}

func NewRing(int) (*Ring, error) { return nil, errRingUnsupported }

func (r *Ring) Close() error { return nil }

func (r *Ring) Copy(_, _ *os.File, _ int64) (int64, error) {
	return 0, errRingUnsupported
}
