//go:build !unix

package usage

import "errors"

// Self is not supported on this platform.
func Self() (*Usage, error) {
	return nil, errors.New("usage: not supported on this platform")
}
