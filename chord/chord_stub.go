//go:build !windows && !darwin && !linux

package chord

import "errors"

var errUnsupported = errors.New("key injection is not supported on this platform")

func Init() error { return errUnsupported }

func Send() error { return errUnsupported }

func Verify() (string, error) { return "", errUnsupported }
