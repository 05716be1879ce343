//go:build !windows && !linux

package uithread

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentThreadID identifies the calling goroutine. The loop goroutine is
// locked to its thread, so this is enough to tell it apart.
func currentThreadID() uint32 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return uint32(id)
}
