package uithread

import "golang.org/x/sys/unix"

func currentThreadID() uint32 { return uint32(unix.Gettid()) }
