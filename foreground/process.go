package foreground

import (
	"path/filepath"

	"github.com/shirou/gopsutil/v3/process"
)

// processInfo resolves executables through gopsutil, which is shared by
// every platform inspector.
type processInfo struct{}

func (processInfo) ExecutableInfo(pid int) (name, path string) {
	if pid <= 0 {
		return "", ""
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", ""
	}
	path, _ = p.Exe()
	if path != "" {
		return filepath.Base(path), path
	}
	name, _ = p.Name()
	return name, ""
}
