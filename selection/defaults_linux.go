//go:build linux

package selection

// DefaultStrategies returns the clipboard strategy only.
func DefaultStrategies(o Options) []Strategy {
	return []Strategy{o.clipboardStrategy()}
}

// OptionalStrategies returns the primary selection. It belongs to whichever
// client last highlighted text, not necessarily the foreground window, so
// it only runs for executables whose policy names it, e.g.
//
//	selection:
//	  policy:
//	    xterm: [primary, clipboard]
func OptionalStrategies(Options) []Strategy {
	return []Strategy{PrimaryStrategy{}}
}
