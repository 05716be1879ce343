//go:build !windows && !linux

package selection

// DefaultStrategies returns the clipboard strategy only.
func DefaultStrategies(o Options) []Strategy {
	return []Strategy{o.clipboardStrategy()}
}

// OptionalStrategies returns nothing; every strategy here is in the chain.
func OptionalStrategies(Options) []Strategy { return nil }
