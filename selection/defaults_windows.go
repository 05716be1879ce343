//go:build windows

package selection

// DefaultStrategies returns UI Automation, then the edit-control query,
// then the clipboard.
func DefaultStrategies(o Options) []Strategy {
	return []Strategy{
		AutomationStrategy{},
		ControlStrategy{},
		o.clipboardStrategy(),
	}
}

// OptionalStrategies returns nothing; every strategy here is in the chain.
func OptionalStrategies(Options) []Strategy { return nil }
