package hotkey

// needsNonShiftModifier lists keys that produce text on their own or with
// Shift, so a bare or Shift-only combo would swallow ordinary typing.
func needsNonShiftModifier(k Key) bool {
	switch {
	case k >= Key0 && k <= KeyZ,
		k >= KeyNumPad0 && k <= KeyNumPad9,
		k >= 0xBA && k <= 0xE2,
		k >= KeySpace && k <= KeyHome:
		return true
	}
	switch k {
	case KeyInsert, KeyHelp, KeyMultiply, KeyAdd, KeySubtract, KeyDivide,
		KeyDecimal, KeyEnter, KeyEscape, KeyNumLock, KeyScroll, KeyPause:
		return true
	}
	return false
}

// needsNonAltGrModifier lists keys that many layouts map to AltGr
// characters, which makes Control+Alt+key unusable.
func needsNonAltGrModifier(k Key) bool {
	return k >= Key0 && k <= Key9
}

// Sanitize applies the capture policy used by hotkey input widgets to a raw
// key-down: it returns the combo to display and register, or ok=false when
// the combination cannot be used. A bare text key gets Control+Alt (or
// Shift+Alt for digits) added; Shift+text-key and Control+Alt+digit are
// refused.
func Sanitize(mods Modifier, key Key) (KeyCombo, bool) {
	if key == 0 || key == KeyLWin || key == KeyRWin || key.IsModifier() {
		return KeyCombo{}, false
	}

	if (mods == ModShift || mods == ModNone) && needsNonShiftModifier(key) {
		if mods == ModShift {
			return KeyCombo{}, false
		}
		if needsNonAltGrModifier(key) {
			mods = ModShift | ModAlt
		} else {
			mods = ModControl | ModAlt
		}
	}

	if mods == ModControl|ModAlt && needsNonAltGrModifier(key) {
		return KeyCombo{}, false
	}

	c := KeyCombo{Modifiers: mods, Key: key}
	if c.Validate() != nil {
		return KeyCombo{}, false
	}
	return c, true
}
