package ui

// Color accessor functions return the escape code of the corresponding
// category in the active theme. They are the primary way CLI code colors
// its output without holding a Theme value.

// ColorPrimary returns the primary accent color code.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorSecondary returns the secondary color code.
func ColorSecondary() string { return GetCurrentTheme().Secondary }

// ColorGreen returns the success color code.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color code.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorRed returns the error color code.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorCyan returns the primary color code (legacy alias used by tabular output).
func ColorCyan() string { return GetCurrentTheme().Primary }

// ColorMagenta returns the info color code.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorBlue returns the primary color code.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorBold returns the bold escape code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset returns the reset escape code.
func ColorReset() string { return GetCurrentTheme().Reset }
