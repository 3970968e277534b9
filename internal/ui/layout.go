package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which optional columns are hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show remarks in the ledger.
	LayoutWideWidth = 120
)

// Chrome is the number of lines taken by header, command bar and footer.
const chromeLines = 3

// Activity limits.
const (
	// ActivityLineLimit is the number of log lines read for the Activity view.
	ActivityLineLimit = 500
)

// Timing constants.
const (
	// ToastDuration is how long a status message stays in the footer.
	ToastDuration = 4 * time.Second

	// LoginTimeout bounds the login request.
	LoginTimeout = 10 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
