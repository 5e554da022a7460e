package cli

import "github.com/runoshun/tm/internal/tui"

// pickTaskFunc is a function variable for the interactive task picker, allowing it to be mocked in tests.
var pickTaskFunc = tui.RunPicker
