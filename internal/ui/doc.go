// Package ui provides terminal output for the bootkeys CLI.
//
// Printer writes one status line per step with a colored symbol:
//
//	◐ Loading instance vars from web01.tfvars
//	⏎ Sending ENTER to web01
//	✓ Keystrokes sent to web01
//
// On an interactive terminal the boot menu wait is drawn as a Spinner
// counting down the seconds left (see Countdown). Redirected output gets
// plain lines and no animation.
//
// Colors are ANSI codes rendered through Lip Gloss. DisableColors switches
// to monochrome output (the --no-color flag, or stdout not being a
// terminal).
package ui
