// Package ui holds the small terminal helpers the CLI front end uses:
// ANSI-colored status lines and single-key input.
package ui

import "fmt"

// Debugf prints a yellow [DEBUG] line when enabled.
func Debugf(enabled bool, format string, a ...interface{}) {
	if enabled {
		fmt.Print("\033[33m")
		fmt.Printf("[DEBUG] "+format, a...)
		fmt.Print("\033[0m")
	}
}

func Greenf(format string, a ...interface{}) {
	fmt.Print("\033[92m")
	fmt.Printf(format, a...)
	fmt.Print("\033[0m")
}

func Warningf(format string, a ...interface{}) {
	fmt.Print("\033[93m")
	fmt.Printf(format, a...)
	fmt.Print("\033[0m")
}

func ClearScreen() {
	fmt.Print("\033[2J\033[1;1H")
}
