package main

import "fmt"

// consoleNotifier renders workflow notifications on stdout.
type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) {
	fmt.Println("✔ " + msg)
}

func (consoleNotifier) Error(msg string) {
	fmt.Println("✘ " + msg)
}
