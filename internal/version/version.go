// Package version contains information on the current version of the program.
// It is split from the main program for easy use.
package version

// Current is the string representing the current version of FLWarrior.
const Current = "0.4.0"

// ServerCurrent is the string representing the current version of the
// FLWarrior definitions server.
const ServerCurrent = "0.4.0"
