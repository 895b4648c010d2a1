// Package main hosts the Cutroom CLI entrypoint and command graph.
//
// The Cobra-based command tree loads timeline project files, inspects and
// validates delivery presets, compiles ffmpeg export plans, and manages the
// batch export queue. It centralizes configuration resolution and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
package main
