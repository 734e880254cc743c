// Package ui draws diagnostics over the rendered frame: a stats panel and a
// world-space overlay. Both need the ebiten build tag.
package ui
