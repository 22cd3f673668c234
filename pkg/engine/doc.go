// Package engine composes the card-diagram pipeline into one owned object.
//
// An [Engine] holds the graph model, its level assignment, the expansion
// state and the viewport, and recomputes positions and edge routes
// synchronously whenever one of them changes:
//
//	LoadData → hierarchy.Build → (visibility filter) → layout.Compute → route.Route
//
// Viewport changes never trigger a layout pass; they only change how the
// current scene is mapped to the screen by [Engine.Render].
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Hosts must serialize calls, for
// example through a single UI event loop or a mutex.
//
// # Input
//
// Hosts either call the operations directly or feed [Event] values to
// [Engine.HandleEvent], which maps pans, zooms, clicks and key presses onto
// the same operations.
package engine
