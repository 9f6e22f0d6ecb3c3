// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package clock provides an injectable time source.

The optimistic overlay clears confirmed moves after a grace window. That
window is scheduled through a Clock so tests can drive it without
sleeping:

	fake := clock.Fake(time.Unix(0, 0))
	overlay := board.NewOverlay(fake, 800*time.Millisecond, nil)
	// ...
	fake.Advance(800 * time.Millisecond)

Real() wraps the standard time package for production use.
*/
package clock
