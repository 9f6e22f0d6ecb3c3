// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package templates loads pipeline templates from YAML and seeds them
// into the store. Without a file, a built-in set is used.
package templates
