// Package config defines the format-agnostic declaration model consumed by
// the engine core, plus the loader interfaces that format-specific packages
// (HCL manifests, YAML execution configs) implement.
//
// Declarations are produced once by a loader and treated as immutable,
// shared-read inputs from then on. Nothing in the engine mutates them; all
// derived structures (plans, graphs) are freshly allocated per call.
package config
