// Package registry provides the central glue between declarations and code.
//
// The Registry stores mappings between the string references used in spec
// manifests (e.g. "features:add_lag") and the compiled Go functions that
// implement them. It is the only seam where the engine core touches the
// surrounding runtime: implementations are resolved by reference and
// invoked with named arguments, so a manifest can be validated and executed
// without any dynamic loading.
//
// During application startup the registry is populated by the compiled-in
// modules and then cross-checked against the loaded declarations, catching
// manifest/code drift before anything runs.
package registry
