// Package testutil provides utilities for testing alps components.
//
// Key components:
//   - TestEnvironment: a root, a home directory, a store and recording
//     fakes for the reporter, the process runner and the package manager
//   - FileTree: declarative file setup
//   - GroupConfig: declarative group setup (record plus mirror)
//   - MockManager: testify mock of packages.Manager
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; it runs on an afero in-memory filesystem
//   - Use EnvIsolated when the code under test resolves real paths
//     (config and script validation) or executes scripts
package testutil
