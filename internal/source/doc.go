// Package source defines the contract between the runtime and user-authored
// source nodes: the three lifecycle operations (construct, run, finalize),
// the error taxonomy surfaced across that boundary, and the lifecycle state
// machine the runtime enforces around every node instance.
package source
