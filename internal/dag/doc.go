// Package dag provides the directed graph over stage declarations used to
// order pipeline execution. The graph is derived transiently from the
// declared stage adjacency, consulted for cycle detection and topological
// ordering, and discarded once an order is computed.
package dag
