// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package sparserun provides sparse sequence containers optimized for
// workloads with many adjacent insertions and deletions, occasional random
// access, and frequent compact JSON serialization — the access pattern
// typical of collaborative text and list editing.
//
// Three variants share a single generic run-list engine:
//
//   - [SparseArray] holds values of an arbitrary type T, one per index.
//   - [SparseString] holds UTF-16 code units packed into string runs, or
//     whole embed objects of type E that occupy exactly one index and never
//     merge with their neighbors.
//   - [SparseIndices] carries no values at all, only a presence/absence
//     pattern; it is the memory- and JSON-optimal choice when values don't
//     matter.
//
// Internally each container is a singly linked list of run nodes: a node is
// either present (holding a non-empty run of values) or deleted (holding
// only a length). Neighboring nodes are kept maximally merged. Every
// mutation goes through a single primitive, overwrite, which both Set and
// Delete build on; it returns the displaced span as a fresh container of the
// same variant, for undo or transform composition.
//
// No container is safe for concurrent use: each instance is single-owner.
package sparserun
