// Package pkg provides the core libraries for swiftadd.
//
// # Overview
//
// swiftadd adds a dependency to a Swift package by editing its manifest
// in place and delegating resolution to the swift toolchain. The pkg
// directory is organized by concern:
//
//  1. [manifest] - Package.swift text surgery (locate targets, insert
//     declarations, wire products into targets)
//  2. [lockfile] - Package.resolved reading and pin diffing
//  3. [toolchain] - swift subprocess invocation
//  4. [catalog] - GitHub package lookup with caching
//  5. [cache] - file-backed response cache and retry helpers
//  6. [errors] - structured error codes shared across packages
//
// # Data flow
//
// The typical flow through an add:
//
//	catalog lookup → manifest edit → swift package resolve →
//	lockfile identifier → target wiring → swift build
//
// The manifest package never touches the filesystem or the network; the
// CLI supplies commit, refresh, and lookup callbacks so every stage
// stays testable in isolation.
package pkg
