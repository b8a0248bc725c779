package repository

// Package repository contains data access layer abstractions for the metadata
// store. Implementations live in subpackages (e.g., postgres) inside this
// directory; decorators (retry) live alongside the interfaces.
