// Package stochastic provides the process kernels behind the blog's
// cash-flow modelling: Wiener paths, geometric Brownian motion, and
// compound-Poisson jump events, plus a worker-pooled ensemble runner
// with reproducible per-path randomness.
//
// Randomness flows through gonum's distuv distributions seeded by
// x/exp/rand sources. Every generator validates its parameters up
// front and fails with a package sentinel; an ensemble run with an
// explicit seed is byte-identical regardless of worker count, because
// each path derives its own independent source from the run seed.
package stochastic
