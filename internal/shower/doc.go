// Package shower implements the Monte Carlo electromagnetic shower engine.
//
// A shower starts from a single primary (electron, positron or photon) and
// evolves in discrete generations. Each generation advances every live entity
// by a fraction s of a radiation length:
//
//   - Charged particles lose a fixed ionization energy per step and may emit
//     a bremsstrahlung photon carrying half of their energy.
//   - Photons above the pair threshold (2 x 0.511 MeV) may convert into an
//     electron-positron pair sharing the photon energy.
//   - Entities too soft to continue are excluded from the shower and leave a
//     uniformly distributed residual deposit U(0, E).
//
// The loop stops when a generation produces no survivors.
//
// ARCHITECTURE:
//
// Entities form a closed sum type (Charged, Photon). The engine dispatches
// on the concrete type and hands each variant only the parameters it uses.
// The per-generation ionization deposit is threaded through every step as an
// explicit accumulator, in generation order.
//
// Determinism:
// Randomness comes from an injected Source. Given the same Params and a
// Source seeded the same way, Simulate returns identical sequences. Runs
// share no state, so independent runs may execute in parallel as long as
// each one owns its Source.
//
// Known modeling quirk: excluded entities deposit U(0, E) instead of their
// full residual energy E, so on average half of the residual energy at
// shower termination is not accounted for.
package shower
