// Package simu fabricates longitudinal rubric scores for a cohort of
// students with reproducible randomness.
//
// Every (student, scenario, mode, attempt) combination yields one
// dataset.ScoreRecord with a score per element of the criteria set. Scores
// follow a layered model:
//
//	raw = baseline + improvement·sensitivity + bias + scenarioMod + modeMod + N(0, 0.5)
//	score = round1(clamp(raw, 0, 4))
//
// Draw order (all from one seed.Stream, changing it changes every output):
//
//  1. baseline ~ U(1.2, 2.8) per student, in student order.
//  2. sensitivity ~ U(0.8, 1.2) per domain, in domain order, shared by all students.
//  3. Then per student:
//     a. bias ~ U(−0.3, 0.3) per domain;
//     b. per scenario, per mode: scenarioMod ~ N(0, 0.1), modeMod ~ N(0, 0.1);
//     then per attempt: improvement = (a−1)·U(0.1, 0.3), followed by one
//     N(0, 0.5) noise draw per element in criteria order.
//  4. The assembled rows are shuffled by a fresh stream seeded with the same
//     base seed. Shuffling only changes presentation order.
//
// Calls share no state; concurrent calls with different seeds are safe.
package simu
