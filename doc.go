// Package insights generates reproducible synthetic assessment data for
// clinical-encounter rubrics and analyses where students fall short.
//
// What is in the box?
//
//	• Deterministic generators: rubric scores and companion metrics
//	  (encounter checklist, speech delivery, Socratic dialogue) from a seed
//	• Feedback context: levels, strengths, growth areas and narrative
//	  sections for one student attempt
//	• Miss graphs: co-miss networks of rubric elements or domains, with a
//	  student–element risk map, backbone and clusters
//	• Centrality: degree, closeness and betweenness over the miss graph
//	• Correlation: Pearson r with p-values and Fisher-z intervals
//
// Everything is organized under small subpackages:
//
//	seed/         keyed, stable PCG streams
//	rubric/       immutable criteria sets (domains of elements)
//	dataset/      score and auxiliary tables
//	simu/         synthetic score generator
//	auxmetrics/   synthetic checklist, speech and dialogue metrics
//	feedback/     per-attempt feedback context
//	missgraph/    co-miss graph, risk map, backbone
//	centrality/   node centrality over weighted or hop distances
//	correlation/  pairwise and cross-table correlation
//	summary/      cohort means, trends and completion rates
//	config/       analysis profile (viper + validator)
//	core/         the undirected weighted graph behind missgraph
//
// Quick example of a co-miss graph:
//
//	    a───b        a, b: missed together by 2 students
//	    │            a, d: missed together by 2 students
//	    d
//
// The insights command in cmd/insights drives all of the above from a
// profile file.
package insights
