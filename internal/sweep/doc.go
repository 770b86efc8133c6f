/*
Package sweep drives a simulation through time.

A Runner owns the time loop. Step 0 samples the sections as they were loaded.
Every further step advances the time parameter, lets the Solver produce new
model variables, refreshes the live entries of every section and then samples,
records and publishes a frame.

The solver itself is external. ExpressionSolver is a stand-in that advances
model variables from the update expressions of the configuration, which is
enough to exercise the re-parse path end to end.
*/
package sweep
