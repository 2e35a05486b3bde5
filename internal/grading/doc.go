// Package grading holds the pure scoring rules of the gradebook: semester and
// yearly averages, pass-fail status, the official rank policy, the score
// prediction back-solve and the perfect-score reward counter.
//
// Every function is side-effect free. Missing data is reported as a nil
// result or RankInsufficient, never as an error.
package grading
