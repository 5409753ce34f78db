/*
Package errors implements the coded error taxonomy of the engine.

Every error returned to a caller wraps exactly one registered root error.
The root carries a stable numeric code so that independent callers can
classify a rejection (authorization, state, budget, execution) without
parsing strings, and decide whether resubmission requires correction or a
plain retry.
*/
package errors
