/*
Package derive computes the deterministic addresses of every account kind
the engine manages. Each address is derived from a fixed seed layout and
the program ID, so any party can recompute where an account lives from
public inputs alone, without a registry lookup.

The derivation also yields a bump byte. Storing the bump on the account
and re-deriving on access proves the account was created through this
seed layout and not planted at an arbitrary address.
*/
package derive
