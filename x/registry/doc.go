/*
Package registry implements the member registry, the root account of
every shared custody setup. A registry names the members, what each one
is allowed to do, and how many approvals a proposal needs before its
transaction may execute.

Configuration can be changed in two ways. A registry with a config
authority accepts direct configuration messages signed by that key. An
autonomous registry (zero config authority) only reconfigures itself
through an approved transaction, where the execution dispatcher signs
with the registry's own derived address.

Every configuration change invalidates all transactions still in flight
by raising the stale index cutoff.
*/
package registry
