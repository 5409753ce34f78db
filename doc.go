/*
Package squads defines the common interfaces that make up the
authorization engine for a shared custody vault: threshold-governed
proposals, compiled vault transactions, and budgeted spending limits.

The engine is a deterministic state machine. Every submission is a signed
transaction carrying a single message. A message is routed to a handler
which evaluates it against the latest committed state and either produces
one atomic state transition or a typed rejection. All coordination between
independent members happens through that serialized state; there is no
in-process locking model.

Extensions live under x/ and register their handlers on a router. The app
package assembles the router with the standard decorator stack (signature
verification, savepoints, panic recovery, logging) into a single Handler
that the surrounding transport layer drives.
*/
package squads
