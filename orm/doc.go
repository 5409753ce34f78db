/*
Package orm provides a thin, type-safe persistence layer on top of the
KVStore.

Every entity is stored under a bucket that namespaces its keys and frames
the serialized payload with an 8-byte account discriminator derived from
the model type name. The discriminator guards against decoding a payload
as the wrong account kind, which matters because all entity addresses
live in one flat keyspace of derived addresses.
*/
package orm
