/*
Package escrow implements a time-locked custody ledger.

An account locks an amount of the configured asset together with a release
timestamp. The funds are held by the custody address of the ledger and can
be reclaimed, in full, only once the ledger clock reaches that timestamp.
Each account can hold at most one escrow at a time.

Every live escrow is listed in the active-account index, which keeps the
order in which escrows were created. A record exists if and only if its
account is present in the index. Any operation that finds the two out of
sync panics: this is a broken invariant and no recovery is possible.
*/
package escrow
