/*
Package cash implements wallets holding balances of fungible assets and the
transfer service other extensions use to move them.

The controller never checks who asked for a transfer. Authorization of the
sending party is the responsibility of the calling extension.
*/
package cash
