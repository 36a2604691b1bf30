/*
Package cash defines a simple implementation of sending coins
between wallets.

There is no logic in the coins (tokens), except that the balance
of any coin may not go below zero. Thus, this implementation is
referred to as cash. Simple and safe.

Wallets are keyed by address. An address may belong to a public key
or to any condition an extension can place in the context, which is
how the escrow extension keeps custody of deposited coins.
*/
package cash
