/*
Package escrow implements a trustless two party token swap.

A maker locks an amount of asset A and names the amount of asset B it
wants in return. Any taker can complete the trade by paying the maker in
asset B, which releases the locked asset A to the taker. Until then the
maker can cancel the trade and reclaim asset A. Both outcomes close the
escrow, and only one of them can ever happen.

The escrow record is stored under an address derived from the maker
address and a maker chosen seed. The locked coins are held by a wallet
whose address is derived from the same data. Nobody holds a private key
for that wallet. Only this extension can authorize a transfer out of it,
and only after recomputing the derivation from the stored record.
*/
package escrow
