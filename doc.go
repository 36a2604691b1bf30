/*

Package swapd defines interfaces used throughout the app, such as: storage, transactions, handlers etc.
It also contains helpers to work with conditions, derived addresses, context and abci results.
Extensions under x/ build on these interfaces. The escrow extension is the core of the
application, everything else supports it.

*/

package swapd
