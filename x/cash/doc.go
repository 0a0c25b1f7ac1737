/*
Package cash defines a simple implementation of sending coins
between wallets.

There is no logic in the coins, except that the balance
of any coin may not go below zero. Thus, this implementation is
referred to as cash. Simple and safe.

Cash is the native currency of the chain. The token ledger charges
the reserve of every token account in cash, and returns it when the
account is closed.
*/
package cash
