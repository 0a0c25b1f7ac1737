/*
Package token implements a fungible token ledger.

A Mint describes a token type. Balances are kept in token accounts, each
holding a single mint. Every account has an owner, used to find accounts
that belong to somebody, and an authority that must be present in the
request context to move the balance or to close the account. The authority
does not need to be a key: any condition an extension can place into the
context is accepted, which allows program controlled holding accounts.

Creating an account charges the configured reserve in native cash coins
from the payer. The reserve is kept at the account address and returned
when the account is closed.
*/
package token
