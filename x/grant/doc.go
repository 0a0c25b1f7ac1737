/*
Package grant implements a token escrow between two parties.

A sender deposits tokens of a single mint into a holding account that no
key controls. The receiver can complete the grant and claim the tokens, or
the sender can cancel it and take the tokens back. Whichever happens first
wins, the other operation then fails.

Both the grant record and the holding account live at addresses derived
from the sender, the receiver, the mint and a caller chosen unique index.
Anybody can compute them off-chain with Derive. The holding account
authority is a condition that only this extension places into the request
context while it completes or cancels a grant.
*/
package grant
