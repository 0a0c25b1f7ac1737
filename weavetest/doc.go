/*
Package weavetest provides fakes of the core interfaces, such as handlers,
decorators, authenticators and transactions, to be used in extension tests.
*/
package weavetest
