/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object under its package name.
The initial value is loaded from the "conf" section of the genesis file.
*/
package gconf
