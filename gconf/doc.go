/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Every extension keeps at most one configuration object, stored under the
"_c:<extension name>" key. The object is usually loaded from the genesis
file once and read by handlers on every transaction.

Not being able to load a configuration is a critical condition for the
application. Callers decide whether that is an error or a reason to panic.
*/
package gconf
