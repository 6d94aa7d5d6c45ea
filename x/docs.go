/*
Package x contains the extensions the ledger application is built from.

Extensions implement common functionality (Handler, Decorator, etc.) and
are combined together by the app package. This package defines the
Authenticator abstraction shared by all of them, so that a handler never
depends on a concrete signature scheme.
*/
package x
