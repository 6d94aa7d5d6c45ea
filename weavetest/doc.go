/*
Package weavetest provides fakes of the collaborators a ledger depends on:
authenticators, a controllable clock, an event recorder, handlers,
decorators and on disk stores. It is meant to be imported by tests only.
*/
package weavetest
