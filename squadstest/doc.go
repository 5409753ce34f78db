/*
Package squadstest provides mocks and helpers for testing handlers and
decorators without wiring the full application stack. All mocks follow
the same pattern: zero value is usable, attributes configure behaviour,
call counters observe usage.
*/
package squadstest
