/*
Package eventloop provides the single shared run loop that the HTTP engine
drives, plus one-shot timers bound to it.

Scheduling is safe from any request-handling goroutine; callbacks always
execute on the loop goroutine. A timer fires at most once and the handle is
spent afterwards, so no shared mutable state needs additional locking as
long as it is only touched from loop callbacks.
*/
package eventloop
