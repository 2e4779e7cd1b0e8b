// Package login implements the login flow controller: the state machine
// behind a single "Login" control.
//
// # States
//
//	Idle ──click──> ResolvingMethods ──no providers──> NoProvidersNotified ──> Idle
//	                       │
//	                       ├──discovery error──> Failed ──> Idle
//	                       │
//	                       └──provider──> Authorizing ──success──> Completed
//	                                           │
//	                                           └──failure──> Failed ──> Idle
//
// The control is disabled, and labelled "Authorizing...", exactly while an
// authorization is in flight. Discovery alone never disables it. On success
// the control stays busy: the page is expected to be handed off.
//
// # Clicks
//
// Click is the only input. It is accepted only in Idle; anywhere else it is a
// no-op and returns nil. A single-flight guard makes this hold even for clicks
// racing from several goroutines, so one controller never has two discoveries
// or two exchanges outstanding.
//
// Click runs discovery on the caller's goroutine and returns once the control
// reflects its result; the exchange itself runs in the background and is
// observed through the returned Attempt:
//
//	attempt := ctrl.Click(ctx)
//	if attempt == nil {
//	    return // busy, click ignored
//	}
//	fmt.Println(ctrl.Control().Label) // "Authorizing..." if a provider was found
//	result, err := attempt.Wait(ctx)
//
// Errors never escape the controller: every failure is turned into a
// notification and a reset to {Login, enabled}.
package login
