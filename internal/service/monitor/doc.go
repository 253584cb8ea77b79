// Package monitor polls the security server and reacts to alarm changes.
//
// Every alarm status transition is logged. Entering ALARM optionally runs a
// hook command once per alarm; an alarm already raised when the monitor
// starts does not run it.
package monitor
