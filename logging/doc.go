/*
Package logging provides a precise logging framework.

A LogRecord can be sent by the application. It contains a level,
message, timestamp, target (which subsystem the message came from) and
PC information (file, line number).

A Filter can determine whether a LogRecord should be accepted or not.

A Formatter can take a LogRecord and convert it to a string for easy persisting.

A Handle can persist a LogRecord as it deems fit.
Each Handle can have a (set of) Filters configured. The Handle will log
a record iff all Filters accept it.
A Handle *may* have a Formatter determine how the LogRecord should be persisted.
The lifecycle of a Handle is: init, log OR flush ..., close.

Multiple Handles can be configured on a running system.

A Logger is a Filter and a Handler registered under a name (AddLogger).
The record's target (subsystem) is inferred from the caller's package path.

The Filter determines whether to send the LogRecord to the Handler to persist.
FilterByLevel builds a Filter with a minimum log level.

There is no hierachy of Loggers.

Typical Usage:

  logging.AddLoggers([]string{"<stderr>"}, nil, logging.INFO, 0, false)
  logging.Info(ctx, formatString, params...)

The logging framework is typically initialized by the running application
ie early in its main method, via AddLogger or AddLoggers.

Nothing is initialized implicitly: a LogRecord published before any logger
is added is dropped.

A Handle created by NewHandlerWriter writes through an in-memory buffer of
bufsize bytes (4096 when bufsize <= 0). The buffer is flushed when it cannot
hold another record, and on Flush and Close; there is no flush timer.




On the backend, Loggers (encapsulation of filter and handler/writer)
are registered to a name.

When a Record is created, it is dispatched to all registered
Loggers. Each Logger will then publish the record if its filter accepts
it.

The easiest way to build a filter is off a Level. There's a convenience
Filter for that.

No logger is registered by default; until one is added with AddLogger
or AddLoggers, records are dropped.

You can replace a logger by registering a non-nil handler and filter to
the same name. You can remove a logger by registering a nil handler or
filter to the same name.

When a logger is added, the logging framework owns its lifecycle.
The framework will call Open or Close as needed, especially during calls to
AddLogger, or Close/Reopen.

This package is designed to affect the whole process, thus all functions are
package-level. At init time, it is a no-op. This way, different packages
are free to use it as needed. A process needs to explicitly add loggers
in its main() method to activate it.

The logging package levels are roughly modeled after syslog, with
NOTICE, ALERT and EMERGENCY collapsed into the levels that remain.

NOTE

Most of the helper methods (.Debug, .Info, etc) all take a
Context as the first parameter. Some environments require that context
e.g. App Engine.

*/
package logging
