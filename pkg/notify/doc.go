// Package notify delivers geofence transition notifications.
//
// Event processors hand every committed transition to a [Notifier]. The
// notifier is fire-and-forget: it returns nothing and must not block, so a
// slow sink never stalls a processor. Implementations that do I/O should
// buffer or drop rather than wait.
//
// # Sinks
//
//	// Console output via slog
//	n := notify.NewSlog(slog.Default())
//
//	// Append-only journal file
//	j, _ := notify.NewFileJournal("/var/lib/tagwatch/notifications.tnj")
//
//	// Both, plus an in-memory tail for the console
//	n := notify.NewMulti(notify.NewSlog(logger), j, notify.NewRecorder(50))
//
// # Journal Format
//
// Journal files are a sequence of CBOR-encoded [Notification] values with
// integer keys. [Reader] streams them back with an optional [Filter]; the
// tagwatch-journal tool is built on it.
package notify
