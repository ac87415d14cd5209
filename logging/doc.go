// Package logging provides the process-wide structured logger used by the
// batch runner and the tagsql command.
//
// It wraps [log/slog] behind one global logger that is installed once and
// then retrieved with GetLogger:
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug}); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Close()
//
//	logging.WithComponent("batch").Info("run finished", "failed", 0)
//
// If GetLogger is called before Init, an INFO text logger on stderr is
// installed lazily. Stdout is left to program output.
//
// Parser tracing does not go through the global logger: callers pass a
// *slog.Logger explicitly so that tracing stays per call.
package logging
