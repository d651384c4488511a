package profile

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the output directory. The current directory is used if empty.
	Path string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start starts profiling and returns a [Stopper] that ends it.
// Both Start and Stop are always safe to call, and Stop is a no-op when
// profiling is disabled.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether p would start a profiler.
func (p Profiler) Enabled() bool {
	for _, m := range Modes() {
		if m == p.Mode {
			return true
		}
	}

	return false
}

type ignore struct{}

func (ignore) Stop() {}
