package api

// Options configures the tracker service.
type Options struct {
	DatabasePath string
	JournalDir   string
}

// Start creates the tracker service and returns its command API.
func Start(opts Options, tuiAPI TuiAPI) RouteAPI {
	// Ensure implementation is registered
	if startImpl == nil {
		panic("Start implementation not registered - tracker package may not be imported")
	}
	// Delegate to implementation registered by tracker package
	return startImpl(opts, tuiAPI)
}

// startImpl is implemented in the tracker package to avoid a circular
// dependency and injected at runtime.
var startImpl func(Options, TuiAPI) RouteAPI

// SetStartImpl allows the tracker package to register its implementation
func SetStartImpl(impl func(Options, TuiAPI) RouteAPI) {
	startImpl = impl
}
