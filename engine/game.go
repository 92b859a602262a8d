package engine

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnShutdown        Shutdown
}

type Initialize func(e *Engine) error

// Update is called once per frame, before the deferred scene tasks run.
// Returning done ends the run loop after that frame.
type Update func(e *Engine, frame uint64) (done bool, err error)
type Shutdown func(e *Engine) error
