package simbridge

// ModuleInit is the lifecycle hook for embedding hosts that load the
// bridge as a module: one eager connection attempt on load. Failure is
// fine; Tick retries with cooldown.
func (b *Bridge) ModuleInit() {
	b.EnsureConnected()
}

// ModuleDeinit is the unload hook: release the host handle.
func (b *Bridge) ModuleDeinit() {
	b.Close()
}

// Init attempts to connect once and reports the result. Equivalent to
// EnsureConnected; kept as a distinct entry point for embedders that
// check the result at load time.
func (b *Bridge) Init() bool {
	return b.EnsureConnected()
}
