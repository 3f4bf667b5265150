package scripting

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/dice"
)

// Manager owns one sandboxed LState per loaded script and exposes hook
// dispatch.
//
// Manager is safe for concurrent use. Calls into the same script are
// serialized; an LState is single-threaded.
type Manager struct {
	mu        sync.Mutex
	states    map[string]*lua.LState
	instLimit int
	roller    *dice.Roller
	logger    *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller must be non-nil; instLimit <= 0 uses
// DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager with no scripts loaded.
func NewManager(roller *dice.Roller, instLimit int, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		states:    make(map[string]*lua.LState),
		instLimit: instLimit,
		roller:    roller,
		logger:    logger,
	}
}

// LoadFile loads the Lua file at path under name, replacing any script
// previously loaded under that name.
//
// Postcondition: on error the previous script, if any, is still loaded.
func (m *Manager) LoadFile(name, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scripting.LoadFile: reading %q: %w", path, err)
	}
	return m.LoadString(name, string(src))
}

// LoadString loads src under name.
func (m *Manager) LoadString(name, src string) error {
	L := NewSandboxedState()
	m.RegisterModules(L, name)

	release := Limit(L, m.instLimit)
	err := L.DoString(src)
	release()
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting.LoadString: loading %q: %w", name, err)
	}

	m.mu.Lock()
	if old, ok := m.states[name]; ok {
		old.Close()
	}
	m.states[name] = L
	m.mu.Unlock()
	m.logger.Info("script loaded", zap.String("script", name))
	return nil
}

// HasHook reports whether the named script defines a global function hook.
func (m *Manager) HasHook(name, hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	L, ok := m.states[name]
	if !ok {
		return false
	}
	_, isFn := L.GetGlobal(hook).(*lua.LFunction)
	return isFn
}

// CallHook calls the global function hook in the named script. Returns
// (LNil, nil) if the script or hook does not exist. Lua runtime errors,
// including an exhausted instruction budget, are logged at Warn and
// returned as LNil.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(name, hook string, args ...lua.LValue) lua.LValue {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[name]
	if !ok {
		m.logger.Debug("no script loaded", zap.String("script", name), zap.String("hook", hook))
		return lua.LNil
	}
	fn, ok := L.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		return lua.LNil
	}

	release := Limit(L, m.instLimit)
	defer release()
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("lua runtime error",
			zap.String("script", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret
}

// CallNumber calls hook with numeric arguments and reports whether it
// returned a number.
func (m *Manager) CallNumber(name, hook string, args ...float64) (float64, bool) {
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = lua.LNumber(a)
	}
	n, ok := m.CallHook(name, hook, largs...).(lua.LNumber)
	return float64(n), ok
}

// Close releases every loaded script.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, L := range m.states {
		L.Close()
		delete(m.states, name)
	}
}
