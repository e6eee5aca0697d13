package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine owns a fixed pool of gopher-lua VMs, each loaded with the same
// scripts. An LState is single-goroutine, so every caller borrows a VM for
// the duration of one call; pool size should match the worker count.
type Engine struct {
	vms chan *lua.LState
	all []*lua.LState
	log *zap.Logger
}

// NewEngine creates size VMs and loads every .lua file in scriptsDir into
// each of them, in directory order.
func NewEngine(scriptsDir string, size int, log *zap.Logger) (*Engine, error) {
	if size < 1 {
		size = 1
	}
	e := &Engine{
		vms: make(chan *lua.LState, size),
		all: make([]*lua.LState, 0, size),
		log: log,
	}
	for i := 0; i < size; i++ {
		vm := lua.NewState(lua.Options{SkipOpenLibs: false})
		vm.SetGlobal("API_VERSION", lua.LNumber(1))
		e.all = append(e.all, vm)
		if err := e.loadDir(vm, scriptsDir); err != nil {
			e.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
		e.vms <- vm
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(vm *lua.LState, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Has reports whether the scripts define a global function called name.
func (e *Engine) Has(name string) bool {
	vm := e.acquire()
	defer e.release(vm)
	_, ok := vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Call invokes the global function name with args on a borrowed VM and
// returns its single result.
func (e *Engine) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	vm := e.acquire()
	defer e.release(vm)
	fn := vm.GetGlobal(name)
	if fn == lua.LNil {
		return lua.LNil, fmt.Errorf("lua function %s not found", name)
	}
	if err := vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, fmt.Errorf("lua %s: %w", name, err)
	}
	ret := vm.Get(-1)
	vm.Pop(1)
	return ret, nil
}

// NewTable builds a string-keyed table of numbers on a borrowed VM. Tables
// are plain values and may be passed to a call on any VM of the pool.
func (e *Engine) NewTable(fields map[string]float64) *lua.LTable {
	vm := e.acquire()
	defer e.release(vm)
	t := vm.NewTable()
	for k, v := range fields {
		t.RawSetString(k, lua.LNumber(v))
	}
	return t
}

func (e *Engine) acquire() *lua.LState  { return <-e.vms }
func (e *Engine) release(vm *lua.LState) { e.vms <- vm }

// Close shuts down every VM. The engine must not be used afterwards.
func (e *Engine) Close() {
	for _, vm := range e.all {
		vm.Close()
	}
	e.all = nil
}
