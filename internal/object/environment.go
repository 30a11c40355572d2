package object

import "log/slog"

// Environment is a stack of call Frames; each Frame is a stack of Blocks,
// one per nested lexical scope. Name resolution never crosses a Frame
// boundary: the language has no closures, so a function sees only its own
// locals and parameters.
type Block map[string]Object

type Frame struct {
	blocks []Block
}

type Environment struct {
	frames []*Frame
}

func NewEnvironment() *Environment {
	return &Environment{}
}

// PushFrame opens the activation record for a function call. The frame
// starts with one Block, which holds the bound parameters; the function
// body pushes its own Block on top.
func (e *Environment) PushFrame() {
	slog.Debug("push frame", slog.Int("depth", len(e.frames)+1))
	e.frames = append(e.frames, &Frame{blocks: []Block{{}}})
}

func (e *Environment) PopFrame() {
	if len(e.frames) == 0 {
		panic("pop on an empty frame stack")
	}
	e.frames = e.frames[:len(e.frames)-1]
	slog.Debug("pop frame", slog.Int("depth", len(e.frames)))
}

func (e *Environment) PushBlock() {
	f := e.currentFrame()
	f.blocks = append(f.blocks, Block{})
}

func (e *Environment) PopBlock() {
	f := e.currentFrame()
	if len(f.blocks) == 0 {
		panic("pop on an empty block stack")
	}
	f.blocks = f.blocks[:len(f.blocks)-1]
}

// Define binds name in the innermost Block. It fails only when the name is
// already present in that exact Block; shadowing an outer Block is allowed.
func (e *Environment) Define(name string, val Object) bool {
	f := e.currentFrame()
	block := f.blocks[len(f.blocks)-1]
	if _, exists := block[name]; exists {
		return false
	}
	block[name] = val
	return true
}

// Get resolves name against the current Frame's Blocks, innermost first.
func (e *Environment) Get(name string) (Object, bool) {
	f := e.currentFrame()
	for i := len(f.blocks) - 1; i >= 0; i-- {
		if val, ok := f.blocks[i][name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Assign replaces the value in the innermost Block where name is bound.
// It reports false when the name is unbound in the whole current Frame.
func (e *Environment) Assign(name string, val Object) bool {
	f := e.currentFrame()
	for i := len(f.blocks) - 1; i >= 0; i-- {
		if _, ok := f.blocks[i][name]; ok {
			f.blocks[i][name] = val
			return true
		}
	}
	return false
}

// FrameDepth reports the number of active call frames.
func (e *Environment) FrameDepth() int {
	return len(e.frames)
}

func (e *Environment) currentFrame() *Frame {
	if len(e.frames) == 0 {
		panic("no active frame")
	}
	return e.frames[len(e.frames)-1]
}
