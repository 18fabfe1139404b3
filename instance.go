package termplug

// Instance is one open editor GUI session. Hosts treat it as an opaque
// handle: obtain it from CreateEditor, pass it back into the other
// lifecycle calls. All mutable fields are guarded by the owning bridge's
// mutex; the id and editor never change after creation.
type Instance struct {
	id     string
	editor Editor

	component Component
	cols      int
	rows      int
	visible   bool
	hasTarget bool
}

// ID returns the generated identifier for this instance. It is unique
// for the life of the process and also keys the render-target registry.
func (inst *Instance) ID() string {
	if inst == nil {
		return ""
	}
	return inst.id
}

// renderSnapshot is the per-instance state the render loop copies out
// under the bridge mutex so rendering can happen without holding it.
type renderSnapshot struct {
	id        string
	component Component
	cols      int
	rows      int
}
