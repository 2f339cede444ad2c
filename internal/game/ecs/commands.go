package ecs

// Commands buffers structural mutations issued while a phase reads the World.
// Nothing is applied until Flush, so every decision in the phase observes the
// same entities.
type Commands struct {
	ops []func(*World)
}

// NewCommands returns an empty buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// Spawn queues creation of an entity carrying components.
func (c *Commands) Spawn(components ...any) {
	c.ops = append(c.ops, func(w *World) { w.Spawn(components...) })
}

// Despawn queues removal of e. Removing an entity twice is harmless.
func (c *Commands) Despawn(e Entity) {
	c.ops = append(c.ops, func(w *World) { w.Despawn(e) })
}

// Attach queues attaching comp to e.
func (c *Commands) Attach(e Entity, comp any) {
	c.ops = append(c.ops, func(w *World) { w.Attach(e, comp) })
}

// Do queues an arbitrary mutation.
func (c *Commands) Do(fn func(*World)) {
	c.ops = append(c.ops, fn)
}

// Len returns the number of pending operations.
func (c *Commands) Len() int { return len(c.ops) }

// Flush applies the pending operations in issue order and empties the buffer.
// Operations queued by an operation during Flush run in the same Flush.
//
// Postcondition: c.Len() == 0.
func (c *Commands) Flush(w *World) int {
	n := 0
	for len(c.ops) > 0 {
		op := c.ops[0]
		c.ops = c.ops[1:]
		op(w)
		n++
	}
	c.ops = nil
	return n
}

// Detach queues removal of e's T component.
func Detach[T any](c *Commands, e Entity) {
	c.ops = append(c.ops, func(w *World) { Remove[T](w, e) })
}
