// Package component provides stateful component classes for vtree.
//
// A Class pairs a name with a factory producing a Behavior. Behaviors render
// from props and state and may implement any of the optional lifecycle
// interfaces (Initializer, DidMounter, ShouldUpdater, WillUpdater,
// DidUpdater, WillUnmounter).
//
//	type counter struct{ inst *component.Instance }
//
//	func (c *counter) Init(vtree.Props) vtree.State { return vtree.State{"count": 0} }
//	func (c *counter) DidMount(inst *component.Instance) { c.inst = inst }
//	func (c *counter) Render(p vtree.Props, s vtree.State) vtree.Result {
//	    return vtree.Host("TextLabel", vtree.Props{"Text": fmt.Sprint(s["count"])}, nil)
//	}
//
//	var Counter = component.New("Counter", func() component.Behavior { return &counter{} })
//
// SetState shallow-merges into the current state and re-renders
// synchronously. Calling it from Render fails, as does calling it after the
// instance has been unmounted.
package component
