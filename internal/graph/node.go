package graph

// NodeDef is the buildable description of a node: its name, operation,
// requested device, and attributes. Connectivity is graph state, not
// part of the definition.
type NodeDef struct {
	Name   string
	Op     string
	Device string
	Attrs  AttrMap
}

// Clone returns a deep copy of the definition.
func (d NodeDef) Clone() NodeDef {
	d.Attrs = d.Attrs.Clone()
	return d
}

// Node is a node held by a Graph. Nodes are created through
// Graph.AddNode and stay valid until removed.
type Node struct {
	id       NodeID
	def      NodeDef
	assigned string
	outTypes []DataType
	in       []Edge
	out      []Edge
}

// ID returns the node's stable identifier within its graph.
func (n *Node) ID() NodeID { return n.id }

// Name returns the node name.
func (n *Node) Name() string { return n.def.Name }

// Op returns the operation name.
func (n *Node) Op() string { return n.def.Op }

// Def returns a deep copy of the node's definition.
func (n *Node) Def() NodeDef { return n.def.Clone() }

// Device returns the requested device placement, if any.
func (n *Node) Device() string { return n.def.Device }

// SetDevice sets the requested device placement.
func (n *Node) SetDevice(device string) { n.def.Device = device }

// AssignedDevice returns the device assigned by placement, if any.
func (n *Node) AssignedDevice() string { return n.assigned }

// SetAssignedDevice sets the assigned device.
func (n *Node) SetAssignedDevice(device string) { n.assigned = device }

// Attrs returns the node's live attribute map. Callers must not mutate
// it directly; use AddAttr and ClearAttr.
func (n *Node) Attrs() AttrMap { return n.def.Attrs }

// Attr returns the named attribute value.
func (n *Node) Attr(name string) (AttrValue, bool) {
	v, ok := n.def.Attrs[name]
	return v, ok
}

// AddAttr sets an attribute, replacing any previous value.
func (n *Node) AddAttr(name string, v AttrValue) {
	if n.def.Attrs == nil {
		n.def.Attrs = make(AttrMap)
	}
	n.def.Attrs[name] = v
}

// ClearAttr removes an attribute if present.
func (n *Node) ClearAttr(name string) {
	delete(n.def.Attrs, name)
}

// NumOutputs returns the number of declared outputs.
func (n *Node) NumOutputs() int { return len(n.outTypes) }

// OutputType returns the declared type of output i.
func (n *Node) OutputType(i int) DataType { return n.outTypes[i] }
