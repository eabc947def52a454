package graph

import "github.com/joshharrison/timeloom/internal/circuit"

// Arc is one dependency through a shared wire. In Adj it names the
// successor node, in RevAdj the predecessor.
type Arc struct {
	Node int
	Wire circuit.Wire
}

// DAG is the program dependency graph of a circuit. Node i is
// Circuit.Instructions[i]; consecutive users of a wire are joined by an
// arc labelled with that wire.
type DAG struct {
	Circuit *circuit.Circuit
	Adj     [][]Arc // node -> later users of its wires
	RevAdj  [][]Arc // node -> earlier users of its wires
	Roots   []int   // nodes with no predecessors
	Leaves  []int   // nodes with no successors
}
