package graph

// Store owns the nodes and edges of one editor session.
// It is not safe for concurrent use; callers serialize access.
// Every mutation is visible to the next Snapshot call.
type Store struct {
	ids    *IDAllocator
	policy ConnectionPolicy
	nodes  []Node
	edges  []Edge
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithConnectionPolicy overrides the default connection policy
func WithConnectionPolicy(p ConnectionPolicy) StoreOption {
	return func(s *Store) { s.policy = p }
}

// WithIDAllocator shares an allocator between stores
func WithIDAllocator(a *IDAllocator) StoreOption {
	return func(s *Store) { s.ids = a }
}

// NewStore creates an empty store
func NewStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewIDAllocator()
	}
	return s
}

// AddNode creates a node of the given kind at pos with the kind's default payload
func (s *Store) AddNode(kind NodeKind, pos Position) (Node, error) {
	factory, ok := lookupKind(kind)
	if !ok {
		return Node{}, ErrUnknownNodeKind
	}
	id, ordinal := s.ids.Next()
	n := Node{
		ID:       id,
		Kind:     kind,
		Position: pos,
		Payload:  factory(ordinal),
	}
	s.nodes = append(s.nodes, n)
	return n, nil
}

// UpdateNodePayload replaces the payload of an existing node
func (s *Store) UpdateNodePayload(id string, p Payload) error {
	i := s.nodeIndex(id)
	if i < 0 {
		return ErrNodeNotFound
	}
	s.nodes[i].Payload = p
	return nil
}

// MoveNode records a position reported by the renderer
func (s *Store) MoveNode(id string, pos Position) error {
	i := s.nodeIndex(id)
	if i < 0 {
		return ErrNodeNotFound
	}
	s.nodes[i].Position = pos
	return nil
}

// AddEdge connects source to target. On rejection the edge set is left untouched.
func (s *Store) AddEdge(source, target string) (Edge, error) {
	e := NewEdge(source, target)
	if err := e.Validate(); err != nil {
		return Edge{}, err
	}
	if s.nodeIndex(source) < 0 {
		return Edge{}, ErrSourceNodeNotFound
	}
	if s.nodeIndex(target) < 0 {
		return Edge{}, ErrTargetNodeNotFound
	}
	if err := s.policy.Check(e, s.edges); err != nil {
		return Edge{}, err
	}
	s.edges = append(s.edges, e)
	return e, nil
}

// RemoveNode deletes a node and every edge touching it. The dropped edges are returned.
func (s *Store) RemoveNode(id string) ([]Edge, error) {
	i := s.nodeIndex(id)
	if i < 0 {
		return nil, ErrNodeNotFound
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)

	var dropped []Edge
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Source == id || e.Target == id {
			dropped = append(dropped, e)
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	return dropped, nil
}

// RemoveEdge deletes a single edge
func (s *Store) RemoveEdge(id string) error {
	for i, e := range s.edges {
		if e.ID == id {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return nil
		}
	}
	return ErrEdgeNotFound
}

// Node returns a copy of the node with the given id
func (s *Store) Node(id string) (Node, bool) {
	i := s.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Len returns the number of nodes and edges
func (s *Store) Len() (nodes, edges int) {
	return len(s.nodes), len(s.edges)
}

// Snapshot copies the current nodes and edges in insertion order
func (s *Store) Snapshot() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.nodes)),
		Edges: make([]Edge, len(s.edges)),
	}
	copy(out.Nodes, s.nodes)
	copy(out.Edges, s.edges)
	return out
}

// Restore replaces the store content with a previously saved snapshot.
// Nodes and edges go through the same checks as interactive edits, and the
// allocator skips every ordinal already in use. On error the store is unchanged.
func (s *Store) Restore(snap Snapshot) error {
	tmp := &Store{ids: s.ids, policy: s.policy}
	var maxOrdinal uint64
	for _, n := range snap.Nodes {
		if n.ID == "" {
			return ErrInvalidNodeID
		}
		if !IsKnownKind(n.Kind) {
			return ErrUnknownNodeKind
		}
		if tmp.nodeIndex(n.ID) >= 0 {
			return ErrDuplicateNode
		}
		if ord, ok := ParseNodeOrdinal(n.ID); ok && ord > maxOrdinal {
			maxOrdinal = ord
		}
		tmp.nodes = append(tmp.nodes, n)
	}
	for _, e := range snap.Edges {
		if _, err := tmp.AddEdge(e.Source, e.Target); err != nil {
			return err
		}
	}
	s.ids.Skip(maxOrdinal)
	s.nodes, s.edges = tmp.nodes, tmp.edges
	return nil
}

func (s *Store) nodeIndex(id string) int {
	for i, n := range s.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
