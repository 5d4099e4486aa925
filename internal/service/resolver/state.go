package resolver

// state is the per-resolution traversal state. It is owned by a single
// resolution and never shared. Ids are processed one BFS layer at a time:
// layer holds the current depth, pending the next one.
type state struct {
	visited map[string]struct{}
	layer   []string
	pending []string
}

func newState(seed string) *state {
	return &state{
		visited: make(map[string]struct{}),
		layer:   []string{seed},
	}
}

// visit marks id visited. It reports false for empty or already visited ids.
func (s *state) visit(id string) bool {
	if id == "" || s.seen(id) {
		return false
	}
	s.visited[id] = struct{}{}
	return true
}

// enqueue appends unvisited ids to the next layer. Duplicates are allowed;
// visit rejects them once the first copy is processed.
func (s *state) enqueue(ids ...string) {
	for _, id := range ids {
		if id != "" && !s.seen(id) {
			s.pending = append(s.pending, id)
		}
	}
}

// advance makes the next layer current and returns it. An empty result ends
// the traversal.
func (s *state) advance() []string {
	s.layer, s.pending = s.pending, nil
	return s.layer
}

func (s *state) seen(id string) bool {
	_, ok := s.visited[id]
	return ok
}

func (s *state) visitedCount() int { return len(s.visited) }
