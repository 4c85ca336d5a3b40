// ABOUTME: BFS from the root set to explain how an object is retained
// ABOUTME: Used to annotate sanity check failures with a path from a root

package graph

// Path is a chain of addresses from a root to a target, root first.
type Path struct {
	IDs []ObjID
}

// Root returns the first address of the path, or 0 for an empty path.
func (p Path) Root() ObjID {
	if len(p.IDs) == 0 {
		return 0
	}
	return p.IDs[0]
}

// RetentionPath returns a shortest path from any root, ordinary or pinned,
// to target. ok is false when target is unreachable. Edges are followed only
// out of objects present in the heap, so a dangling target is still found
// through the pointer that names it.
func RetentionPath(g Graph, target ObjID) (Path, bool) {
	if target == 0 {
		return Path{}, false
	}

	roots := g.GetRoots()
	// parent[id] is the address id was first reached from; 0 marks a root
	parent := make(map[ObjID]ObjID)
	queue := make([]ObjID, 0, len(roots.IDs)+len(roots.Pinned))
	for _, ids := range [][]ObjID{roots.IDs, roots.Pinned} {
		for _, id := range ids {
			if id == 0 {
				continue
			}
			if _, seen := parent[id]; seen {
				continue
			}
			parent[id] = 0
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == target {
			return Path{IDs: walkBack(parent, target)}, true
		}

		obj := g.GetObject(id)
		if obj == nil {
			continue
		}
		for _, ptr := range obj.Ptrs {
			if ptr == 0 {
				continue
			}
			if _, seen := parent[ptr]; seen {
				continue
			}
			parent[ptr] = id
			queue = append(queue, ptr)
		}
	}
	return Path{}, false
}

func walkBack(parent map[ObjID]ObjID, target ObjID) []ObjID {
	var rev []ObjID
	for id := target; id != 0; id = parent[id] {
		rev = append(rev, id)
	}
	path := make([]ObjID, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}
