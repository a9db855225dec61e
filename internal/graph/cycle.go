// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

// WouldCreateCycle reports whether adding source -> target would close a
// directed cycle: source equals target, or target already reaches source.
func (g *Graph) WouldCreateCycle(source, target string) bool {
	if source == target {
		return true
	}
	visited := map[string]bool{target: true}
	queue := []string{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.succ[cur] {
			if next == source {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
