package assign

import "math"

// solveRectangular solves the rectangular linear assignment problem for an
// n×m cost matrix using the Kuhn–Munkres algorithm with potentials
// (Jonker-Volgenant variant), O(dim³) with dim = max(n, m).
//
// The matrix is padded to square with a large sentinel cost so excess rows
// stay unassigned. Returns result[i] = column assigned to row i, or -1.
func solveRectangular(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if m == 0 {
		result := make([]int, n)
		for i := range result {
			result[i] = -1
		}
		return result
	}

	dim := n
	if m > dim {
		dim = m
	}

	// Padded square copy; the sentinel keeps padded cells from ever being
	// preferred over real ones.
	const pad = 1e18
	c := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		c[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < n && j < m {
				c[i][j] = cost[i][j]
			} else {
				c[i][j] = pad
			}
		}
	}

	const inf = math.MaxFloat64 / 2

	// 1-indexed internally; column 0 is the virtual start of each
	// augmenting path.
	u := make([]float64, dim+1)    // row potentials
	v := make([]float64, dim+1)    // column potentials
	p := make([]int, dim+1)        // p[j] = row matched to column j
	way := make([]int, dim+1)      // predecessor column on the path
	minv := make([]float64, dim+1) // best slack per column
	used := make([]bool, dim+1)

	for i := 1; i <= dim; i++ {
		p[0] = i
		j0 := 0
		for j := 1; j <= dim; j++ {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1

			for j := 1; j <= dim; j++ {
				if used[j] {
					continue
				}
				cur := c[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 < 0 {
				break
			}

			for j := 0; j <= dim; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Augment along the stored path.
		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	rowAssign := make([]int, dim)
	for i := range rowAssign {
		rowAssign[i] = -1
	}
	for j := 1; j <= dim; j++ {
		if p[j] > 0 && p[j] <= dim {
			rowAssign[p[j]-1] = j - 1
		}
	}

	// Trim the padding back off.
	result := make([]int, n)
	for i := 0; i < n; i++ {
		col := rowAssign[i]
		if col < 0 || col >= m {
			result[i] = -1
		} else {
			result[i] = col
		}
	}
	return result
}
