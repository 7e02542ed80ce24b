package mask

// RemoveSmallComponents zeroes 8-connected groups of covered pixels smaller
// than minRatio of the total coverage. Returns the number of pixels cleared.
// A mask with a single component is left as is.
func (m *Mask) RemoveSmallComponents(minRatio float64) int {
	w, h := m.Width, m.Height
	total := 0
	for _, v := range m.Pix {
		if v > 0 {
			total++
		}
	}
	if total == 0 || minRatio <= 0 {
		return 0
	}

	labels := make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}
	var compSizes []int
	compID := 0

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}

	queue := make([]int, 0, 1024)

	for idx := range m.Pix {
		if m.Pix[idx] == 0 || labels[idx] >= 0 {
			continue
		}

		// BFS from this pixel
		queue = append(queue[:0], idx)
		labels[idx] = compID
		size := 0

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			size++

			cy := curr / w
			cx := curr % w
			for d := 0; d < 8; d++ {
				nx := cx + dx[d]
				ny := cy + dy[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if m.Pix[ni] > 0 && labels[ni] < 0 {
					labels[ni] = compID
					queue = append(queue, ni)
				}
			}
		}

		compSizes = append(compSizes, size)
		compID++
	}

	if compID <= 1 {
		return 0
	}

	minSize := int(float64(total) * minRatio)
	cleared := 0
	for i, l := range labels {
		if l >= 0 && compSizes[l] < minSize {
			m.Pix[i] = 0
			cleared++
		}
	}
	return cleared
}
