package intcode

// maxCells bounds memory that has no configured limit, keeping every
// address and size well inside int64 and the allocator's range.
const maxCells = 1 << 40

// Memory is the address space of a Machine: program, data and
// scratch cells share it.
type Memory struct {
	cells  []int64
	policy MemoryPolicy
	limit  int // negative means unbounded
}

// NewMemory returns a Memory holding a copy of prog.
// Under the Grow policy the memory may grow to at most limit cells;
// a negative limit removes the bound.
func NewMemory(prog []int64, policy MemoryPolicy, limit int) *Memory {
	cells := make([]int64, len(prog))
	copy(cells, prog)
	return &Memory{cells: cells, policy: policy, limit: limit}
}

// Len returns the current number of cells.
func (m *Memory) Len() int { return len(m.cells) }

// Cells returns a copy of the memory contents.
func (m *Memory) Cells() []int64 {
	c := make([]int64, len(m.cells))
	copy(c, m.cells)
	return c
}

// Grow extends the memory to hold at least n cells, zero-filling the new
// ones. Growing to a size already held is a no-op.
func (m *Memory) Grow(n int64) error {
	if n < 0 {
		return AddressFault
	}
	if n <= int64(len(m.cells)) {
		return nil
	}
	if n > m.ceiling() {
		return AddressFault
	}
	if n <= int64(cap(m.cells)) {
		m.cells = m.cells[:n]
		return nil
	}
	cells := make([]int64, n, max(n, int64(2*cap(m.cells))))
	copy(cells, m.cells)
	m.cells = cells
	return nil
}

// ceiling is the largest size the memory may grow to.
func (m *Memory) ceiling() int64 {
	if m.limit >= 0 && int64(m.limit) < maxCells {
		return int64(m.limit)
	}
	return maxCells
}

func (m *Memory) reach(addr int64) error {
	if addr < 0 {
		return AddressFault
	}
	if addr < int64(len(m.cells)) {
		return nil
	}
	if m.policy == Fixed || addr >= m.ceiling() {
		return AddressFault
	}
	return m.Grow(addr + 1)
}

// Peek returns the value at addr without growing the memory. Cells past
// the end read as zero.
func (m *Memory) Peek(addr int64) (int64, error) {
	if addr < 0 {
		return 0, AddressFault
	}
	if addr >= int64(len(m.cells)) {
		return 0, nil
	}
	return m.cells[addr], nil
}

// Read returns the value at addr.
func (m *Memory) Read(addr int64) (int64, error) {
	if addr >= 0 && addr < int64(len(m.cells)) {
		return m.cells[addr], nil
	}
	if err := m.reach(addr); err != nil {
		return 0, err
	}
	return m.cells[addr], nil
}

// Write stores v at addr.
func (m *Memory) Write(addr, v int64) error {
	if err := m.reach(addr); err != nil {
		return err
	}
	m.cells[addr] = v
	return nil
}
