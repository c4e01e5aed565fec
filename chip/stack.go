package chip

const (
	StackLimit = 512 // Stack memory slots
)

// Stack is the chip's addressable stack memory. The stack pointer lives
// in the register file (RegSP); the Stack itself only validates
// addresses, with distinct kinds for each direction.
type Stack struct {
	Data [StackLimit]float64
}

func (s *Stack) Get(address int) (value float64, err error) {
	if address < 0 {
		err = ErrStackUnderflow
		return
	}
	if address >= StackLimit {
		err = ErrStackOverflow
		return
	}
	value = s.Data[address]
	return
}

func (s *Stack) Put(address int, value float64) (err error) {
	if address < 0 {
		err = ErrStackUnderflow
		return
	}
	if address >= StackLimit {
		err = ErrStackOverflow
		return
	}
	s.Data[address] = value
	return
}

func (s *Stack) Reset() {
	clear(s.Data[:])
}
