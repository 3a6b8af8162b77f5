package component

// Clock is the simulation time resource.
type Clock struct {
	// FrameDt is the length of the current frame.
	FrameDt float64
	// FixedDt is the length of one fixed step.
	FixedDt float64
	Elapsed float64
	Frame   uint64
	Ticks   uint64
}

var ClockComponent = NewComponent[Clock]()
