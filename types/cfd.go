package types

type BCFLAG uint8

const (
	BC_None      BCFLAG = iota // Interior point, both neighbors are read
	BC_Dirichlet               // Missing lower neighbor replaced by a prescribed value
	BC_Neuman                  // Zero gradient, upper ghost point mirrors the last interior neighbor
	BC_Wall                    // No-slip wall, a Dirichlet condition with model specific values
	BC_Far                     // Far field / centerline, a Neuman condition
)

func (bc BCFLAG) String() string {
	switch bc {
	case BC_None:
		return "None"
	case BC_Dirichlet:
		return "Dirichlet"
	case BC_Neuman:
		return "Neuman"
	case BC_Wall:
		return "Wall"
	case BC_Far:
		return "Far"
	}
	return "Unknown"
}

// Canonical reduces the model level flags to the two stencil policies
func (bc BCFLAG) Canonical() BCFLAG {
	switch bc {
	case BC_Wall:
		return BC_Dirichlet
	case BC_Far:
		return BC_Neuman
	}
	return bc
}
