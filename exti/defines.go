package exti

import (
	"iter"
	"maps"
)

var _exti_defines = map[string]uint32{
	"ENIR":  REG_ENIR,
	"EIRR":  REG_EIRR,
	"EICL":  REG_EICL,
	"ELVR":  REG_ELVR,
	"ELVR1": REG_ELVR1,
	"NMIRR": REG_NMIRR,
	"NMICL": REG_NMICL,
}

// Defines returns the register names of the controller, and their offsets.
func Defines() iter.Seq2[string, uint32] {
	return maps.All(_exti_defines)
}
