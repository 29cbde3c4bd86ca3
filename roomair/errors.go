package roomair

import (
	"github.com/pkg/errors"
)

var (
	ErrUnknownName                    = errors.New("unknown name")
	ErrDuplicateName                  = errors.New("duplicate name")
	ErrSurfaceAssignment              = errors.New("surface assigned to more than one air node")
	ErrControlNode                    = errors.New("control node missing")
	ErrVolumeFraction                 = errors.New("air node volume fractions must lie in (0, 1] and sum to 1")
	ErrZoneVolume                     = errors.New("zone air volume must be positive")
	ErrCapacityMultiplier             = errors.New("zone capacity multipliers must be positive")
	ErrScheme                         = errors.New("unknown zone air solution algorithm")
	ErrEquipmentNotFound              = errors.New("equipment not found in zone equipment list")
	ErrInletNodeMismatch              = errors.New("inlet node count mismatch")
	ErrFractionSum                    = errors.New("equipment fractions do not sum to 1")
	ErrUncontrolledSupplyAirReference = errors.New("supply air reference temperature in a zone without equipment configuration")
	ErrNoDeviceSimulator              = errors.New("no device simulator")
	ErrNoMoistureBalance              = errors.New("no surface moisture balance")
	ErrStepInput                      = errors.New("step input does not match the model")
	ErrOutOfRange                     = errors.New("index out of range")
)
