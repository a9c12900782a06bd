package poses

import (
	"fmt"
	"strconv"
	"strings"
)

type Axis string

const (
	AxisTX Axis = "tx"
	AxisTY Axis = "ty"
	AxisTZ Axis = "tz"
	AxisRX Axis = "rx"
	AxisRY Axis = "ry"
	AxisRZ Axis = "rz"
)

var (
	TranslationAxes = [3]Axis{AxisTX, AxisTY, AxisTZ}
	RotationAxes    = [3]Axis{AxisRX, AxisRY, AxisRZ}
)

func (a Axis) String() string {
	return string(a)
}

// Index is the component index of the axis (x=0, y=1, z=2).
func (a Axis) Index() int {
	switch a {
	case AxisTX, AxisRX:
		return 0
	case AxisTY, AxisRY:
		return 1
	case AxisTZ, AxisRZ:
		return 2
	default:
		return -1
	}
}

func (a Axis) IsTranslation() bool {
	return a == AxisTX || a == AxisTY || a == AxisTZ
}

func (a Axis) IsRotation() bool {
	return a == AxisRX || a == AxisRY || a == AxisRZ
}

// AxisValueError reports an axis attribute that could not be read as a number.
type AxisValueError struct {
	Joint string
	Axis  Axis
	Raw   string
	Err   error
}

func (e *AxisValueError) Error() string {
	return fmt.Sprintf("joint %s: axis %s: %q is not a number", e.Joint, e.Axis, e.Raw)
}

func (e *AxisValueError) Unwrap() []error {
	return []error{ErrAxisValueFormat, e.Err}
}

/**
 * @brief The numeric values of a joint. A nil entry means the axis is
 * not driven by the pose and must be left untouched, which is different
 * from an explicit zero.
 */
type JointValues struct {
	Joint        string
	Translations [3]*float64
	Rotations    [3]*float64
}

// Get returns the value for axis and whether it is set.
func (v JointValues) Get(axis Axis) (float64, bool) {
	i := axis.Index()
	if i < 0 {
		return 0, false
	}
	var p *float64
	if axis.IsTranslation() {
		p = v.Translations[i]
	} else {
		p = v.Rotations[i]
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// IsEmpty is true when no axis is set.
func (v JointValues) IsEmpty() bool {
	for i := 0; i < 3; i++ {
		if v.Translations[i] != nil || v.Rotations[i] != nil {
			return false
		}
	}
	return true
}

// Values parses the translation and rotation axes of the joint. Missing or
// blank attributes stay unset.
func (j *Joint) Values() (JointValues, error) {
	values := JointValues{Joint: j.name}
	for i, axis := range TranslationAxes {
		v, err := parseAxis(j, CategoryTranslations, axis)
		if err != nil {
			return JointValues{}, err
		}
		values.Translations[i] = v
	}
	for i, axis := range RotationAxes {
		v, err := parseAxis(j, CategoryRotations, axis)
		if err != nil {
			return JointValues{}, err
		}
		values.Rotations[i] = v
	}
	return values, nil
}

func parseAxis(j *Joint, category string, axis Axis) (*float64, error) {
	raw, ok := j.categories[category][string(axis)]
	if !ok {
		return nil, nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, &AxisValueError{Joint: j.name, Axis: axis, Raw: raw, Err: err}
	}
	return &f, nil
}
