package bspline

import (
	"os"

	"github.com/cybergodev/json"

	"github.com/julianoes/tinyspline"
)

// splineJSON is the canonical serialization schema. The length of
// ControlPoints must equal Dimension * (len(Knots) - Degree - 1).
type splineJSON struct {
	Degree        int       `json:"degree"`
	Dimension     int       `json:"dimension"`
	ControlPoints []float64 `json:"control_points"`
	Knots         []float64 `json:"knots"`
}

// ToJSON serializes s to its canonical JSON form.
func (s *Spline) ToJSON() (string, error) {
	data, err := json.Marshal(splineJSON{
		Degree:        s.degree,
		Dimension:     s.dim,
		ControlPoints: s.ControlPoints(),
		Knots:         s.Knots(),
	})
	if err != nil {
		return "", tinyspline.Errorf(tinyspline.ErrParse,
			"cannot serialize spline: %v", err)
	}
	return string(data), nil
}

// ParseJSON reconstructs a spline from its canonical JSON form,
// enforcing every invariant of the representation.
func ParseJSON(text string) (*Spline, error) {
	var obj splineJSON
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, tinyspline.Errorf(tinyspline.ErrParse,
			"invalid json input: %v", err)
	}
	if obj.Dimension < 1 {
		return nil, tinyspline.Errorf(tinyspline.ErrDimZero,
			"unsupported dimension: %d", obj.Dimension)
	}
	if obj.Degree < 0 {
		return nil, tinyspline.Errorf(tinyspline.ErrParse,
			"negative degree: %d", obj.Degree)
	}
	if len(obj.ControlPoints)%obj.Dimension != 0 {
		return nil, tinyspline.Errorf(tinyspline.ErrLCtrlpDimMismatch,
			"len(control_points) (%d) %% dimension (%d) != 0",
			len(obj.ControlPoints), obj.Dimension)
	}
	numCtrlp := len(obj.ControlPoints) / obj.Dimension
	if obj.Degree >= numCtrlp {
		return nil, tinyspline.Errorf(tinyspline.ErrDegGeNCtrlp,
			"degree (%d) >= num(control_points) (%d)",
			obj.Degree, numCtrlp)
	}
	numKnots := numCtrlp + obj.Degree + 1
	if len(obj.Knots) != numKnots || numKnots > tinyspline.MaxNumKnots {
		return nil, tinyspline.Errorf(tinyspline.ErrNumKnots,
			"unsupported number of knots: %d", len(obj.Knots))
	}
	if err := validateKnots(obj.Knots, obj.Degree); err != nil {
		return nil, err
	}
	return &Spline{
		degree: obj.Degree,
		dim:    obj.Dimension,
		ctrlp:  append([]float64(nil), obj.ControlPoints...),
		knots:  append([]float64(nil), obj.Knots...),
	}, nil
}

// Save persists s as JSON file at path.
func (s *Spline) Save(path string) error {
	data, err := s.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return tinyspline.Errorf(tinyspline.ErrIO,
			"cannot write file: %v", err)
	}
	return nil
}

// Load reads a spline from the JSON file at path.
func Load(path string) (*Spline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tinyspline.Errorf(tinyspline.ErrIO,
			"cannot read file: %v", err)
	}
	return ParseJSON(string(data))
}
