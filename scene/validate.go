package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidCamera indicates a camera that cannot produce a usable projection.
var ErrInvalidCamera = errors.New("invalid camera")

// ValidationError lists every problem found on one camera.
type ValidationError struct {
	Camera   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("camera %q: %s", e.Camera, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidCamera
}

// Validate checks that the camera describes a usable projection. A
// perspective camera needs a field of view in (0, π]. The near plane must
// be positive and the far plane beyond it. Up and LookAt, when both
// present, must not be parallel.
func (c *AiCamera) Validate() error {
	var problems []string

	near, far := c.GetClipPlaneNear(), c.GetClipPlaneFar()
	if !(near > 0) {
		problems = append(problems, fmt.Sprintf("near plane %g must be positive", near))
	}
	if !(far > near) {
		problems = append(problems, fmt.Sprintf("far plane %g must exceed near plane %g", far, near))
	}

	if w := c.GetOrthographicWidth(); w < 0 || math.IsNaN(float64(w)) {
		problems = append(problems, fmt.Sprintf("orthographic width %g must not be negative", w))
	}
	if !c.IsOrthographic() {
		if fov := c.GetHorizontalFOV(); !(fov > 0 && fov <= math.Pi) {
			problems = append(problems, fmt.Sprintf("horizontal fov %g outside (0, pi]", fov))
		}
	}

	if c.HasUp() && c.HasLookAt() && c.Right().Len() == 0 {
		problems = append(problems, "up and look-at are parallel")
	}

	if len(problems) > 0 {
		return &ValidationError{Camera: c.GetName(), Problems: problems}
	}
	return nil
}

// Validate checks every camera of the scene and joins the failures.
func (s *AiScene) Validate() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, c := range s.Cameras {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
