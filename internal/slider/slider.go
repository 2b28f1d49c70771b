package slider

import (
	"fmt"

	"github.com/yildizm/pagekit/internal/common"
)

// Step directions
const (
	Forward  = 1
	Backward = -1
)

// Slider is a carousel position over a fixed number of slides
type Slider struct {
	count int
	index int
}

// New creates a slider at the first slide. A slider with no slides ignores steps.
func New(count int) (*Slider, error) {
	if count < 0 {
		return nil, common.NewConfigurationError(fmt.Sprintf("slide count must be non-negative, got %d", count), nil)
	}
	return &Slider{count: count}, nil
}

// Count returns the number of slides
func (s *Slider) Count() int {
	return s.count
}

// Index returns the zero-based current slide
func (s *Slider) Index() int {
	return s.index
}

// Advance moves one slide in direction, wrapping at both ends
func (s *Slider) Advance(direction int) (common.Directive, error) {
	if direction != Forward && direction != Backward {
		return common.Directive{}, common.NewInvalidInputError(
			fmt.Sprintf("slide direction must be +1 or -1, got %d", direction), nil)
	}
	if s.count == 0 {
		return common.SetSlideIndex(s.index), nil
	}

	s.index = (s.index + direction + s.count) % s.count
	return common.SetSlideIndex(s.index), nil
}

// GoTo jumps to the 1-based slide n. Out-of-range n is rejected and leaves the index unchanged.
func (s *Slider) GoTo(n int) (common.Directive, error) {
	if n < 1 || n > s.count {
		return common.Directive{}, common.NewUnknownTargetError("slide", fmt.Sprintf("%d", n), "")
	}

	s.index = n - 1
	return common.SetSlideIndex(s.index), nil
}
