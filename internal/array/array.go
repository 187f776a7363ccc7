package array

import "fmt"

// Device represents the memory placement of an array's buffer.
type Device int

// Supported memory placements.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// Array is a dense complex-valued multi-dimensional array.
type Array struct {
	data    []complex64
	shape   Shape
	strides []int
	device  Device
}

// New allocates a zeroed array of the given shape on the given device.
func New(shape Shape, device Device) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &Array{
		data:    make([]complex64, shape.NumElements()),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		device:  device,
	}, nil
}

// MustNew is New for shapes already known to be valid; it panics otherwise.
// Used for scratch buffers whose shapes were validated at construction time.
func MustNew(shape Shape, device Device) *Array {
	a, err := New(shape, device)
	if err != nil {
		panic(err)
	}
	return a
}

// NewSameplace allocates a zeroed array of the given shape on the same
// device as ref.
func NewSameplace(shape Shape, ref *Array) (*Array, error) {
	return New(shape, ref.device)
}

// FromSlice creates an array backed by a copy of data.
func FromSlice(data []complex64, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}

	a := MustNew(shape, CPU)
	copy(a.data, data)
	return a, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// Strides returns the array's element strides.
func (a *Array) Strides() []int {
	return a.strides
}

// Device returns the array's memory placement.
func (a *Array) Device() Device {
	return a.device
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// Data returns the backing element slice.
// WARNING: direct access to underlying memory. Use with caution.
func (a *Array) Data() []complex64 {
	return a.data
}
