package safe

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// Mat owns a gocv.Mat and guarantees it is closed exactly once, either by
// Close or by the finalizer.
type Mat struct {
	mat     gocv.Mat
	isValid int32
	mu      sync.RWMutex
	tag     string
}

// Wrap takes ownership of mat. The caller must not close mat afterwards.
func Wrap(mat gocv.Mat, tag string) (*Mat, error) {
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("Mat %q is empty", tag)
	}

	safeMat := &Mat{
		mat:     mat,
		isValid: 1,
		tag:     tag,
	}
	runtime.SetFinalizer(safeMat, (*Mat).finalize)
	return safeMat, nil
}

// NewMat allocates an uninitialized Mat. Unlike NewMatFromBytes it does not
// apply the image size limit, so it can hold reshaped working buffers.
func NewMat(rows, cols int, matType gocv.MatType, tag string) (*Mat, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d for Mat %q", cols, rows, tag)
	}
	return Wrap(gocv.NewMatWithSize(rows, cols, matType), tag)
}

// NewMatFromFloats copies data into a new 64-bit float Mat with the given
// channel count.
func NewMatFromFloats(rows, cols, channels int, data []float64, tag string) (*Mat, error) {
	matType, err := float64Type(channels)
	if err != nil {
		return nil, err
	}
	if want := rows * cols * channels; len(data) != want {
		return nil, fmt.Errorf("Mat %q needs %d samples, got %d", tag, want, len(data))
	}

	sm, err := NewMat(rows, cols, matType, tag)
	if err != nil {
		return nil, err
	}
	mat := sm.GetMat()
	dst, err := mat.DataPtrFloat64()
	if err != nil {
		sm.Close()
		return nil, fmt.Errorf("Mat %q: %w", tag, err)
	}
	copy(dst, data)
	return sm, nil
}

// NewMatFromBytes copies data into a new Mat of the given size and type.
func NewMatFromBytes(rows, cols int, matType gocv.MatType, data []byte, tag string) (*Mat, error) {
	if err := ValidateDimensions(cols, rows, tag); err != nil {
		return nil, err
	}
	if want := rows * cols * matTypeSize(matType); len(data) != want {
		return nil, fmt.Errorf("Mat %q needs %d bytes, got %d", tag, want, len(data))
	}

	mat, err := gocv.NewMatFromBytes(rows, cols, matType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat %q: %w", tag, err)
	}
	return Wrap(mat, tag)
}

func (sm *Mat) IsValid() bool {
	return atomic.LoadInt32(&sm.isValid) == 1
}

func (sm *Mat) Empty() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return true
	}
	return sm.mat.Empty()
}

func (sm *Mat) Rows() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0
	}
	return sm.mat.Rows()
}

func (sm *Mat) Cols() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0
	}
	return sm.mat.Cols()
}

func (sm *Mat) Type() gocv.MatType {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return gocv.MatTypeCV8UC1
	}
	return sm.mat.Type()
}

// Bytes returns a copy of the pixel data in row-major, channel-interleaved
// order.
func (sm *Mat) Bytes() ([]byte, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return nil, fmt.Errorf("Mat %q is closed", sm.tag)
	}
	return sm.mat.ToBytes(), nil
}

// Float64s returns a copy of the samples of a 64-bit float Mat.
func (sm *Mat) Float64s() ([]float64, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return nil, fmt.Errorf("Mat %q is closed", sm.tag)
	}
	if sm.mat.Type()&0x7 != gocv.MatTypeCV64F {
		return nil, fmt.Errorf("Mat %q has type %d, want 64-bit float", sm.tag, int(sm.mat.Type()))
	}
	data, err := sm.mat.DataPtrFloat64()
	if err != nil {
		return nil, fmt.Errorf("Mat %q: %w", sm.tag, err)
	}
	return append([]float64(nil), data...), nil
}

func (sm *Mat) GetMat() gocv.Mat {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.mat
}

func (sm *Mat) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if atomic.CompareAndSwapInt32(&sm.isValid, 1, 0) {
		if !sm.mat.Empty() {
			sm.mat.Close()
		}
		runtime.SetFinalizer(sm, nil)
	}
}

func (sm *Mat) finalize() {
	if atomic.LoadInt32(&sm.isValid) == 1 {
		sm.Close()
	}
}

func float64Type(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV64FC1, nil
	case 3:
		return gocv.MatTypeCV64FC3, nil
	default:
		return 0, fmt.Errorf("unsupported channel count %d for float Mat", channels)
	}
}

func matTypeSize(matType gocv.MatType) int {
	switch matType {
	case gocv.MatTypeCV8UC1:
		return 1
	case gocv.MatTypeCV8UC3:
		return 3
	case gocv.MatTypeCV8UC4:
		return 4
	default:
		return 1
	}
}
