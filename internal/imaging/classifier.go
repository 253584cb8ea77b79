package imaging

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
	"sync"
)

// Classifier reports whether an image depicts a cat.
// Threshold is a confidence percentage in the [0, 100] range.
type Classifier interface {
	ContainsCat(ctx context.Context, img image.Image, threshold float32) (bool, error)
}

// ErrNoImage is returned when a nil image is classified.
var ErrNoImage = errors.New("image is required")

// FakeClassifier draws a random confidence for every image and compares it
// against the threshold. It replaces a real recognition service in local runs.
type FakeClassifier struct {
	// random produces confidences; guarded by mu because rand.Rand is not safe for concurrent use.
	random *rand.Rand
	mu     sync.Mutex
}

// NewFakeClassifier creates a classifier with the provided random source.
// A nil source uses a randomly seeded PCG generator.
func NewFakeClassifier(source rand.Source) *FakeClassifier {
	if source == nil {
		source = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	return &FakeClassifier{
		random: rand.New(source), //nolint:gosec // Not used for security purposes.
	}
}

// ContainsCat returns true when the drawn confidence exceeds the threshold.
func (c *FakeClassifier) ContainsCat(ctx context.Context, img image.Image, threshold float32) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if img == nil {
		return false, ErrNoImage
	}

	c.mu.Lock()
	confidence := c.random.Float32() * 100
	c.mu.Unlock()

	return confidence > threshold, nil
}

// StaticClassifier always returns the same verdict.
// It is handy for tests and for demos with a fixed camera outcome.
type StaticClassifier bool

// ContainsCat returns the static verdict.
func (c StaticClassifier) ContainsCat(ctx context.Context, img image.Image, _ float32) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if img == nil {
		return false, ErrNoImage
	}

	return bool(c), nil
}
