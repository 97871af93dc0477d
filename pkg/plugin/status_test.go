package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "OK", OK.String())
	assert.Equal(t, "WARNING", Warning.String())
	assert.Equal(t, "CRITICAL", Critical.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "UNKNOWN", Status(42).String())
}

func TestStatusExitCode(t *testing.T) {
	assert.Equal(t, 0, OK.ExitCode())
	assert.Equal(t, 1, Warning.ExitCode())
	assert.Equal(t, 2, Critical.ExitCode())
	assert.Equal(t, 3, Unknown.ExitCode())
	assert.Equal(t, 3, Status(42).ExitCode())
}

func TestWorst(t *testing.T) {
	assert.Equal(t, OK, Worst())
	assert.Equal(t, OK, Worst(OK, OK))
	assert.Equal(t, Warning, Worst(OK, Warning, OK))
	assert.Equal(t, Critical, Worst(Warning, Critical, OK))
	assert.Equal(t, Unknown, Worst(Critical, Unknown))
}

// Combining must be monotonic: the result is never less severe than
// any input, regardless of order.
func TestWorstMonotonic(t *testing.T) {
	statuses := []Status{OK, Warning, Critical, Unknown}
	for _, a := range statuses {
		for _, b := range statuses {
			combined := Worst(a, b)
			assert.GreaterOrEqual(t, combined, a)
			assert.GreaterOrEqual(t, combined, b)
			assert.Equal(t, combined, Worst(b, a))
		}
	}
}

// Combining must be associative.
func TestWorstAssociative(t *testing.T) {
	statuses := []Status{OK, Warning, Critical, Unknown}
	for _, a := range statuses {
		for _, b := range statuses {
			for _, c := range statuses {
				assert.Equal(t, Worst(Worst(a, b), c), Worst(a, Worst(b, c)))
			}
		}
	}
}
