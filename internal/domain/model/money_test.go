package model_test

import (
	"testing"

	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinorUnits(t *testing.T) {
	cases := map[int64]string{
		0:         "$0.00",
		5:         "$0.05",
		99:        "$0.99",
		100:       "$1.00",
		199800:    "$1,998.00",
		279700:    "$2,797.00",
		123456789: "$1,234,567.89",
		-2550:     "-$25.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, model.FormatMinorUnits(in), "amount %d", in)
	}
}
