package chart

import (
	"testing"

	"assetdesk/internal/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngMagic is the PNG file signature.
var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestBarPNG(t *testing.T) {
	t.Run("renders a PNG", func(t *testing.T) {
		groups := []summary.GroupCount{
			{Key: "HQ", Count: 12},
			{Key: "Branch 2", Count: 5},
		}

		png, err := BarPNG("Devices per department", groups)
		require.NoError(t, err)
		require.Greater(t, len(png), len(pngMagic))
		assert.Equal(t, pngMagic, png[:len(pngMagic)])
	})

	t.Run("empty aggregation is an error", func(t *testing.T) {
		_, err := BarPNG("Devices per department", nil)
		assert.Error(t, err)
	})
}

func TestPiePNG(t *testing.T) {
	t.Run("renders a PNG", func(t *testing.T) {
		groups := []summary.GroupCount{
			{Key: "Laptop", Count: 7},
			{Key: "Desktop", Count: 3},
		}

		png, err := PiePNG("Device type share", groups)
		require.NoError(t, err)
		require.Greater(t, len(png), len(pngMagic))
		assert.Equal(t, pngMagic, png[:len(pngMagic)])
	})

	t.Run("empty aggregation is an error", func(t *testing.T) {
		_, err := PiePNG("Device type share", nil)
		assert.Error(t, err)
	})
}
