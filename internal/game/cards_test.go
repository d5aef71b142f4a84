package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFaceValue(t *testing.T) {
	face, ok := ParseFaceValue("thirteen")
	assert.True(t, ok)
	assert.Equal(t, FaceThirteen, face)

	_, ok = ParseFaceValue("eleventy")
	assert.False(t, ok)

	_, ok = ParseFaceValue("")
	assert.False(t, ok)
}

func TestFaceValuePoints(t *testing.T) {
	assert.Equal(t, 0, FaceZero.Points())
	assert.Equal(t, 1, FaceOne.Points())
	assert.Equal(t, 13, FaceThirteen.Points())
	assert.Equal(t, 100, FaceHundred.Points())
	assert.Equal(t, 0, FaceQuestion.Points())
}

func TestParsePointScale(t *testing.T) {
	for _, keyword := range []string{"linear", "fibonacci", "powersOfTwo"} {
		scale, ok := ParsePointScale(keyword)
		assert.True(t, ok, "scale %s should parse", keyword)
		assert.Equal(t, PointScale(keyword), scale)
	}

	_, ok := ParsePointScale("tShirtSizes")
	assert.False(t, ok)
}

func TestDeckMatchesScale(t *testing.T) {
	linear := ScaleLinear.Deck()
	assert.Equal(t, []Card{
		{FaceZero}, {FaceOne}, {FaceTwo}, {FaceThree}, {FaceQuestion},
	}, linear)

	fib := ScaleFibonacci.Deck()
	assert.Len(t, fib, 11)
	assert.Contains(t, fib, Card{FaceThirteen})

	powers := ScalePowersOfTwo.Deck()
	assert.Contains(t, powers, Card{FaceThirtyTwo})
	assert.NotContains(t, powers, Card{FaceThree})
}

func TestDeckReturnsFreshSlice(t *testing.T) {
	a := ScaleLinear.Deck()
	b := ScaleLinear.Deck()
	a[0] = Card{FaceHundred}
	assert.Equal(t, Card{FaceZero}, b[0])
}
