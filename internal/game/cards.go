package game

// FaceValue is the printed face of a planning card.
type FaceValue string

const (
	FaceZero      FaceValue = "zero"
	FaceOne       FaceValue = "one"
	FaceTwo       FaceValue = "two"
	FaceThree     FaceValue = "three"
	FaceFour      FaceValue = "four"
	FaceFive      FaceValue = "five"
	FaceEight     FaceValue = "eight"
	FaceThirteen  FaceValue = "thirteen"
	FaceSixteen   FaceValue = "sixteen"
	FaceTwenty    FaceValue = "twenty"
	FaceThirtyTwo FaceValue = "thirtyTwo"
	FaceForty     FaceValue = "forty"
	FaceHundred   FaceValue = "hundred"
	FaceQuestion  FaceValue = "question"
)

var facePoints = map[FaceValue]int{
	FaceZero:      0,
	FaceOne:       1,
	FaceTwo:       2,
	FaceThree:     3,
	FaceFour:      4,
	FaceFive:      5,
	FaceEight:     8,
	FaceThirteen:  13,
	FaceSixteen:   16,
	FaceTwenty:    20,
	FaceThirtyTwo: 32,
	FaceForty:     40,
	FaceHundred:   100,
	FaceQuestion:  0,
}

func (f FaceValue) String() string {
	return string(f)
}

// Points returns the numeric estimate a face stands for. The question card
// scores zero.
func (f FaceValue) Points() int {
	return facePoints[f]
}

// ParseFaceValue resolves a wire keyword to a face value.
func ParseFaceValue(s string) (FaceValue, bool) {
	f := FaceValue(s)
	_, ok := facePoints[f]
	return f, ok
}

// PointScale selects which faces a dealt hand contains.
type PointScale string

const (
	ScaleLinear      PointScale = "linear"
	ScaleFibonacci   PointScale = "fibonacci"
	ScalePowersOfTwo PointScale = "powersOfTwo"
)

var scaleFaces = map[PointScale][]FaceValue{
	ScaleLinear: {
		FaceZero, FaceOne, FaceTwo, FaceThree, FaceQuestion,
	},
	ScaleFibonacci: {
		FaceZero, FaceOne, FaceTwo, FaceThree, FaceFive, FaceEight,
		FaceThirteen, FaceTwenty, FaceForty, FaceHundred, FaceQuestion,
	},
	ScalePowersOfTwo: {
		FaceZero, FaceOne, FaceTwo, FaceFour, FaceEight, FaceSixteen,
		FaceThirtyTwo, FaceQuestion,
	},
}

// ParsePointScale resolves a wire keyword to a point scale.
func ParsePointScale(s string) (PointScale, bool) {
	scale := PointScale(s)
	_, ok := scaleFaces[scale]
	return scale, ok
}

type Card struct {
	FaceValue FaceValue `json:"faceValue"`
}

// Deck builds the full hand dealt to each player for this scale.
func (s PointScale) Deck() []Card {
	faces := scaleFaces[s]
	cards := make([]Card, 0, len(faces))
	for _, face := range faces {
		cards = append(cards, Card{FaceValue: face})
	}
	return cards
}
