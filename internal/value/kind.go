package value

import "strconv"

// Kind identifies which member of the Value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
)

var kindNames = [...]string{
	KindNull:    "KindNull",
	KindInteger: "KindInteger",
	KindFloat:   "KindFloat",
	KindText:    "KindText",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

// IsNumber reports whether the kind carries a numeric payload.
func (k Kind) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInteger, KindFloat:
		return true
	}
}
