package charset

import "unicode"

// category is a named union of Unicode range tables, restricted to MaxChar.
type category struct {
	tables []*unicode.RangeTable
}

func (c *category) contains(r rune) bool {
	return unicode.IsOneOf(c.tables, r)
}

// each calls fn for every maximal run of consecutive characters in c.
// Strided ranges are reported one character at a time.
func (c *category) each(fn func(lo, hi rune)) {
	for _, t := range c.tables {
		for _, r := range t.R16 {
			eachRange(rune(r.Lo), rune(r.Hi), rune(r.Stride), fn)
		}
		for _, r := range t.R32 {
			if rune(r.Lo) > MaxChar {
				break
			}
			hi := rune(r.Hi)
			if hi > MaxChar {
				hi = MaxChar
			}
			eachRange(rune(r.Lo), hi, rune(r.Stride), fn)
		}
	}
}

func eachRange(lo, hi, stride rune, fn func(lo, hi rune)) {
	if stride == 1 {
		fn(lo, hi)
		return
	}
	for r := lo; r <= hi; r += stride {
		fn(r, r)
	}
}

var (
	spaceTable = &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: ' ', Hi: ' ', Stride: 1}},
	}
	allTable = &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: 0, Hi: uint16(MaxChar), Stride: 1}},
	}
)

// aliases are the friendly category names accepted in {name} references,
// on top of the Unicode category and script names.
var aliases = map[string][]*unicode.RangeTable{
	"Letter":       {unicode.Letter},
	"Digit":        {unicode.Digit},
	"Number":       {unicode.Number},
	"Whitespace":   {unicode.White_Space},
	"Upper":        {unicode.Upper},
	"Lower":        {unicode.Lower},
	"Punctuation":  {unicode.Punct},
	"Alphanumeric": {unicode.Letter, unicode.Digit},
	"Printable":    {unicode.Letter, unicode.Mark, unicode.Number, unicode.Punct, unicode.Symbol, spaceTable},
	"All":          {allTable},
}

func defaultCategories() map[string]*category {
	cats := make(map[string]*category, len(unicode.Categories)+len(unicode.Scripts)+len(aliases))
	for name, t := range unicode.Categories {
		cats[name] = &category{tables: []*unicode.RangeTable{t}}
	}
	for name, t := range unicode.Scripts {
		cats[name] = &category{tables: []*unicode.RangeTable{t}}
	}
	for name, ts := range aliases {
		cats[name] = &category{tables: ts}
	}
	return cats
}
