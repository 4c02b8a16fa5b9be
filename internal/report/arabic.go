package report

// Arabic letters must be converted to their contextual presentation forms
// before a PDF writer that lacks a text shaping engine can render them,
// and the result laid out in visual (right-to-left) order.

// shape holds the presentation forms of one Arabic letter. Zero means the
// letter has no such form.
type shape struct {
	isolated rune
	final    rune
	initial  rune
	medial   rune
}

// joins reports whether the letter can connect to the following letter
func (s shape) joins() bool { return s.initial != 0 }

var arabicShapes = map[rune]shape{
	'ء': {isolated: 'ﺀ'},                                                 // hamza
	'آ': {isolated: 'ﺁ', final: 'ﺂ'},                                // alef madda
	'أ': {isolated: 'ﺃ', final: 'ﺄ'},                                // alef hamza above
	'ؤ': {isolated: 'ﺅ', final: 'ﺆ'},                                // waw hamza
	'إ': {isolated: 'ﺇ', final: 'ﺈ'},                                // alef hamza below
	'ئ': {isolated: 'ﺉ', final: 'ﺊ', initial: 'ﺋ', medial: 'ﺌ'}, // yeh hamza
	'ا': {isolated: 'ﺍ', final: 'ﺎ'},                                // alef
	'ب': {isolated: 'ﺏ', final: 'ﺐ', initial: 'ﺑ', medial: 'ﺒ'}, // beh
	'ة': {isolated: 'ﺓ', final: 'ﺔ'},                                // teh marbuta
	'ت': {isolated: 'ﺕ', final: 'ﺖ', initial: 'ﺗ', medial: 'ﺘ'}, // teh
	'ث': {isolated: 'ﺙ', final: 'ﺚ', initial: 'ﺛ', medial: 'ﺜ'}, // theh
	'ج': {isolated: 'ﺝ', final: 'ﺞ', initial: 'ﺟ', medial: 'ﺠ'}, // jeem
	'ح': {isolated: 'ﺡ', final: 'ﺢ', initial: 'ﺣ', medial: 'ﺤ'}, // hah
	'خ': {isolated: 'ﺥ', final: 'ﺦ', initial: 'ﺧ', medial: 'ﺨ'}, // khah
	'د': {isolated: 'ﺩ', final: 'ﺪ'},                                // dal
	'ذ': {isolated: 'ﺫ', final: 'ﺬ'},                                // thal
	'ر': {isolated: 'ﺭ', final: 'ﺮ'},                                // reh
	'ز': {isolated: 'ﺯ', final: 'ﺰ'},                                // zain
	'س': {isolated: 'ﺱ', final: 'ﺲ', initial: 'ﺳ', medial: 'ﺴ'}, // seen
	'ش': {isolated: 'ﺵ', final: 'ﺶ', initial: 'ﺷ', medial: 'ﺸ'}, // sheen
	'ص': {isolated: 'ﺹ', final: 'ﺺ', initial: 'ﺻ', medial: 'ﺼ'}, // sad
	'ض': {isolated: 'ﺽ', final: 'ﺾ', initial: 'ﺿ', medial: 'ﻀ'}, // dad
	'ط': {isolated: 'ﻁ', final: 'ﻂ', initial: 'ﻃ', medial: 'ﻄ'}, // tah
	'ظ': {isolated: 'ﻅ', final: 'ﻆ', initial: 'ﻇ', medial: 'ﻈ'}, // zah
	'ع': {isolated: 'ﻉ', final: 'ﻊ', initial: 'ﻋ', medial: 'ﻌ'}, // ain
	'غ': {isolated: 'ﻍ', final: 'ﻎ', initial: 'ﻏ', medial: 'ﻐ'}, // ghain
	'ف': {isolated: 'ﻑ', final: 'ﻒ', initial: 'ﻓ', medial: 'ﻔ'}, // feh
	'ق': {isolated: 'ﻕ', final: 'ﻖ', initial: 'ﻗ', medial: 'ﻘ'}, // qaf
	'ك': {isolated: 'ﻙ', final: 'ﻚ', initial: 'ﻛ', medial: 'ﻜ'}, // kaf
	'ل': {isolated: 'ﻝ', final: 'ﻞ', initial: 'ﻟ', medial: 'ﻠ'}, // lam
	'م': {isolated: 'ﻡ', final: 'ﻢ', initial: 'ﻣ', medial: 'ﻤ'}, // meem
	'ن': {isolated: 'ﻥ', final: 'ﻦ', initial: 'ﻧ', medial: 'ﻨ'}, // noon
	'ه': {isolated: 'ﻩ', final: 'ﻪ', initial: 'ﻫ', medial: 'ﻬ'}, // heh
	'و': {isolated: 'ﻭ', final: 'ﻮ'},                                // waw
	'ى': {isolated: 'ﻯ', final: 'ﻰ'},                                // alef maksura
	'ي': {isolated: 'ﻱ', final: 'ﻲ', initial: 'ﻳ', medial: 'ﻴ'}, // yeh
}

// lamAlefLigatures maps the alef variant following lam to its ligature
// (isolated, final) pair.
var lamAlefLigatures = map[rune][2]rune{
	'آ': {'ﻵ', 'ﻶ'},
	'أ': {'ﻷ', 'ﻸ'},
	'إ': {'ﻹ', 'ﻺ'},
	'ا': {'ﻻ', 'ﻼ'},
}

const lam = 'ل'

// Reshape converts Arabic letters in s to their contextual presentation
// forms, including the lam-alef ligatures. Non-Arabic runes pass through
// unchanged and break joining.
func Reshape(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))

	prevJoins := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		sh, isArabic := arabicShapes[r]
		if !isArabic {
			out = append(out, r)
			prevJoins = false
			continue
		}

		// Lam followed by an alef variant collapses into a ligature
		if r == lam && i+1 < len(runes) {
			if lig, ok := lamAlefLigatures[runes[i+1]]; ok {
				if prevJoins {
					out = append(out, lig[1])
				} else {
					out = append(out, lig[0])
				}
				prevJoins = false
				i++
				continue
			}
		}

		nextJoins := false
		if i+1 < len(runes) {
			if next, ok := arabicShapes[runes[i+1]]; ok && next.final != 0 {
				nextJoins = true
			}
		}

		out = append(out, contextualForm(sh, prevJoins, nextJoins))
		prevJoins = sh.joins()
	}

	return string(out)
}

func contextualForm(sh shape, prevJoins, nextJoins bool) rune {
	switch {
	case prevJoins && nextJoins && sh.medial != 0:
		return sh.medial
	case prevJoins && sh.final != 0:
		return sh.final
	case nextJoins && sh.initial != 0:
		return sh.initial
	default:
		return sh.isolated
	}
}

// DisplayRTL reshapes s and reverses it into visual order for writers
// that lay text out left to right.
func DisplayRTL(s string) string {
	shaped := []rune(Reshape(s))
	for i, j := 0, len(shaped)-1; i < j; i, j = i+1, j-1 {
		shaped[i], shaped[j] = shaped[j], shaped[i]
	}
	return string(shaped)
}
