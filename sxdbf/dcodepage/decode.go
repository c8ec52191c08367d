package dcodepage

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// encodings holds the x/text encoding for each code page the resolver
// can produce. Code pages without an x/text implementation (737, 857,
// and 861) are left out on purpose and fall back to Latin-1.
var encodings = map[int]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	860:   charmap.CodePage860,
	863:   charmap.CodePage863,
	865:   charmap.CodePage865,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	932:   japanese.ShiftJIS,
	936:   simplifiedchinese.GBK,
	949:   korean.EUCKR,
	950:   traditionalchinese.Big5,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1257:  charmap.Windows1257,
	10000: charmap.Macintosh,
}

// DecoderFor returns a text decoder for the given language driver
// byte. Unknown driver bytes and code pages with no x/text mapping
// both get a Latin-1 decoder, which maps every byte to a rune and
// never fails, so character field decoding stays deterministic on
// arbitrary input.
func DecoderFor(languageDriver byte) *encoding.Decoder {
	codePage, ok := Resolve(languageDriver)
	if !ok {
		return charmap.ISO8859_1.NewDecoder()
	}
	enc, ok := encodings[codePage]
	if !ok {
		return charmap.ISO8859_1.NewDecoder()
	}
	return enc.NewDecoder()
}
