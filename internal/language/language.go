package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic maps ISO 639-2/B codes, which Matroska files often carry, to
// their terminology counterparts understood by x/text.
var bibliographic = map[string]string{
	"alb": "sq",
	"arm": "hy",
	"baq": "eu",
	"bur": "my",
	"chi": "zh",
	"cze": "cs",
	"dut": "nl",
	"fre": "fr",
	"geo": "ka",
	"ger": "de",
	"gre": "el",
	"ice": "is",
	"mac": "mk",
	"mao": "mi",
	"may": "ms",
	"per": "fa",
	"rum": "ro",
	"slo": "sk",
	"tib": "bo",
	"wel": "cy",
}

var (
	namer      = display.English.Languages()
	titleCaser = cases.Title(xlang.English)
)

// Normalize converts an ISO 639-1, ISO 639-2 (T or B) or BCP 47 code to its
// canonical base language code. It returns "" for empty, undetermined, or
// unrecognized input.
func Normalize(code string) string {
	base, ok := parseBase(code)
	if !ok {
		return ""
	}
	return base.String()
}

// DisplayName returns the English name of a language code, such as "French"
// for "fre". Unrecognized codes that look like words ("english") are
// title-cased; anything else yields "".
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if base, ok := parseBase(code); ok {
		if name := namer.Name(base); name != "" {
			return name
		}
	}
	if isWord(code) && len(code) > 3 {
		return titleCaser.String(code)
	}
	return ""
}

// ExtractFromTags returns the language tag from stream metadata, checking the
// keys ffprobe reports for Matroska and MP4 sources.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range []string{"language", "language_ietf", "lang"} {
		for k, v := range tags {
			if !strings.EqualFold(k, key) {
				continue
			}
			value := strings.TrimSpace(strings.ReplaceAll(v, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}

func parseBase(code string) (xlang.Base, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "und" {
		return xlang.Base{}, false
	}
	if mapped, ok := bibliographic[code]; ok {
		code = mapped
	}
	tag, err := xlang.Parse(code)
	if err != nil {
		return xlang.Base{}, false
	}
	base, confidence := tag.Base()
	if confidence == xlang.No || base.String() == "und" {
		return xlang.Base{}, false
	}
	return base, true
}

func isWord(value string) bool {
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return value != ""
}
