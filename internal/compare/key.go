package compare

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RateKey определяет одну тарифицируемую услугу. Части ключа обрезаны,
// модификаторы могут быть пустыми.
type RateKey struct {
	ProcCode  string
	Modifier  string
	Modifier2 string
}

// String склеивает части через "+", например "99213+25+".
func (k RateKey) String() string {
	return k.ProcCode + "+" + k.Modifier + "+" + k.Modifier2
}

// KeyCase - политика регистра для частей ключа.
type KeyCase string

const (
	KeyCasePreserve KeyCase = "preserve"
	KeyCaseUpper    KeyCase = "upper"
)

func ParseKeyCase(s string) (KeyCase, error) {
	switch KeyCase(strings.ToLower(s)) {
	case KeyCasePreserve, "":
		return KeyCasePreserve, nil
	case KeyCaseUpper:
		return KeyCaseUpper, nil
	}
	return "", fmt.Errorf("неизвестная политика регистра %q", s)
}

// normalizer применяет KeyCase к обрезанным частям ключа.
type normalizer struct {
	upper cases.Caser
	on    bool
}

func newNormalizer(kc KeyCase) normalizer {
	return normalizer{upper: cases.Upper(language.Und), on: kc == KeyCaseUpper}
}

func (n normalizer) key(proc, mod, mod2 string) RateKey {
	k := RateKey{
		ProcCode:  strings.TrimSpace(proc),
		Modifier:  strings.TrimSpace(mod),
		Modifier2: strings.TrimSpace(mod2),
	}
	if n.on {
		k.ProcCode = n.upper.String(k.ProcCode)
		k.Modifier = n.upper.String(k.Modifier)
		k.Modifier2 = n.upper.String(k.Modifier2)
	}
	return k
}
